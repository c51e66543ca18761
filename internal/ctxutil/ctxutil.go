package ctxutil

import "context"

type tokenKey struct{}
type requestDataKey struct{}

// RequestData is the identity the session middleware resolved for a request.
type RequestData struct {
	RequestID string
	UserID    string
	Role      string
}

// WithToken stores the bearer token read from the session cookie.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func Token(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
