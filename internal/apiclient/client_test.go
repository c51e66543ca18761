package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brief-portal/internal/ctxutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, nil)
}

func TestPutWithTokenSendsBearerHeader(t *testing.T) {
	var gotAuth, gotMethod, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	ctx := ctxutil.WithToken(context.Background(), "abc.def.ghi")
	err := client.Put(ctx, "/briefs/b1/fields/f1", map[string]interface{}{"value": "x"}, nil, Auth)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
	assert.JSONEq(t, `{"value":"x"}`, gotBody)
}

func TestPutWithoutTokenOmitsHeaderAndStillFires(t *testing.T) {
	calls := 0
	var hasAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	})

	err := client.Put(context.Background(), "/briefs/b1/fields/f1", map[string]interface{}{"value": 1}, nil, Auth)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, hasAuth)
}

func TestUnauthenticatedCallIgnoresToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":"1"}`))
	})

	ctx := ctxutil.WithToken(context.Background(), "tok")
	var out map[string]string
	require.NoError(t, client.Post(ctx, "/users/login", map[string]string{"email": "a"}, &out, RequestOptions{}))
	assert.Empty(t, gotAuth)
	assert.Equal(t, "1", out["id"])
}

func TestEmptyBodyResolvesToEmptyObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]interface{}{}
	require.NoError(t, client.Delete(context.Background(), "/users/9", &out, Auth))
	assert.Empty(t, out)
}

func TestInvalidJSONOnSuccessIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	var out map[string]interface{}
	err := client.Get(context.Background(), "/users", &out, Auth)
	require.Error(t, err)
	assert.Zero(t, StatusOf(err))
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message", 400, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error string", 401, `{"error":"Unauthorized access"}`, "Unauthorized access"},
		{"error envelope", 401, `{"error":{"message":"expired","code":"unauthorized"}}`, "expired"},
		{"detail", 422, `{"detail":"bad field"}`, "bad field"},
		{"errors", 422, `{"errors":{"email":"taken"}}`, `{"email":"taken"}`},
		{"message wins", 400, `{"message":"first","error":"second"}`, "first"},
		{"empty json object", 500, `{}`, "Internal Server Error"},
		{"json non-object", 502, `"oops"`, "Bad Gateway"},
		{"raw text", 503, `upstream down`, "upstream down"},
		{"empty body", 404, ``, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.Get(context.Background(), "/x", nil, Auth)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestTransportFailure(t *testing.T) {
	client := New("http://127.0.0.1:1", time.Second, nil)
	err := client.Get(context.Background(), "/users", nil, Auth)
	require.Error(t, err)
	assert.Zero(t, StatusOf(err))
}

func TestPutRawSendsBytesWithoutAuth(t *testing.T) {
	var gotAuth, gotType, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	})

	srvURL := client.baseURL + "/bucket/key?X-Amz-Signature=abc"
	ctx := ctxutil.WithToken(context.Background(), "tok")
	require.NoError(t, client.PutRaw(ctx, srvURL, "application/pdf", strings.NewReader("%PDF"), 4))

	assert.Empty(t, gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF", gotBody)
}

func TestPutRawFailureCarriesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<Error><Code>SignatureDoesNotMatch</Code></Error>"))
	})

	err := client.PutRaw(context.Background(), client.baseURL+"/k", "text/plain", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
}
