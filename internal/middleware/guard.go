package middleware

import (
	"net/http"
	"strings"
	"time"

	"brief-portal/internal/models"
	"brief-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the outcome of the route guard. Redirect is empty when the
// request may proceed.
type Decision struct {
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

type rule struct {
	prefix string
	roles  []string
}

var guardRules = []rule{
	{prefix: "/admin", roles: []string{models.RoleAdmin}},
	{prefix: "/dashboard", roles: []string{models.RoleClient, models.RoleAdmin}},
	{prefix: "/templates", roles: []string{models.RoleClient, models.RoleAdmin}},
	{prefix: "/profile", roles: []string{models.RoleClient, models.RoleAdmin}},
}

func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Decide applies the role policy to a path. The token is decoded without
// verifying its signature: this only picks a redirect, the backend enforces
// authorization on every call.
func Decide(path, token string, now time.Time) Decision {
	var allowed []string
	root := path == "/"
	if !root {
		for _, r := range guardRules {
			if matchesPrefix(path, r.prefix) {
				allowed = r.roles
				break
			}
		}
		if allowed == nil {
			return Decision{}
		}
	}

	if token == "" {
		return Decision{Redirect: LoginPath}
	}
	role, ok := decodeRole(token, now)
	if !ok {
		return Decision{Redirect: LoginPath}
	}

	if root {
		switch role {
		case models.RoleAdmin:
			return Decision{Redirect: "/admin"}
		case models.RoleClient:
			return Decision{Redirect: "/dashboard"}
		default:
			return Decision{Redirect: UnauthorizedPath}
		}
	}

	for _, r := range allowed {
		if r == role {
			return Decision{}
		}
	}
	return Decision{Redirect: UnauthorizedPath}
}

// decodeRole reads the role claim. Malformed or expired tokens fail.
func decodeRole(token string, now time.Time) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "", false
	}
	if exp != nil && !now.Before(exp.Time) {
		return "", false
	}
	role, _ := claims["role"].(string)
	return role, true
}

// Guard redirects requests the policy refuses.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := Decide(c.Request.URL.Path, session.Token(c), time.Now())
		if !d.Allowed() {
			c.Redirect(http.StatusFound, d.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
