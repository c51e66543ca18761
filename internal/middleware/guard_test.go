package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brief-portal/internal/models"
	"brief-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func makeToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "u1", "role": role}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	// any key works: the guard never verifies signatures
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-backend-key"))
	require.NoError(t, err)
	return token
}

func TestDecide(t *testing.T) {
	admin := makeToken(t, models.RoleAdmin, fixedNow.Add(time.Hour))
	client := makeToken(t, models.RoleClient, fixedNow.Add(time.Hour))
	noExp := makeToken(t, models.RoleClient, time.Time{})
	expired := makeToken(t, models.RoleAdmin, fixedNow.Add(-time.Minute))
	unknownRole := makeToken(t, "AUDITOR", fixedNow.Add(time.Hour))

	tests := []struct {
		name  string
		path  string
		token string
		want  string
	}{
		{"admin without token", "/admin/x", "", LoginPath},
		{"admin as client", "/admin/x", client, UnauthorizedPath},
		{"admin as admin", "/admin/x", admin, ""},
		{"admin root as admin", "/admin", admin, ""},
		{"malformed token", "/admin", "not-a-jwt", LoginPath},
		{"expired token", "/admin/users", expired, LoginPath},
		{"dashboard as client", "/dashboard", client, ""},
		{"dashboard as admin", "/dashboard", admin, ""},
		{"templates as client", "/templates/b1", client, ""},
		{"profile without token", "/profile", "", LoginPath},
		{"token without exp", "/profile", noExp, ""},
		{"unknown role", "/dashboard", unknownRole, UnauthorizedPath},
		{"root as admin", "/", admin, "/admin"},
		{"root as client", "/", client, "/dashboard"},
		{"root without token", "/", "", LoginPath},
		{"root unknown role", "/", unknownRole, UnauthorizedPath},
		{"login is public", "/login", "", ""},
		{"similar prefix is public", "/administrator", "", ""},
		{"templates-like prefix", "/templatesx", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.path, tt.token, fixedNow)
			assert.Equal(t, tt.want, d.Redirect)
			assert.Equal(t, tt.want == "", d.Allowed())
		})
	}
}

func TestGuardMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Guard())
	r.GET("/admin/x", func(c *gin.Context) { c.String(http.StatusOK, "admin area") })

	// no cookie
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/x", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	// client token
	req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: makeToken(t, models.RoleClient, time.Now().Add(time.Hour))})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, UnauthorizedPath, w.Header().Get("Location"))

	// admin token passes through unmodified
	req = httptest.NewRequest(http.MethodGet, "/admin/x", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: makeToken(t, models.RoleAdmin, time.Now().Add(time.Hour))})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin area", w.Body.String())
	assert.Empty(t, w.Header().Get("Location"))
}
