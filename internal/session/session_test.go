package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brief-portal/internal/ctxutil"
	"brief-portal/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, 7*24*time.Hour, true), mr
}

func TestBegin_SetsCookieAndCachesProfile(t *testing.T) {
	store, mr := setupStore(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	err := store.Begin(c, &models.LoginResponse{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin, Token: "tok-123"})
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, CookieName, ck.Name)
	assert.Equal(t, "tok-123", ck.Value)
	assert.Equal(t, 7*24*3600, ck.MaxAge)
	assert.True(t, ck.Secure)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	assert.True(t, mr.Exists(Key("tok-123")))
	assert.False(t, mr.Exists(profilePrefix+"tok-123"), "raw token must not be a key")

	p, err := store.Profile(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, models.RoleAdmin, p.Role)
}

func TestEnd_ClearsProfileAndCookie(t *testing.T) {
	store, mr := setupStore(t)
	require.NoError(t, mr.Set(Key("tok"), `{"id":"u1","role":"CLIENT"}`))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})

	store.End(c)

	assert.False(t, mr.Exists(Key("tok")))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestProfile_Missing(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Profile(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoProfile)

	_, err = store.Profile(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestMiddleware_PopulatesContext(t *testing.T) {
	store, mr := setupStore(t)
	require.NoError(t, mr.Set(Key("tok"), `{"id":"u9","name":"Cy","role":"CLIENT"}`))

	r := gin.New()
	r.Use(store.Middleware())

	var token string
	var rd *ctxutil.RequestData
	var profile *models.Profile
	r.GET("/dashboard", func(c *gin.Context) {
		token = ctxutil.Token(c.Request.Context())
		rd = ctxutil.GetRequestData(c.Request.Context())
		profile = CurrentProfile(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "tok", token)
	require.NotNil(t, rd)
	assert.Equal(t, "u9", rd.UserID)
	assert.Equal(t, models.RoleClient, rd.Role)
	assert.NotEmpty(t, rd.RequestID)
	assert.Equal(t, rd.RequestID, w.Header().Get("X-Request-ID"))
	require.NotNil(t, profile)
	assert.Equal(t, "Cy", profile.Name)
}

func TestMiddleware_NoCookie(t *testing.T) {
	store, _ := setupStore(t)

	r := gin.New()
	r.Use(store.Middleware())
	var token string
	var profile *models.Profile
	r.GET("/login", func(c *gin.Context) {
		token = ctxutil.Token(c.Request.Context())
		profile = CurrentProfile(c)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Empty(t, token)
	assert.Nil(t, profile)
}

func TestID_StableAndOpaque(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ID(c))

	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	id := ID(c)
	assert.Len(t, id, 64)
	assert.NotContains(t, id, "tok")
	assert.Equal(t, Key("tok"), profilePrefix+id)
}
