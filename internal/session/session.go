// Package session is the only place that reads or writes the signed-in
// identity: the token cookie and the cached user profile.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"brief-portal/internal/ctxutil"
	"brief-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName    = "token"
	profilePrefix = "portal:profile:"
	profileCtxKey = "session_profile"
)

var ErrNoProfile = errors.New("no profile for session")

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	secure bool
}

func NewStore(rdb *redis.Client, ttl time.Duration, secure bool) *Store {
	return &Store{rdb: rdb, ttl: ttl, secure: secure}
}

// Key derives the Redis key for a token. The raw token never becomes a key.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return profilePrefix + hex.EncodeToString(sum[:])
}

// Begin sets the token cookie and caches the profile returned by login.
func (s *Store) Begin(c *gin.Context, resp *models.LoginResponse) error {
	profile := models.Profile{ID: resp.ID, Name: resp.Name, Email: resp.Email, Role: resp.Role}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.rdb.Set(c.Request.Context(), Key(resp.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	s.setCookie(c, resp.Token, int(s.ttl.Seconds()))
	return nil
}

// End drops the cached profile and expires the cookie.
func (s *Store) End(c *gin.Context) {
	if token := Token(c); token != "" {
		s.rdb.Del(c.Request.Context(), Key(token))
	}
	s.setCookie(c, "", -1)
}

func (s *Store) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", s.secure, true)
}

// Token reads the bearer token from the cookie.
func Token(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func (s *Store) Profile(ctx context.Context, token string) (*models.Profile, error) {
	if token == "" {
		return nil, ErrNoProfile
	}
	data, err := s.rdb.Get(ctx, Key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// Middleware puts the token and the cached identity on the request
// context so outbound backend calls carry the bearer header.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{RequestID: c.GetHeader("X-Request-ID")}
		if rd.RequestID == "" {
			rd.RequestID = uuid.New().String()
		}
		c.Header("X-Request-ID", rd.RequestID)

		ctx := c.Request.Context()
		if token := Token(c); token != "" {
			ctx = ctxutil.WithToken(ctx, token)
			if p, err := s.Profile(ctx, token); err == nil {
				rd.UserID = p.ID
				rd.Role = p.Role
				c.Set(profileCtxKey, p)
			}
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(ctx, rd))
		c.Next()
	}
}

// CurrentProfile returns the profile resolved by Middleware, if any.
func CurrentProfile(c *gin.Context) *models.Profile {
	if v, ok := c.Get(profileCtxKey); ok {
		if p, ok := v.(*models.Profile); ok {
			return p
		}
	}
	return nil
}

// ID scopes per-session state such as drafts and editors.
func ID(c *gin.Context) string {
	token := Token(c)
	if token == "" {
		return ""
	}
	return Key(token)[len(profilePrefix):]
}
