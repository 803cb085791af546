package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: make(map[string]*entity.IdempotencyKey)}
}

func (m *memoryKeys) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID.String()+key], nil
}

func (m *memoryKeys) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (m *memoryKeys) DeleteExpired(context.Context) error { return nil }

func (m *memoryKeys) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

func withUser(userID uuid.UUID, perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_permissions", perms)
		c.Set("user_roles", []string{entity.RoleCashier})
		c.Next()
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet("user_id").(uuid.UUID).String())
	})

	access, err := jwtManager.GenerateAccessToken(userID, "a@b.co", []string{entity.RoleCashier}, nil)
	require.NoError(t, err)
	refresh, err := jwtManager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("query token only for event streams", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me?access_token="+access, nil)
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

		req = httptest.NewRequest(http.MethodGet, "/me?access_token="+access, nil)
		req.Header.Set("Accept", "text/event-stream")
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})
}

func TestRequirePermissionAndRole(t *testing.T) {
	userID := uuid.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/bills", withUser(userID, entity.PermViewBills), RequirePermission(entity.PermViewBills), ok)
	r.GET("/products/new", withUser(userID, entity.PermViewBills), RequirePermission(entity.PermManageProducts), ok)
	r.GET("/users", withUser(userID), RequireRole(entity.RoleAdmin), ok)

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/bills", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/products/new", nil)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, httptest.NewRequest(http.MethodGet, "/users", nil)).Code)
}

func TestIdempotency(t *testing.T) {
	keys := newMemoryKeys()
	userID := uuid.New()
	calls := 0

	r := gin.New()
	r.POST("/pay", withUser(userID), Idempotency(IdempotencyConfig{Repo: keys, Log: zap.NewNop()}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	r.POST("/fail", withUser(userID), Idempotency(IdempotencyConfig{Repo: keys}), func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	post := func(path, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return serve(r, req)
	}

	first := post("/pay", "k1", `{}`)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.JSONEq(t, `{"call":1}`, first.Body.String())

	replay := post("/pay", "k1", `{}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, `{"call":1}`, replay.Body.String())
	assert.Equal(t, 1, calls)

	t.Run("different body", func(t *testing.T) {
		w := post("/pay", "k1", `{"x":1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("no key runs every time", func(t *testing.T) {
		post("/pay", "", `{}`)
		post("/pay", "", `{}`)
		assert.Equal(t, 3, calls)
	})

	t.Run("server errors are not stored", func(t *testing.T) {
		before := keys.len()
		w := post("/fail", "k2", `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, before, keys.len())
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	alice, bob := uuid.New(), uuid.New()
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/alice", withUser(alice), rl.Middleware(), ok)
	r.GET("/bob", withUser(bob), rl.Middleware(), ok)
	r.GET("/anon", rl.Middleware(), ok)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/alice", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/alice", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// other users and anonymous clients have their own buckets
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/bob", nil)).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/anon", nil)).Code)
}

func TestRateLimiter_CleanupDropsIdleEntries(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{EntryTTL: time.Millisecond})
	defer rl.Stop()

	rl.getLimiter("ip:1.2.3.4")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limiters)
}
