package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/model"
	"accessibilityhire/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessions() *session.Manager {
	return session.NewManager(config.AuthConfig{JWTSecret: "s", Issuer: "test", SessionTTLMinutes: 10}, cache.NewMemoryCache())
}

func decode(t *testing.T, body io.Reader) model.Response {
	t.Helper()
	var resp model.Response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestRequireAuth(t *testing.T) {
	sessions := newSessions()
	user := &model.User{ID: primitive.NewObjectID(), Email: "a@b.co"}
	token, _, err := sessions.Issue(user)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireAuth(sessions), func(c *gin.Context) {
		caller, ok := session.CallerFrom(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, caller.UserID.Hex())
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, apperr.CodeNoCurrentUser},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, apperr.CodeNoCurrentUser},
		{"bad token", "Bearer nope", http.StatusUnauthorized, apperr.CodeInvalidToken},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				resp := decode(t, w.Body)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.code, resp.Error.Code)
			} else {
				assert.Equal(t, user.ID.Hex(), w.Body.String())
			}
		})
	}
}

func TestRequireAuth_Revoked(t *testing.T) {
	sessions := newSessions()
	token, _, err := sessions.Issue(&model.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)
	caller, err := sessions.Parse(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(context.Background(), caller))

	r := gin.New()
	r.GET("/me", RequireAuth(sessions), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeTokenRevoked, decode(t, w.Body).Error.Code)
}

func TestRequestLogger(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c.Request.Context())) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(RequestIDHeader))
}

func TestIdempotency(t *testing.T) {
	sessions := newSessions()
	store := cache.NewMemoryCache()
	token, _, err := sessions.Issue(&model.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	var calls int32
	r := gin.New()
	r.POST("/jobs", RequireAuth(sessions), Idempotency(store, time.Hour, logger.Discard()), func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"n": n})
	})

	do := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := do("k1")
	assert.Equal(t, http.StatusCreated, first.Code)
	second := do("k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(ReplayedHeader))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	do("k2")
	do("")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	long := do(strings.Repeat("k", maxIdempotencyKeyLength+1))
	assert.Equal(t, http.StatusBadRequest, long.Code)
}

func TestIdempotency_InProgress(t *testing.T) {
	sessions := newSessions()
	store := cache.NewMemoryCache()
	user := &model.User{ID: primitive.NewObjectID()}
	token, _, err := sessions.Issue(user)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/jobs", RequireAuth(sessions), Idempotency(store, time.Hour, logger.Discard()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	held, err := store.Lock(context.Background(), "idem:"+user.ID.Hex()+":POST:/jobs:k1", time.Minute)
	require.NoError(t, err)
	defer held(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(IdempotencyHeader, "k1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperr.CodeIdempotencyInProgress, decode(t, w.Body).Error.Code)
}

// unavailableCache fails every call, as a cache does during an outage
type unavailableCache struct {
	*cache.MemoryCache
}

var errUnavailable = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (unavailableCache) Get(context.Context, string) ([]byte, error) { return nil, errUnavailable }

func (unavailableCache) Set(context.Context, string, []byte, time.Duration) error {
	return errUnavailable
}

func (unavailableCache) Lock(context.Context, string, time.Duration) (cache.Unlock, error) {
	return nil, errUnavailable
}

func TestIdempotency_CacheUnavailable(t *testing.T) {
	sessions := newSessions()
	token, _, err := sessions.Issue(&model.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	var calls int32
	r := gin.New()
	r.POST("/jobs", RequireAuth(sessions), Idempotency(unavailableCache{cache.NewMemoryCache()}, time.Hour, logger.Discard()), func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(IdempotencyHeader, "k1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code, "requests are processed without the lock")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
