package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/logger"
	"accessibilityhire/internal/model"
	"accessibilityhire/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFileHandler_Serve(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	png := "\x89PNG\r\n\x1a\npng"
	_, err = store.Put(context.Background(), "profileImages/u1/a.png", "image/png", strings.NewReader(png))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/files/*path", NewFileHandler(store).Serve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/profileImages/u1/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/profileImages/u1/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileHandler_ServeMarkupAsDownload(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	// written behind the upload path's back, named like an image
	_, err = store.Put(context.Background(), "profileImages/u1/x.png", "image/png",
		strings.NewReader("<html><script>alert(document.cookie)</script></html>"))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/files/*path", NewFileHandler(store).Serve)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/profileImages/u1/x.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, storage.DefaultContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	h := NewHealthHandler(map[string]Pinger{"store": pingerFunc(func(context.Context) error { return nil })})
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)

	r = gin.New()
	h = NewHealthHandler(map[string]Pinger{"store": pingerFunc(func(context.Context) error { return assert.AnError })})
	r.GET("/health", h.Health)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func TestFeedHandler_Stream(t *testing.T) {
	events := feed.NewLocalFeed()
	defer events.Close()

	r := gin.New()
	r.GET("/feed", NewFeedHandler(events, nil, logger.Discard()).Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, events.Publish(context.Background(), model.Event{Type: model.EventJobCreated, ID: "j1"}))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got model.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, model.EventJobCreated, got.Type)
	assert.Equal(t, "j1", got.ID)
}

func TestFeedHandler_RejectsOrigin(t *testing.T) {
	events := feed.NewLocalFeed()
	defer events.Close()

	r := gin.New()
	r.GET("/feed", NewFeedHandler(events, []string{"https://app.test"}, logger.Discard()).Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/feed", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
