package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/config"
	"accessibilityhire/internal/feed"
	"accessibilityhire/internal/middleware"
	"accessibilityhire/internal/repository/memory"
	"accessibilityhire/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.New()
	cfg.DataStore = config.DataStoreMemory
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = 4
	cfg.Storage.PublicBaseURL = "http://files.test"

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))

	return Build(cfg, log, &Deps{
		Repos: memory.New(),
		Cache: cache.NewMemoryCache(),
		Feed:  feed.NewLocalFeed(),
		Store: store,
	})
}

func do(t *testing.T, srv *Server, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func signUp(t *testing.T, srv *Server, email string) (token, uid string) {
	t.Helper()
	w, env := do(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
		User  struct {
			UID string `json:"uid"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.Token, res.User.UID
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	w, env := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = do(t, srv, http.MethodGet, "/version", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestJobPostFlow(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "owner@example.com")

	w, env := do(t, srv, http.MethodPost, "/api/job-posts", token, map[string]string{"title": "Engineer"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	require.NotNil(t, env.Error)

	w, _ = do(t, srv, http.MethodPost, "/api/organizations", token, map[string]string{
		"org_name": "Acme", "org_url": "https://acme.test",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = do(t, srv, http.MethodPost, "/api/job-posts", token, map[string]string{"title": "Engineer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID           string `json:"id"`
		Organization struct {
			OrgName string `json:"org_name"`
		} `json:"organization"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "Acme", post.Organization.OrgName)

	w, env = do(t, srv, http.MethodGet, "/api/job-posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	other, _ := signUp(t, srv, "other@example.com")
	w, _ = do(t, srv, http.MethodDelete, "/api/job-posts/"+post.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, srv, http.MethodDelete, "/api/job-posts/"+post.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, srv, http.MethodGet, "/api/job-posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobsRoutes(t *testing.T) {
	srv := newTestServer(t)
	token, uid := signUp(t, srv, "poster@example.com")

	w, _ := do(t, srv, http.MethodPost, "/api/jobs", "", map[string]any{"title": "Anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, job := range []map[string]any{
		{"title": "Frontend Developer", "location": "Remote", "jobType": "full-time", "isAccessible": true, "salaryMin": 50000},
		{"title": "Backend Developer", "location": "Berlin", "jobType": "part-time", "isAccessible": false},
	} {
		w, _ := do(t, srv, http.MethodPost, "/api/jobs", token, job)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var jobs []struct {
		Title string `json:"title"`
	}
	w, env := do(t, srv, http.MethodGet, "/api/jobs/search?q=frontend", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Frontend Developer", jobs[0].Title)

	w, env = do(t, srv, http.MethodGet, "/api/jobs/filter?isAccessible=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Developer", jobs[0].Title)

	w, env = do(t, srv, http.MethodGet, "/api/users/"+uid+"/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	assert.Len(t, jobs, 2)

	w, _ = do(t, srv, http.MethodGet, "/api/jobs?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdempotentCreate(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "idem@example.com")

	body := map[string]any{"title": "Tester"}
	first, _ := do(t, srv, http.MethodPost, "/api/jobs", token, body, middleware.IdempotencyHeader, "abc-123")
	require.Equal(t, http.StatusCreated, first.Code)

	second, _ := do(t, srv, http.MethodPost, "/api/jobs", token, body, middleware.IdempotencyHeader, "abc-123")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.ReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w, env := do(t, srv, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	assert.Len(t, jobs, 1)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Idempotency-Key")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/organizations/me"},
		{http.MethodGet, "/api/job-posts/mine"},
		{http.MethodPatch, "/api/jobs/000000000000000000000000"},
	} {
		w, env := do(t, srv, r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.path)
		assert.False(t, env.Success, r.path)
	}
}

func TestNew_RejectsBuiltInSecret(t *testing.T) {
	cfg := config.New()
	cfg.DataStore = config.DataStoreMongo
	cfg.Storage.Driver = config.StorageGridFS
	cfg.Auth.JWTSecret = config.DefaultJWTSecret

	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))

	_, err := New(cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func uploadImage(t *testing.T, srv *Server, token, fileName, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + fileName + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/profile/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestProfileImageUpload(t *testing.T) {
	srv := newTestServer(t)
	token, uid := signUp(t, srv, "ada@example.com")

	w, env := uploadImage(t, srv, token, "evil.html", "image/png",
		"<html><body><script>fetch('/api/auth/me')</script></body></html>")
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, "storage/invalid-file", env.Error.Code)

	w, _ = do(t, srv, http.MethodGet, "/files/profileImages/"+uid+"/evil.png", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = uploadImage(t, srv, token, "me.html", "image/png", "\x89PNG\r\n\x1a\nrest")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "http://files.test/files/profileImages/"+uid+"/me.png", res.URL)

	req := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(res.URL, "http://files.test"), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
}
