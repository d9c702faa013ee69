package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/crudapp/crudapp/internal/config"
	"github.com/crudapp/crudapp/internal/database"
	"github.com/crudapp/crudapp/internal/item/repository"
	"github.com/crudapp/crudapp/internal/item/service"
	"github.com/crudapp/crudapp/internal/upload"
	"github.com/crudapp/crudapp/internal/view"
	"github.com/crudapp/crudapp/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := upload.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ts, err := view.Load()
	require.NoError(t, err)
	return Deps{
		Items:     service.New(repository.NewMemoryRepo(), store),
		Uploads:   store,
		Templates: ts,
	}
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

type readyBody struct {
	Status string          `json:"status"`
	Deps   map[string]bool `json:"deps"`
}

func decodeReady(t *testing.T, w *httptest.ResponseRecorder) readyBody {
	t.Helper()
	var b readyBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestHealthAndMetrics(t *testing.T) {
	r := New(testDeps(t))

	w := serve(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestReadyWithMemoryStore(t *testing.T) {
	r := New(testDeps(t))
	w := serve(r, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	b := decodeReady(t, w)
	assert.Equal(t, "ready", b.Status)
	assert.True(t, b.Deps["memory"])
}

func TestReadyReportsDisconnectedMongo(t *testing.T) {
	d := testDeps(t)
	d.DB = database.NewClient("mongodb://127.0.0.1:1", "crudApp", 0)
	r := New(d)

	w := serve(r, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	b := decodeReady(t, w)
	assert.Equal(t, "not_ready", b.Status)
	assert.False(t, b.Deps["mongodb"])
}

func TestReadyReportsRedisUsedByLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	d := testDeps(t)
	d.Redis = client
	d.RateLimit = config.RateLimitConfig{Enabled: true, UseRedis: true, RPS: 1000, Burst: 1000, WindowSeconds: 1}
	r := New(d)

	w := serve(r, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeReady(t, w).Deps["redis"])

	mr.Close()
	w = serve(r, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decodeReady(t, w).Deps["redis"])
}

func TestStaticAndUploads(t *testing.T) {
	d := testDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(d.Uploads.Dir(), "5.png"), []byte("png-bytes"), 0o644))
	r := New(d)

	w := serve(r, http.MethodGet, "/static/style.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "font-family")

	w = serve(r, http.MethodGet, "/uploads/5.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = serve(r, http.MethodGet, "/uploads/missing.png")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemRoutesMounted(t *testing.T) {
	r := New(testDeps(t))

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(url.Values{"name": {"Widget"}, "description": {"A widget"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	w = serve(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestRateLimitEnabled(t *testing.T) {
	d := testDeps(t)
	d.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	r := New(d)

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.9.8.7:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	// probes bypass the limiter
	w := serve(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
}
