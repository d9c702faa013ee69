package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crudapp/crudapp/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// limiters are shared per client IP, so every test uses its own address
func requestFrom(method, path, remote string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	return req
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestFrom("GET", "/ok", "10.0.0.1:1111"))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, requestFrom("GET", "/ok", "10.0.0.1:1112"))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, requestFrom("GET", "/limited", "10.0.0.2:1111"))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, requestFrom("GET", "/limited", "10.0.0.2:1111"))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	// a different client has its own bucket
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, requestFrom("GET", "/limited", "10.0.0.3:1111"))
	require.Equal(t, http.StatusOK, w3.Code)

	// 2 rps refills one token after 500ms
	time.Sleep(600 * time.Millisecond)
	w4 := httptest.NewRecorder()
	r.ServeHTTP(w4, requestFrom("GET", "/limited", "10.0.0.2:1111"))
	require.Equal(t, http.StatusOK, w4.Code)
}
