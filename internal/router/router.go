package router

import (
	"context"
	"net/http"
	"time"

	"github.com/crudapp/crudapp/internal/config"
	"github.com/crudapp/crudapp/internal/item/handler"
	"github.com/crudapp/crudapp/internal/item/service"
	"github.com/crudapp/crudapp/internal/upload"
	"github.com/crudapp/crudapp/internal/view"
	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/crudapp/crudapp/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// ConnectionChecker reports whether the document store is usable.
// *database.Client implements it.
type ConnectionChecker interface {
	Connected() bool
}

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Items     service.Service
	Uploads   *upload.DiskStore
	Templates *view.Templates
	// DB is nil when items live in memory.
	DB        ConnectionChecker
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// New builds the gin engine with global middleware and every route.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), logger.Middleware(), middleware.RequestMetrics())

	// probes and metrics are registered before the limiter so it never applies to them
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.RateLimit.Enabled {
		if d.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(d.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(d.RateLimit.RPS, d.RateLimit.Burst))
		}
	}

	r.HTMLRender = d.Templates
	r.StaticFS("/static", http.FS(view.StaticFS()))
	r.Static(d.Uploads.URLPrefix(), d.Uploads.Dir())

	handler.RegisterItemRoutes(r, d.Items, upload.Middleware(d.Uploads, upload.FieldName))
	return r
}

// readiness returns 200 only when the item store is reachable, and Redis too
// when the rate limiter depends on it.
func readiness(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if d.DB == nil {
			deps["memory"] = true
		} else {
			deps["mongodb"] = d.DB.Connected()
			ready = ready && deps["mongodb"]
		}

		if d.Redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			deps["redis"] = d.Redis.Ping(ctx).Err() == nil
			cancel()
			if d.RateLimit.Enabled && d.RateLimit.UseRedis && !deps["redis"] {
				ready = false
			}
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
