package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crudapp/crudapp/internal/config"
	"github.com/crudapp/crudapp/internal/database"
	"github.com/crudapp/crudapp/internal/item/repository"
	"github.com/crudapp/crudapp/internal/item/service"
	"github.com/crudapp/crudapp/internal/router"
	"github.com/crudapp/crudapp/internal/storage"
	"github.com/crudapp/crudapp/internal/telemetry"
	"github.com/crudapp/crudapp/internal/upload"
	"github.com/crudapp/crudapp/internal/view"
	"github.com/crudapp/crudapp/pkg/logger"
	"github.com/crudapp/crudapp/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v env=%s", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.MinIO.Enabled(), cfg.Server.Environment)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx)
	if err != nil {
		logger.Fatalf("failed to init tracing: %v", err)
	}

	deps := router.Deps{RateLimit: cfg.RateLimit}

	// Items: MongoDB when configured, memory otherwise. A failed connection is
	// logged and not retried; item requests then fail until restart.
	var repo repository.Repository
	if cfg.MongoDB.URI != "" {
		db := database.NewClient(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Timeout)
		if err := db.Connect(ctx); err == nil {
			defer func() { _ = db.Disconnect(context.Background()) }()
		}
		repo = repository.NewMongoRepo(db, cfg.MongoDB.Collection)
		deps.DB = db
	} else {
		logger.Warnf("MONGODB_URI not set, items are kept in memory")
		repo = repository.NewMemoryRepo()
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		defer rdb.Close()
		deps.Redis = rdb
	}

	storeOpts := []upload.Option{}
	if cfg.MinIO.Enabled() {
		mirror, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("image mirror disabled: %v", err)
		} else {
			logger.Infof("mirroring uploads to bucket %s at %s", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
			storeOpts = append(storeOpts, upload.WithMirror(mirror))
		}
	}
	store, err := upload.NewDiskStore(cfg.Uploads.PublicDir, cfg.Uploads.URLPrefix, storeOpts...)
	if err != nil {
		logger.Fatalf("failed to prepare uploads directory: %v", err)
	}

	templates, err := view.Load()
	if err != nil {
		logger.Fatalf("failed to load templates: %v", err)
	}

	deps.Items = service.New(repo, store)
	deps.Uploads = store
	deps.Templates = templates

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := router.New(deps)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      otelhttp.NewHandler(r, "crudapp"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := <-quit
		logger.Infof("shutdown signal received: %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("server forced to shutdown: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			logger.Warnf("tracing shutdown: %v", err)
		}
	}()

	logger.Infof("server is running on http://%s", cfg.Server.Addr())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server failed: %v", err)
	}
	<-done
	logger.Infof("server stopped")
}
