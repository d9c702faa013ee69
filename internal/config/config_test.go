package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "crud_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("MONGODB_TIMEOUT", "3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.MongoDB.Database != "crud_test" {
		t.Fatalf("database = %q, want %q", cfg.MongoDB.Database, "crud_test")
	}
	if cfg.MongoDB.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", cfg.MongoDB.Timeout)
	}
	if got := cfg.Redis.Addr(); got != "localhost:6379" {
		t.Fatalf("redis addr = %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("UPLOAD_URL_PREFIX", "images")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.MongoDB.Collection != "items" {
		t.Fatalf("collection = %q, want items", cfg.MongoDB.Collection)
	}
	if cfg.Uploads.URLPrefix != "/images" {
		t.Fatalf("url prefix = %q, want /images", cfg.Uploads.URLPrefix)
	}
	if cfg.MinIO.Enabled() {
		t.Fatalf("minio should be disabled without an endpoint")
	}
	if cfg.MinIO.Bucket != "item-images" || cfg.MinIO.Region != "us-east-1" {
		t.Fatalf("minio bucket/region = %q/%q", cfg.MinIO.Bucket, cfg.MinIO.Region)
	}
}
