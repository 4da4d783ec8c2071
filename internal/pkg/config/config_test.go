package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Fatalf("expected default token ttl 2h, got %s", cfg.JWTTTL)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("expected mongo driver by default, got %q", cfg.StoreDriver)
	}
	if cfg.IdempotencyEnabled() {
		t.Fatalf("idempotency must be off without REDIS_ADDR")
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("expected idempotency ttl 24h, got %s", cfg.Redis.IdempotencyTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"JWT_TTL":      "30m",
		"STORE_DRIVER": "postgres",
		"REDIS_ADDR":   "localhost:6379",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTTTL != 30*time.Minute || cfg.StoreDriver != DriverPostgres || !cfg.IdempotencyEnabled() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s3cret",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadMigrate_NeedsNoSecret(t *testing.T) {
	cfg, err := loadMigrate(context.Background(), envconfig.MapLookuper(map[string]string{
		"POSTGRES_DSN": "postgres://u:p@db:5432/library",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://u:p@db:5432/library" {
		t.Fatalf("unexpected dsn %q", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Fatalf("expected default max conns 10, got %d", cfg.Postgres.MaxConns)
	}

	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("serve config must still require JWT_SECRET")
	}
}
