package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":8000" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Timeout != time.Minute {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.Storage.Postgres.Enabled() {
		t.Fatal("postgres should be disabled by default")
	}
	if cfg.Storage.Redis.Enabled() {
		t.Fatal("redis should be disabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
  "server": {"address": ":9100", "auth_enabled": true, "jwt_secret": "s3cret"},
  "storage": {"postgres": {"host": "db", "dbname": "quadrant", "user": "q", "password": "p"}},
  "search": {"provider": "serper", "serper_api_key": "sk"}
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9100" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if !cfg.Storage.Postgres.Enabled() {
		t.Fatal("postgres should be enabled")
	}
	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if dsn != "postgres://q:p@db:5432/quadrant?sslmode=disable" {
		t.Fatalf("dsn = %q", dsn)
	}
	if cfg.Search.APIKey() != "sk" {
		t.Fatalf("search key = %q", cfg.Search.APIKey())
	}
}

func TestLoadConfigAuthRequiresSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"auth_enabled": true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestRedisAddrDefaultPort(t *testing.T) {
	r := RedisConfig{Host: "cache"}
	if got := r.Addr(); got != "cache:6379" {
		t.Fatalf("addr = %q", got)
	}
}
