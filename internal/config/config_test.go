package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.APIBase != "/api" || cfg.DataSource != SourceStatic {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimit || cfg.TLS.Enable {
		t.Fatalf("rate limit and tls should default off: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.Redis.Addr != "" || cfg.GeoIPDB != "" {
		t.Fatalf("optional integrations should be disabled by default")
	}
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ADDR":               ":9090",
		"API_BASE":           "v1/",
		"DATA_SOURCE":        "Postgres",
		"PG_HOST":            "db",
		"PG_PASSWORD":        "p@ss word",
		"REDIS_ADDR":         "redis:6379",
		"RATE_LIMIT_ENABLED": "true",
		"RATE_LIMIT_QPS":     "5",
		"SHUTDOWN_TIMEOUT":   "3s",
		"ALLOW_CIDRS":        "10.0.0.0/8,192.0.2.7",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.APIBase != "/v1" || cfg.DataSource != SourcePostgres {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.RateLimit || cfg.RateLimitQPS != 5 || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("rate/shutdown not applied: %+v", cfg)
	}
	if len(cfg.AllowCIDRs) != 2 || cfg.AllowCIDRs[1] != "192.0.2.7" {
		t.Fatalf("allow list = %v", cfg.AllowCIDRs)
	}
	if want := "postgres://postgres:p%40ss%20word@db:5432/milpower?sslmode=disable"; cfg.Postgres.DSN() != want {
		t.Fatalf("DSN = %q, want %q", cfg.Postgres.DSN(), want)
	}
}

func TestLoadFromRejectsUnknownSource(t *testing.T) {
	_, err := LoadFrom(map[string]string{"DATA_SOURCE": "csv"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	_, err = LoadFrom(map[string]string{"API_BASE": "/"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for root API base, got %v", err)
	}
}

func TestLoadFromBadDuration(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"SHUTDOWN_TIMEOUT": "soon"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDotenvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("MILPOWER_TEST_A=from_file\nMILPOWER_TEST_B=from_file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MILPOWER_TEST_A", "from_env")
	t.Setenv("MILPOWER_TEST_B", "")
	os.Unsetenv("MILPOWER_TEST_B")

	LoadDotenv(p, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("MILPOWER_TEST_A"); got != "from_env" {
		t.Errorf("A = %q, want from_env", got)
	}
	if got := os.Getenv("MILPOWER_TEST_B"); got != "from_file" {
		t.Errorf("B = %q, want from_file", got)
	}
}
