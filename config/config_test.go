package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Model.Store != StoreFile || cfg.Model.Preprocessor != "preprocessor.onnx" {
		t.Errorf("unexpected model defaults %+v", cfg.Model)
	}
	if cfg.RateLimit.Capacity != 0 {
		t.Errorf("rate limiting should be off by default")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {

	path := writeConfig(t, `
server:
  addr: ":9090"
  read_timeout: 5s
model:
  store: redis
  redis:
    addr: "redis:6379"
    db: 2
  preprocessor: scaler.json
  classifier: classifier.json
rate_limit:
  capacity: 10
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Model.Store != StoreRedis || cfg.Model.Redis.DB != 2 {
		t.Errorf("unexpected model config %+v", cfg.Model)
	}
	if cfg.Model.Redis.KeyPrefix != "loan-predictor:artifact:" {
		t.Errorf("expected default key prefix, got %q", cfg.Model.Redis.KeyPrefix)
	}
	if cfg.RateLimit.Capacity != 10 || cfg.RateLimit.Refill != time.Minute {
		t.Errorf("unexpected rate limit %+v", cfg.RateLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {

	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvArtifactDir, "/srv/models")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(writeConfig(t, "server:\n  addr: \":9090\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Model.Dir != "/srv/models" {
		t.Errorf("expected env dir, got %q", cfg.Model.Dir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unclosed"},
		{"unknown store", "model:\n  store: s3\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"negative capacity", "rate_limit:\n  capacity: -1\n"},
		{"bad trusted proxy", "server:\n  trusted_proxies: [\"10.0.0.0/99\"]\n"},
		{"hostname trusted proxy", "server:\n  trusted_proxies: [\"proxy.local\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {

	cfg, err := Load(writeConfig(t, "server:\n  trusted_proxies: [\"10.0.0.0/8\", \"192.0.2.1\"]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[0] != "10.0.0.0/8" {
		t.Errorf("unexpected trusted proxies %v", cfg.Server.TrustedProxies)
	}
}
