package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the predictor configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Static    StaticConfig    `yaml:"static"`
	Model     ModelConfig     `yaml:"model"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"` // e.g. ":8000"
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	// TrustedProxies lists addresses or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is always the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type StaticConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

type ModelConfig struct {
	Store        string      `yaml:"store"` // file | redis
	Dir          string      `yaml:"dir"`
	Redis        RedisConfig `yaml:"redis"`
	Preprocessor string      `yaml:"preprocessor"`
	Classifier   string      `yaml:"classifier"`
	// OnnxRuntimeLibrary is the path to libonnxruntime; empty probes the
	// ONNXRUNTIME_SHARED_LIBRARY_PATH env var and common locations.
	OnnxRuntimeLibrary string        `yaml:"onnxruntime_library"`
	LoadTimeout        time.Duration `yaml:"load_timeout"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"` // 0 disables
	Refill   time.Duration `yaml:"refill"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Environment overrides, applied after the file is read.
const (
	EnvAddr        = "LOAN_PREDICTOR_ADDR"
	EnvArtifactDir = "LOAN_PREDICTOR_ARTIFACT_DIR"
	EnvRedisAddr   = "LOAN_PREDICTOR_REDIS_ADDR"
	EnvLogLevel    = "LOAN_PREDICTOR_LOG_LEVEL"
)

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
		},
		Static: StaticConfig{
			Dir:    "static",
			Prefix: "/static",
		},
		Model: ModelConfig{
			Store:        StoreFile,
			Dir:          "models",
			Preprocessor: "preprocessor.onnx",
			Classifier:   "model.onnx",
			LoadTimeout:  30 * time.Second,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "loan-predictor:artifact:",
			},
		},
		RateLimit: RateLimitConfig{
			Capacity: 0,
			Refill:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvArtifactDir)); v != "" {
		cfg.Model.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Model.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = def.Server.AllowedOrigins
	}

	if cfg.Static.Prefix == "" || strings.Trim(cfg.Static.Prefix, "/") == "" {
		cfg.Static.Prefix = def.Static.Prefix
	}

	if cfg.Model.Store == "" {
		cfg.Model.Store = def.Model.Store
	}
	if cfg.Model.Preprocessor == "" {
		cfg.Model.Preprocessor = def.Model.Preprocessor
	}
	if cfg.Model.Classifier == "" {
		cfg.Model.Classifier = def.Model.Classifier
	}
	if cfg.Model.LoadTimeout <= 0 {
		cfg.Model.LoadTimeout = def.Model.LoadTimeout
	}

	if cfg.RateLimit.Refill <= 0 {
		cfg.RateLimit.Refill = def.RateLimit.Refill
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.Model.Store {
	case StoreFile:
		if c.Model.Dir == "" {
			return fmt.Errorf("model.dir is required for the %q store", StoreFile)
		}
	case StoreRedis:
		if c.Model.Redis.Addr == "" {
			return fmt.Errorf("model.redis.addr is required for the %q store", StoreRedis)
		}
	default:
		return fmt.Errorf("model.store must be %q or %q, got %q", StoreFile, StoreRedis, c.Model.Store)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	for _, p := range c.Server.TrustedProxies {
		if !validProxyEntry(p) {
			return fmt.Errorf("server.trusted_proxies: %q is not an address or CIDR", p)
		}
	}

	if c.RateLimit.Capacity < 0 {
		return fmt.Errorf("rate_limit.capacity must not be negative")
	}
	return nil
}

func validProxyEntry(entry string) bool {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		_, err := netip.ParsePrefix(entry)
		return err == nil
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}
