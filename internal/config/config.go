package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// Supported authentication failure policies.
	PolicySimple  = "simple"
	PolicyRefresh = "refresh"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL         string        `mapstructure:"api_base_url"`
	AuthPolicy         string        `mapstructure:"auth_policy"`
	RetryAfterRefresh  bool          `mapstructure:"retry_after_refresh"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	RoutesPreset       string        `mapstructure:"routes_preset"`
	RoutesFile         string        `mapstructure:"routes_file"`
	EventsFile         string        `mapstructure:"events_file"`

	SessionStore           string        `mapstructure:"session_store"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	RedisAddr              string        `mapstructure:"redis_addr"`
	RedisPassword          string        `mapstructure:"redis_password"`
	RedisDB                int           `mapstructure:"redis_db"`
	RedisKeyPrefix         string        `mapstructure:"redis_key_prefix"`
	SessionTTLSeconds      int64         `mapstructure:"session_ttl_seconds"`
	SessionCleanupSeconds  int64         `mapstructure:"session_cleanup_interval_seconds"`
	SessionTTL             time.Duration `mapstructure:"-"`
	SessionCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "incidesk")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "http://localhost/api")
	v.SetDefault("auth_policy", PolicyRefresh)
	v.SetDefault("retry_after_refresh", false)
	v.SetDefault("http_timeout_seconds", 0)
	v.SetDefault("routes_preset", "gateway")
	v.SetDefault("routes_file", "")
	v.SetDefault("events_file", "")
	v.SetDefault("session_store", "bbolt")
	v.SetDefault("bbolt_path", "./data/session.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", "incidesk:")
	v.SetDefault("session_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("session_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize validates the raw values and derives the duration fields.
func (cfg *Config) normalize() error {
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}

	cfg.AuthPolicy = strings.ToLower(strings.TrimSpace(cfg.AuthPolicy))
	switch cfg.AuthPolicy {
	case PolicySimple, PolicyRefresh:
	default:
		return fmt.Errorf("invalid auth_policy %q (expected %q or %q)", cfg.AuthPolicy, PolicySimple, PolicyRefresh)
	}

	if cfg.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must not be negative)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.SessionTTLSeconds <= 0 {
		return fmt.Errorf("invalid session_ttl_seconds (must be positive seconds)")
	}
	if cfg.SessionCleanupSeconds <= 0 {
		return fmt.Errorf("invalid session_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLSeconds) * time.Second
	cfg.SessionCleanupInterval = time.Duration(cfg.SessionCleanupSeconds) * time.Second

	return nil
}
