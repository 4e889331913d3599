package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment
// variables. It is built once at process start and never mutated afterwards.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	SourcesFile         string        `mapstructure:"sources_file"`
	DigestDir           string        `mapstructure:"digest_dir"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	MaxItemsPerSource   int           `mapstructure:"max_items_per_source"`
	FreshnessHours      int64         `mapstructure:"freshness_hours"`
	FreshnessWindow     time.Duration `mapstructure:"-"`

	StorageType           string        `mapstructure:"storage_type"`
	BBoltPath             string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds     int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL            time.Duration `mapstructure:"-"`
	StorageCleanup        time.Duration `mapstructure:"-"`

	Email Email `mapstructure:",squash"`
}

// Email carries SMTP connection parameters. All fields are required for the
// notifier stage and are treated as secrets: the struct is never logged as-is.
type Email struct {
	Host     string `mapstructure:"email_host"`
	Port     int    `mapstructure:"email_port"`
	User     string `mapstructure:"email_user"`
	Password string `mapstructure:"email_password"`
	To       string `mapstructure:"to_email"`
}

// Validate reports every missing required field by name. Values are never
// included in the error.
func (e Email) Validate() error {
	var missing []string
	if strings.TrimSpace(e.Host) == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if e.Port <= 0 || e.Port > 65535 {
		missing = append(missing, "EMAIL_PORT")
	}
	if strings.TrimSpace(e.User) == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if e.Password == "" {
		missing = append(missing, "EMAIL_PASSWORD")
	}
	if strings.TrimSpace(e.To) == "" {
		missing = append(missing, "TO_EMAIL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("email configuration incomplete: missing or invalid %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "ai-news-brief")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("digest_dir", "./data")
	v.SetDefault("fetch_timeout_seconds", 15)
	v.SetDefault("max_items_per_source", 5)
	v.SetDefault("freshness_hours", 72)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("email_host", "")
	v.SetDefault("email_port", 0)
	v.SetDefault("email_user", "")
	v.SetDefault("email_password", "")
	v.SetDefault("to_email", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, errors.New("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.FreshnessHours <= 0 {
		return nil, errors.New("invalid freshness_hours (must be positive hours)")
	}
	cfg.FreshnessWindow = time.Duration(cfg.FreshnessHours) * time.Hour

	if cfg.MaxItemsPerSource <= 0 {
		return nil, errors.New("invalid max_items_per_source (must be positive)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, errors.New("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, errors.New("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanup = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a loggable view of the config. Email credentials are
// reduced to presence flags so secrets never reach the logs.
func (c *Config) Redacted() map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"app_name":             c.AppName,
		"app_env":              c.Env,
		"log_level":            c.LogLevel,
		"sources_file":         c.SourcesFile,
		"digest_dir":           c.DigestDir,
		"fetch_timeout":        c.FetchTimeout.String(),
		"max_items_per_source": c.MaxItemsPerSource,
		"freshness_window":     c.FreshnessWindow.String(),
		"storage_type":         c.StorageType,
		"bbolt_path":           c.BBoltPath,
		"email_host_set":       strings.TrimSpace(c.Email.Host) != "",
		"email_user_set":       strings.TrimSpace(c.Email.User) != "",
		"email_password_set":   c.Email.Password != "",
		"to_email_set":         strings.TrimSpace(c.Email.To) != "",
	}
}
