package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"solana-cluster-monitor/internal/clustering"
)

// Config represents the application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Helius    HeliusConfig    `mapstructure:"helius"`
	Detection DetectionConfig `mapstructure:"detection"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	ProjectName     string        `mapstructure:"project_name"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HeliusConfig configures the upstream transaction source
type HeliusConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	FetchLimit int           `mapstructure:"fetch_limit"`
	Pages      int           `mapstructure:"pages"`
}

// DetectionConfig holds the default detection parameters
type DetectionConfig struct {
	MinChildren          int  `mapstructure:"min_children"`
	FundingWindowMinutes int  `mapstructure:"funding_window_minutes"`
	SplitByMint          bool `mapstructure:"split_by_mint"`
}

// PostgresConfig represents cluster history storage
type PostgresConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Params returns the configured detection parameters.
func (d DetectionConfig) Params() clustering.Params {
	return clustering.Params{
		MinChildren:          d.MinChildren,
		FundingWindowMinutes: d.FundingWindowMinutes,
		SplitByMint:          d.SplitByMint,
	}
}

// Load loads configuration from .env, an optional config file and environment variables
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/solana-cluster-monitor")

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnv(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	if err := c.Detection.Params().Validate(); err != nil {
		return fmt.Errorf("detection defaults: %w", err)
	}
	if c.Helius.FetchLimit < 1 || c.Helius.FetchLimit > 100 {
		return fmt.Errorf("helius.fetch_limit %d outside [1,100]", c.Helius.FetchLimit)
	}
	if c.Postgres.Enabled && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required when postgres is enabled")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.New("nats.url is required when nats is enabled")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.project_name", "Solana Cluster Monitoring Backend")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.http_port", 8000)
	v.SetDefault("app.shutdown_timeout", "30s")

	// Helius defaults
	v.SetDefault("helius.api_key", "")
	v.SetDefault("helius.base_url", "https://api.helius.xyz/v0")
	v.SetDefault("helius.timeout", "30s")
	v.SetDefault("helius.max_retries", 3)
	v.SetDefault("helius.retry_delay", "1s")
	v.SetDefault("helius.fetch_limit", 100)
	v.SetDefault("helius.pages", 1)

	// Detection defaults
	v.SetDefault("detection.min_children", clustering.DefaultMinChildren)
	v.SetDefault("detection.funding_window_minutes", clustering.DefaultFundingWindowMinutes)
	v.SetDefault("detection.split_by_mint", false)

	// Postgres defaults
	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.dsn", "")

	// NATS defaults
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "clusters")
	v.SetDefault("nats.connect_timeout", "10s")
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.max_reconnects", 5)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "cluster_monitor")
}

// bindEnv maps the short variable names used by deployments.
func bindEnv(v *viper.Viper) {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.http_port", "APP_HTTP_PORT", "HTTP_PORT")
	v.BindEnv("detection.min_children", "DETECTION_MIN_CHILDREN", "MIN_CHILD_WALLETS")
	v.BindEnv("detection.funding_window_minutes", "DETECTION_FUNDING_WINDOW_MINUTES", "DETECTION_WINDOW_MINUTES")
}
