// Package config handles configuration loading for the Drawdown Labs engine.
// It supports YAML config files with .env and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DRAWDOWN_API_PORT.
const EnvPrefix = "DRAWDOWN"

// Config represents the complete application configuration.
type Config struct {
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	MarketData MarketDataConfig `mapstructure:"marketdata" yaml:"marketdata"`
	Pricing    PricingConfig    `mapstructure:"pricing"    yaml:"pricing"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host              string   `mapstructure:"host"                yaml:"host"`
	Port              int      `mapstructure:"port"                yaml:"port"`
	CORSOrigins       []string `mapstructure:"cors_origins"        yaml:"cors_origins"`
	RequestTimeoutSec int      `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// Addr returns host:port for net.Listen.
func (c APIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RequestTimeout is the per-request deadline.
func (c APIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// MarketDataConfig holds the Yahoo client settings.
type MarketDataConfig struct {
	BaseURL         string  `mapstructure:"base_url"           yaml:"base_url"`
	TimeoutSec      int     `mapstructure:"timeout_sec"        yaml:"timeout_sec"`
	CacheTTLSec     int     `mapstructure:"cache_ttl_sec"      yaml:"cache_ttl_sec"`      // 0 disables caching
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec" yaml:"rate_limit_per_sec"` // 0 means unlimited
	MaxAttempts     int     `mapstructure:"max_attempts"       yaml:"max_attempts"`
	RetryDelayMs    int     `mapstructure:"retry_delay_ms"     yaml:"retry_delay_ms"`
}

// Timeout is the per-call upstream deadline.
func (c MarketDataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CacheTTL is how long fetched data is reused.
func (c MarketDataConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// RetryDelay is the first backoff interval.
func (c MarketDataConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// PricingConfig holds model inputs that are not part of a request.
type PricingConfig struct {
	RiskFreeRatePct float64 `mapstructure:"risk_free_rate_pct" yaml:"risk_free_rate_pct"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.drawdown/config.yaml (home directory)
//  3. /etc/drawdown/config.yaml (system)
//
// A .env file in the working directory is loaded into the environment
// first. Environment variables override config file values.
// Format: DRAWDOWN_<SECTION>_<KEY>, e.g., DRAWDOWN_API_PORT
func Load() (*Config, error) {
	loadDotEnv()
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".drawdown"))
	v.AddConfigPath("/etc/drawdown")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults. The chart clients call port 8001.
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8001)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.request_timeout_sec", 30)

	// Market data defaults
	v.SetDefault("marketdata.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("marketdata.timeout_sec", 10)
	v.SetDefault("marketdata.cache_ttl_sec", 300)
	v.SetDefault("marketdata.rate_limit_per_sec", 5)
	v.SetDefault("marketdata.max_attempts", 2)
	v.SetDefault("marketdata.retry_delay_ms", 500)

	// Pricing defaults
	v.SetDefault("pricing.risk_free_rate_pct", 4.5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	if c.API.RequestTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("api.request_timeout_sec must be positive, got %d", c.API.RequestTimeoutSec))
	}
	if c.MarketData.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("marketdata.timeout_sec must be positive, got %d", c.MarketData.TimeoutSec))
	}
	if c.MarketData.CacheTTLSec < 0 {
		errs = append(errs, fmt.Errorf("marketdata.cache_ttl_sec must not be negative, got %d", c.MarketData.CacheTTLSec))
	}
	if c.MarketData.RateLimitPerSec < 0 {
		errs = append(errs, fmt.Errorf("marketdata.rate_limit_per_sec must not be negative, got %v", c.MarketData.RateLimitPerSec))
	}
	if c.MarketData.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("marketdata.max_attempts must be at least 1, got %d", c.MarketData.MaxAttempts))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q unknown", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q unknown", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// loadDotEnv loads ./.env if present. Variables already set win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
