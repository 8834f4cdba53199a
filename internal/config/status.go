package config

import (
	"fmt"
	"os"
	"strings"
)

// SettingSource represents where an effective setting came from.
type SettingSource string

const (
	SourceEnv  SettingSource = "env"
	SourceFile SettingSource = "file/default"
)

// SettingStatus is one line of `drawdown status`.
type SettingStatus struct {
	Key    string        `json:"key"`
	Value  string        `json:"value"`
	Source SettingSource `json:"source"`
}

// Settings lists the effective configuration with the environment variable
// that overrides each key.
func Settings(cfg *Config) []SettingStatus {
	return []SettingStatus{
		setting("api.host", cfg.API.Host),
		setting("api.port", cfg.API.Port),
		setting("api.cors_origins", strings.Join(cfg.API.CORSOrigins, ",")),
		setting("api.request_timeout_sec", cfg.API.RequestTimeoutSec),
		setting("marketdata.base_url", cfg.MarketData.BaseURL),
		setting("marketdata.timeout_sec", cfg.MarketData.TimeoutSec),
		setting("marketdata.cache_ttl_sec", cfg.MarketData.CacheTTLSec),
		setting("marketdata.rate_limit_per_sec", cfg.MarketData.RateLimitPerSec),
		setting("marketdata.max_attempts", cfg.MarketData.MaxAttempts),
		setting("marketdata.retry_delay_ms", cfg.MarketData.RetryDelayMs),
		setting("pricing.risk_free_rate_pct", cfg.Pricing.RiskFreeRatePct),
		setting("logging.level", cfg.Logging.Level),
		setting("logging.format", cfg.Logging.Format),
	}
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setting(key string, value any) SettingStatus {
	status := SettingStatus{
		Key:    key,
		Value:  fmt.Sprint(value),
		Source: SourceFile,
	}
	if _, ok := os.LookupEnv(EnvVar(key)); ok {
		status.Source = SourceEnv
	}
	return status
}
