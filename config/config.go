// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names accepted in ENV
const (
	EnvDevelopment = "dev"
	EnvStaging     = "staging"
	EnvProduction  = "prod"
	EnvTest        = "test"
)

// Config holds all application configuration
type Config struct {
	Port            string
	Address         string
	Env             string
	LogLevel        string
	LogDir          string // Directory for log files, empty means console only
	DatasetURL      string // Remote dataset document, takes precedence over DatasetPath
	DatasetPath     string // Local dataset document
	FallbackBaseURL string // Base URL of the external drug lookup service
	FallbackTimeout time.Duration
	ReportsDBPath   string // SQLite file holding the report log
	MaxRequestBody  int64  // Maximum request body size in bytes
	MaxHeaderSize   int64  // Maximum header size in bytes
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8000"),
		Address:         getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:             strings.ToLower(getEnvWithDefault("ENV", EnvDevelopment)),
		LogLevel:        strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogDir:          os.Getenv("LOG_DIR"),
		DatasetURL:      os.Getenv("DATASET_URL"),
		DatasetPath:     getEnvWithDefault("DATASET_PATH", "data/drugs.json"),
		FallbackBaseURL: getEnvWithDefault("FALLBACK_BASE_URL", "https://api.fda.gov"),
		FallbackTimeout: time.Duration(getIntEnvWithDefault("FALLBACK_TIMEOUT_SECONDS", 10)) * time.Second,
		ReportsDBPath:   getEnvWithDefault("REPORTS_DB_PATH", "data/reports.db"),
		MaxRequestBody:  getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		MaxHeaderSize:   getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),  // 1MB default
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateFallbackBaseURL(cfg.FallbackBaseURL); err != nil {
		return fmt.Errorf("invalid FALLBACK_BASE_URL: %w", err)
	}

	if cfg.FallbackTimeout <= 0 || cfg.FallbackTimeout > 5*time.Minute {
		return fmt.Errorf("invalid FALLBACK_TIMEOUT_SECONDS: must be between 1 and 300 seconds, got %s", cfg.FallbackTimeout)
	}

	if cfg.ReportsDBPath == "" {
		return fmt.Errorf("invalid REPORTS_DB_PATH: cannot be empty")
	}

	if cfg.DatasetURL == "" && cfg.DatasetPath == "" {
		return fmt.Errorf("either DATASET_URL or DATASET_PATH must be set")
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return err
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return err
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	// Localhost/loopback addresses are acceptable for development
	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}
	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateFallbackBaseURL validates the FALLBACK_BASE_URL environment variable
func validateFallbackBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("FALLBACK_BASE_URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("FALLBACK_BASE_URL must be a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("FALLBACK_BASE_URL must use http or https, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("FALLBACK_BASE_URL must include a host")
	}

	return nil
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"DATASET_URL",
		"DATASET_PATH",
		"FALLBACK_BASE_URL",
		"FALLBACK_TIMEOUT_SECONDS",
		"REPORTS_DB_PATH",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
	}
}
