// Package config provides environment-based configuration for logsight.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding an optional YAML config path.
const FileEnv = "LOGSIGHT_CONFIG"

// Config holds all configuration for logsight.
type Config struct {
	// Database configuration
	DatabaseDSN string   `yaml:"database_url"`
	DB          DBConfig `yaml:"db"`

	// Completion collaborator
	AI AIConfig `yaml:"ai"`

	// Server configuration
	APIHost            string   `yaml:"api_host"`
	APIPort            int      `yaml:"api_port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// SeedLogFile is loaded at startup when the store holds no entries.
	SeedLogFile string `yaml:"seed_log_file"`

	Log LogConfig `yaml:"log"`
}

// DBConfig holds connection pool sizing.
type DBConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// AIConfig holds completion API settings.
type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds application logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
	// File receives a copy of application logs in the ingestible line format.
	// Empty disables it.
	File string `yaml:"file"`
}

// Defaults returns the built-in configuration before any file or environment
// overlay.
func Defaults() *Config {
	return &Config{
		DB: DBConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		AI: AIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
			Timeout: 30 * time.Second,
		},
		APIHost:            "0.0.0.0",
		APIPort:            5000,
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    30 * time.Second,
		SeedLogFile:        "logs/app.log",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   "logs/app.log",
		},
	}
}

// Load reads configuration from the optional YAML file and environment
// variables and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read builds the configuration without validating it. Values come from the
// defaults, then the file named by LOGSIGHT_CONFIG, then the environment.
func Read() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It ignores the config file and does not validate required fields, useful
// for testing.
func LoadWithDefaults() *Config {
	cfg := Defaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DatabaseDSN = getEnv("DATABASE_URL", c.DatabaseDSN)
	c.DB.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns)
	c.DB.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", c.DB.MaxIdleConns)

	c.AI.APIKey = getEnv("OPENAI_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	c.AI.BaseURL = getEnv("AI_BASE_URL", c.AI.BaseURL)
	c.AI.Timeout = getDurationEnv("AI_TIMEOUT", c.AI.Timeout)

	c.APIHost = getEnv("API_HOST", c.APIHost)
	c.APIPort = getIntEnv("API_PORT", c.APIPort)
	c.CORSAllowedOrigins = getListEnv("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
	c.ShutdownTimeout = getDurationEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.SeedLogFile = getEnv("SEED_LOG_FILE", c.SeedLogFile)
	c.Log.File = getEnv("APP_LOG_FILE", c.Log.File)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	var errs []error
	if err := c.RequireDatabase(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RequireAI(); err != nil {
		errs = append(errs, err)
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// RequireDatabase checks the settings needed to open the store.
func (c *Config) RequireDatabase() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DB.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	return nil
}

// RequireAI checks the settings needed to call the completion API.
func (c *Config) RequireAI() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	return nil
}

// Addr returns the host:port the API server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
