package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the package reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		FileEnv, "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"OPENAI_API_KEY", "AI_MODEL", "AI_BASE_URL", "AI_TIMEOUT",
		"API_HOST", "API_PORT", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
		"SEED_LOG_FILE", "APP_LOG_FILE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadWithDefaults()
	if cfg.APIPort != 5000 || cfg.APIHost != "0.0.0.0" {
		t.Errorf("listen = %s", cfg.Addr())
	}
	if cfg.AI.Model != "gpt-4o-mini" || cfg.AI.Timeout != 30*time.Second {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.DB.MaxOpenConns != 10 || cfg.DB.MaxIdleConns != 5 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.SeedLogFile != "logs/app.log" || cfg.Log.File != "logs/app.log" {
		t.Errorf("files = %q, %q", cfg.SeedLogFile, cfg.Log.File)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORS = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRequiresDatabaseAndAIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	for _, want := range []string{"DATABASE_URL", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/logs")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("API_PORT", "8081")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8081" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.AI.Timeout != 5*time.Second {
		t.Errorf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"http://a.example", "http://b.example"}) {
		t.Errorf("CORS = %v", cfg.CORSAllowedOrigins)
	}
}

func TestInvalidNumbersKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "not-a-port")
	t.Setenv("SHUTDOWN_TIMEOUT", "forever")

	cfg := LoadWithDefaults()
	if cfg.APIPort != 5000 {
		t.Errorf("APIPort = %d", cfg.APIPort)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestFileOverlayThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "logsight.yaml")
	content := `database_url: postgres://file/logs
ai:
  api_key: sk-file
  timeout: 10s
api_port: 9000
cors_allowed_origins:
  - http://ui.example
log:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(FileEnv, path)
	t.Setenv("API_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabaseDSN != "postgres://file/logs" || cfg.AI.APIKey != "sk-file" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.AI.Timeout != 10*time.Second {
		t.Errorf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if cfg.APIPort != 9100 {
		t.Errorf("APIPort = %d, want environment to win", cfg.APIPort)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI.Model = %q, want default kept", cfg.AI.Model)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestFileErrors(t *testing.T) {
	clearEnv(t)

	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Read(); err == nil {
		t.Error("Read() with missing file: error = nil")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("api_port: [not an int"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(FileEnv, bad)
	if _, err := Read(); err == nil {
		t.Error("Read() with malformed file: error = nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Defaults()
		cfg.DatabaseDSN = "postgres://localhost/logs"
		cfg.AI.APIKey = "sk-test"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing dsn", func(c *Config) { c.DatabaseDSN = "" }, true},
		{"missing ai key", func(c *Config) { c.AI.APIKey = "" }, true},
		{"port out of range", func(c *Config) { c.APIPort = 70000 }, true},
		{"idle above open", func(c *Config) { c.DB.MaxIdleConns = 20 }, true},
		{"zero open conns", func(c *Config) { c.DB.MaxOpenConns = 0 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"zero ai timeout", func(c *Config) { c.AI.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireChecksAreIndependent(t *testing.T) {
	cfg := Defaults()
	cfg.DatabaseDSN = "postgres://localhost/logs"

	if err := cfg.RequireDatabase(); err != nil {
		t.Errorf("RequireDatabase() error = %v", err)
	}
	if err := cfg.RequireAI(); err == nil {
		t.Error("RequireAI() error = nil without a key")
	}
}
