package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Load: defaults, file layer, env layer
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	// An empty working directory guarantees no stray smoke.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, want http://localhost:3000", cfg.API.BaseURL)
	}
	if cfg.API.OrdersPath != "/orders" {
		t.Errorf("OrdersPath = %q, want /orders", cfg.API.OrdersPath)
	}
	if cfg.API.CreateTablePath != "/_create_orders_table" {
		t.Errorf("CreateTablePath = %q, want /_create_orders_table", cfg.API.CreateTablePath)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("Timeout = %s, want 0 (no timeout)", cfg.API.Timeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want level=info format=text", cfg.Logging)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoke.yaml")
	yaml := strings.Join([]string{
		"api:",
		"  base_url: http://orders.staging.example.com",
		"  timeout: 30s",
		"logging:",
		"  level: debug",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.API.BaseURL != "http://orders.staging.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.API.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.API.OrdersPath != "/orders" {
		t.Errorf("OrdersPath = %q, want default /orders", cfg.API.OrdersPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMOKE_API_BASE_URL", "https://orders.prod.example.com:8443")
	t.Setenv("SMOKE_API_TIMEOUT", "5s")
	t.Setenv("SMOKE_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "https://orders.prod.example.com:8443" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.API.Timeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_InvalidOverrideRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMOKE_API_BASE_URL", "localhost:3000") // no scheme

	if _, err := Load(""); err == nil {
		t.Fatal("Load() accepted a base URL without a scheme")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() with an explicit missing file should error")
	}
}

// ---------------------------------------------------------------------------
// Config.Validate
// ---------------------------------------------------------------------------

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://localhost:3000",
			OrdersPath:      "/orders",
			CreateTablePath: "/_create_orders_table",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"https base url", func(c *Config) { c.API.BaseURL = "https://orders.example.com" }, false},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"scheme-less base url", func(c *Config) { c.API.BaseURL = "localhost:3000" }, true},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"relative orders path", func(c *Config) { c.API.OrdersPath = "orders" }, true},
		{"relative table path", func(c *Config) { c.API.CreateTablePath = "create" }, true},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, true},
		{"positive timeout", func(c *Config) { c.API.Timeout = 10 * time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
