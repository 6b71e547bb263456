// Package config loads and validates the smoke harness configuration using Viper.
//
// Configuration is layered: built-in defaults < YAML config file < environment
// variables. Environment variables use the SMOKE_ prefix (e.g., SMOKE_API_BASE_URL
// overrides api.base_url in the YAML). The defaults reproduce the harness's
// classic target (an orders service on http://localhost:3000 with no request
// timeout), so running with no configuration at all behaves exactly like the
// original ad-hoc script, while a containerized deployment can point the same
// binary at any environment through env vars alone.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all harness configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig describes the orders service under test
type APIConfig struct {
	// BaseURL is the root of the orders service, scheme and host included
	BaseURL string `mapstructure:"base_url"`
	// OrdersPath is the collection path for order CRUD
	OrdersPath string `mapstructure:"orders_path"`
	// CreateTablePath is the administrative endpoint that provisions the
	// backing table before any orders are created
	CreateTablePath string `mapstructure:"create_table_path"`
	// Timeout bounds each HTTP round trip. Zero means no timeout, which is
	// the default: the harness waits as long as the service takes.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file path, or, when configPath is
// empty, from an optional smoke.yaml in the working directory or ./config.
// A missing config file is not an error; defaults and environment variables
// apply either way.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("smoke")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment variables
	}

	v.SetEnvPrefix("SMOKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind environment variables for nested structures.
	// AutomaticEnv() alone does not surface them through Unmarshal().
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.orders_path", "/orders")
	v.SetDefault("api.create_table_path", "/_create_orders_table")
	v.SetDefault("api.timeout", time.Duration(0))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func bindEnvVars(v *viper.Viper) error {
	keys := []string{
		"api.base_url",
		"api.orders_path",
		"api.create_table_path",
		"api.timeout",
		"logging.level",
		"logging.format",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("error binding env var for %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks that the configuration describes a plausible target
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", c.API.BaseURL)
	}

	if !strings.HasPrefix(c.API.OrdersPath, "/") {
		return fmt.Errorf("api.orders_path must begin with /, got %q", c.API.OrdersPath)
	}
	if !strings.HasPrefix(c.API.CreateTablePath, "/") {
		return fmt.Errorf("api.create_table_path must begin with /, got %q", c.API.CreateTablePath)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative, got %s", c.API.Timeout)
	}

	return nil
}
