// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	Profile  string `yaml:"profile"`
}

type Config struct {
	App struct {
		Name                   string   `yaml:"name"`
		Environment            string   `yaml:"environment"`
		Port                   int      `yaml:"port"`
		ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
		AllowedOrigins         []string `yaml:"allowed_origins"`
	} `yaml:"app"`

	Agent struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"agent"`

	Storage StorageConfig `yaml:"storage"`

	RateLimit struct {
		QueriesPerMinute int  `yaml:"queries_per_minute"`
		TrustProxy       bool `yaml:"trust_proxy"`
	} `yaml:"rate_limit"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "agentos-lite"
	cfg.App.Environment = "development"
	cfg.App.Port = 5000
	cfg.App.ShutdownTimeoutSeconds = 10
	cfg.App.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Agent.BaseURL = "http://localhost:5000"
	cfg.Agent.TimeoutSeconds = 30
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.Filename = defaultPrefsPath()
	cfg.Storage.Profile = "default"
	cfg.RateLimit.QueriesPerMinute = 60
	return &cfg
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".agentos", "prefs.db")
	}
	return filepath.Join(dir, "agentos-lite", "prefs.db")
}

// Load loads .env and the yaml file at configPath on top of Default, then
// applies environment overrides. An empty configPath skips the yaml file.
func Load(configPath string) (*Config, error) {
	envDir := "."
	if configPath != "" {
		envDir = filepath.Dir(configPath)
	}
	if err := godotenv.Load(filepath.Join(envDir, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.App.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.App.Port = port
	}
	if v := os.Getenv("AGENTOS_API_BASE_URL"); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv("AGENTOS_PREFS_PATH"); v != "" {
		c.Storage.Filename = v
	}
	if v := os.Getenv("AGENTOS_PROFILE"); v != "" {
		c.Storage.Profile = v
	}
	return nil
}

// IsDevelopment reports whether console logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535")
	}
	if c.App.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("shutdown timeout cannot be negative")
	}
	if c.Agent.TimeoutSeconds < 0 {
		return fmt.Errorf("agent timeout cannot be negative")
	}
	if c.RateLimit.QueriesPerMinute < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}
	if c.Storage.Profile == "" {
		return fmt.Errorf("storage profile is required")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Filename == "" {
			return fmt.Errorf("storage filename is required for sqlite")
		}
	case "memory":
	case "":
		return fmt.Errorf("storage driver is required")
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}

	return nil
}
