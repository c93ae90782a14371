// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type DatabaseConfig struct {
	Driver   string `yaml:"driver" validate:"required,oneof=sqlite"`
	Filename string `yaml:"filename" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size" validate:"min=0"`
	TTL     time.Duration `yaml:"ttl"`
}

type SchedulerConfig struct {
	// CacheRefresh is a five-field cron expression; empty disables the job.
	CacheRefresh string `yaml:"cache_refresh"`
}

type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests" validate:"min=0"`
	Window   time.Duration `yaml:"window"`
	Burst    int           `yaml:"burst" validate:"min=0"`
	// TrustProxy keys clients on X-Forwarded-For instead of the socket address.
	TrustProxy bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name" validate:"required"`
		Environment string `yaml:"environment" validate:"omitempty,oneof=development staging production test"`
		Port        int    `yaml:"port" validate:"required,min=1,max=65535"`
		BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Cache CacheConfig `yaml:"cache"`

	Scheduler SchedulerConfig `yaml:"scheduler"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Stats struct {
		// LeaderLimit is the default leader board length.
		LeaderLimit int `yaml:"leader_limit" validate:"omitempty,min=1,max=100"`
		// MinPlateAppearances overrides the batting average qualifier.
		MinPlateAppearances float64 `yaml:"min_plate_appearances" validate:"omitempty,min=0"`
	} `yaml:"stats"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults without validating.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Cache.Enabled && c.Cache.Size == 0 {
		c.Cache.Size = 256
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = c.RateLimit.Requests
	}
	if c.Stats.LeaderLimit == 0 {
		c.Stats.LeaderLimit = 10
	}
}

// applyEnv lets deployments override the port and database path.
func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid APP_PORT %q: %w", v, err)
		}
		c.App.Port = port
	}
	if v := os.Getenv("DATABASE_FILENAME"); v != "" {
		c.Database.Filename = v
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Cache.Enabled && c.Cache.Size < 1 {
		return fmt.Errorf("cache size must be positive when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requires requests and window when enabled")
	}
	if c.Scheduler.CacheRefresh != "" {
		if _, err := cron.ParseStandard(c.Scheduler.CacheRefresh); err != nil {
			return fmt.Errorf("invalid scheduler.cache_refresh %q: %w", c.Scheduler.CacheRefresh, err)
		}
	}
	return nil
}

// IsDevelopment reports whether console logging and debug routes apply.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
