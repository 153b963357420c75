package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"dayahead-prices/internal/entsoe"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Environment variables
// override file values for deploy-specific settings.
type Config struct {
	ENTSOE   ENTSOEConfig   `yaml:"entsoe"`
	Market   MarketConfig   `yaml:"market"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
}

type ENTSOEConfig struct {
	Token          string `yaml:"token"`
	BaseURL        string `yaml:"base_url"`
	Domain         string `yaml:"domain"` // EIC area code, e.g. 10YBE----------2
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// HTTPTimeout is the per-request timeout for transparency platform calls.
func (e ENTSOEConfig) HTTPTimeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// MarketConfig supplies the timezone for domains outside the built-in
// zone registry.
type MarketConfig struct {
	Timezone string `yaml:"timezone"`
}

type FetchConfig struct {
	// FallbackDays is how many earlier days a "latest" request may try
	// when the requested day is not publishable yet.
	FallbackDays int `yaml:"fallback_days"`
}

type OutputConfig struct {
	// LatestPath, when set, is where the scheduler writes the most recent
	// report as JSON.
	LatestPath string `yaml:"latest_path"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Env         string   `yaml:"env"` // "production" switches Gin to release mode
	CORSOrigins []string `yaml:"cors_origins"`
}

type ScheduleConfig struct {
	Spec string `yaml:"spec"` // cron spec, evaluated in the market timezone
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`   // when set, logs rotate in this file
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ENTSOE: ENTSOEConfig{
			BaseURL:        entsoe.DefaultBaseURL,
			Domain:         entsoe.DefaultZone().Code,
			TimeoutSeconds: 30,
		},
		Market: MarketConfig{
			Timezone: "Europe/Brussels",
		},
		Fetch: FetchConfig{
			FallbackDays: 3,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Schedule: ScheduleConfig{
			// Day-ahead auction results appear around 13:00 market time;
			// a few minutes of slack covers publication jitter.
			Spec: "5 13 * * *",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs. An empty path skips the
// file and yields defaults plus environment.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, err
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ENTSOE_TOKEN"); v != "" {
		c.ENTSOE.Token = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
}

// Validate checks the parts every binary depends on. Token presence is not
// one of them: analyzing a local XML file needs no token.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.ENTSOE.Domain == "" {
		return errors.New("entsoe.domain is required")
	}
	if c.ENTSOE.TimeoutSeconds <= 0 {
		return errors.New("entsoe.timeout_seconds must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Fetch.FallbackDays < 0 {
		return errors.New("fetch.fallback_days must not be negative")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("invalid market.timezone %q: %w", c.Market.Timezone, err)
	}
	return nil
}

// ResolveZone maps the configured domain to a bidding zone. Domains outside
// the registry keep their code and run in the configured market timezone.
func (c *Config) ResolveZone() entsoe.Zone {
	if z, ok := entsoe.LookupZone(c.ENTSOE.Domain); ok {
		return z
	}
	return entsoe.Zone{
		Code:     c.ENTSOE.Domain,
		Name:     c.ENTSOE.Domain,
		Short:    c.ENTSOE.Domain,
		Timezone: c.Market.Timezone,
	}
}
