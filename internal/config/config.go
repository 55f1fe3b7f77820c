package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the pricing tool server.
type Config struct {
	DefaultRegion string        `yaml:"defaultRegion"`
	DefaultLocale string        `yaml:"defaultLocale"`
	HTTPTimeout   time.Duration `yaml:"httpTimeout"`

	Endpoints EndpointsConfig `yaml:"endpoints"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Audit     AuditConfig     `yaml:"audit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Database  DatabaseConfig  `yaml:"database"`
}

// EndpointsConfig names the remote document roots the fetcher pulls from.
// All are plain HTTPS JSON endpoints; none of this goes through an AWS SDK
// client, since the calculator's own backend is a public read-only API, not
// the account-scoped AWS Pricing API.
type EndpointsConfig struct {
	ManifestURL     string `yaml:"manifestURL"`
	ServiceBaseURL  string `yaml:"serviceBaseURL"`
	EstimateSaveURL string `yaml:"estimateSaveURL"`
	EstimateLoadURL string `yaml:"estimateLoadURL"`
}

// FetchConfig tunes the remote document fetcher's caching behavior.
type FetchConfig struct {
	MaxConcurrentTableFetches int `yaml:"maxConcurrentTableFetches"`
}

// AuditConfig controls the in-memory + optional SQLite tool-invocation log.
type AuditConfig struct {
	Enabled      bool `yaml:"enabled"`
	RingCapacity int  `yaml:"ringCapacity"`
	Persist      bool `yaml:"persist"`
}

// MetricsConfig controls the Prometheus /metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// DatabaseConfig is the SQLite audit-log database.
type DatabaseConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retentionDays"`
}

// DefaultConfig returns a Config with sensible defaults. Default region can
// be overridden via the AWS_REGION or AWS_DEFAULT_REGION env vars, matching
// how the underlying CLI/SDK tooling resolves a region.
func DefaultConfig() *Config {
	cfg := &Config{
		DefaultRegion: "us-east-1",
		DefaultLocale: "en_US",
		HTTPTimeout:   15 * time.Second,
		Endpoints: EndpointsConfig{
			ManifestURL:     "https://d1qsjq9pzbk1k6.cloudfront.net/manifest/en_US.json",
			ServiceBaseURL:  "https://d1qsjq9pzbk1k6.cloudfront.net/data",
			EstimateSaveURL: "https://dnd5zrqcec4or.cloudfront.net/Prod/v2/saveAs",
			EstimateLoadURL: "https://d3knqfixx3sbls.cloudfront.net",
		},
		Fetch: FetchConfig{
			MaxConcurrentTableFetches: 8,
		},
		Audit: AuditConfig{
			Enabled:      true,
			RingCapacity: 500,
			Persist:      false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: "127.0.0.1",
			Port:    9090,
		},
		Database: DatabaseConfig{
			Path:          "/data/awscalc.db",
			RetentionDays: 30,
		},
	}

	cfg.applyEnvOverrides()
	return cfg
}

// LoadFromFile loads config from a YAML file, overlaying on defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides replaces DefaultRegion with AWS_REGION (or, failing that,
// AWS_DEFAULT_REGION) whenever either is set, even over a value already
// loaded from a file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.DefaultRegion = v
	} else if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		c.DefaultRegion = v
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.DefaultRegion == "" {
		return fmt.Errorf("defaultRegion is required")
	}
	if c.Endpoints.ManifestURL == "" {
		return fmt.Errorf("endpoints.manifestURL is required")
	}
	if c.Endpoints.ServiceBaseURL == "" {
		return fmt.Errorf("endpoints.serviceBaseURL is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("httpTimeout must be > 0")
	}
	return nil
}

// ValidateDetailed performs extended validation, collecting every problem
// rather than stopping at the first.
func (c *Config) ValidateDetailed() error {
	if ve := ValidateDetailed(c); ve != nil {
		return ve
	}
	return nil
}
