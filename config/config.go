package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Ranking       RankingConfig       `yaml:"ranking"`
	Sync          SyncConfig          `yaml:"sync"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the read-side API server configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// TierThresholdConfig is one row of the tier threshold table.
// MinScore is the inclusive lower bound of the tier's score range.
type TierThresholdConfig struct {
	MinScore float64 `yaml:"min_score"`
	Tier     string  `yaml:"tier"`
}

// RankingConfig holds the ranking engine configuration.
// TierThresholds is the single canonical threshold table; every subsystem
// that classifies a score uses this table, never a private copy.
type RankingConfig struct {
	TierThresholds []TierThresholdConfig `yaml:"tier_thresholds"`
}

// SyncConfig holds reputation-sync scheduling configuration.
type SyncConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"`
	PollRateLimit   float64       `yaml:"poll_rate_limit"` // polls per second across all sources
	VerificationTTL time.Duration `yaml:"verification_ttl"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress  string  `yaml:"metrics_address"`
	Environment     string  `yaml:"environment"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	TempoInsecure   bool    `yaml:"tempo_insecure"`
	TempoSampleRate float64 `yaml:"tempo_sample_rate"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	applyEnvOverrides(&cfg)

	cfg.applyDefaults()
	return &cfg, nil
}

func loadConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	applyEnvOverrides(cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when no config file is present")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL is required when no config file is present")
	}

	cfg.applyDefaults()
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("TEMPO_INSECURE"); v != "" {
		cfg.Observability.TempoInsecure = v == "true"
	}
	if v := os.Getenv("TEMPO_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Observability.TempoSampleRate = f
		}
	}
	if v := os.Getenv("SYNC_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.PollInterval = d
		}
	}
	if v := os.Getenv("SYNC_POLL_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sync.PollRateLimit = f
		}
	}
	if v := os.Getenv("SYNC_VERIFICATION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.VerificationTTL = d
		}
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Sync.PollInterval == 0 {
		c.Sync.PollInterval = time.Hour
	}
	if c.Sync.PollRateLimit == 0 {
		c.Sync.PollRateLimit = 1
	}
	if c.Sync.VerificationTTL == 0 {
		c.Sync.VerificationTTL = 30 * 24 * time.Hour
	}
}
