// Package config handles configuration loading for EuroPulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/seenimoa/europulse/pkg/models"
)

// Config represents the complete application configuration.
type Config struct {
	Sources    SourcesConfig          `mapstructure:"sources"    yaml:"sources"`
	Cache      CacheConfig            `mapstructure:"cache"      yaml:"cache"`
	Dashboard  DashboardConfig        `mapstructure:"dashboard"  yaml:"dashboard"`
	API        APIConfig              `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig          `mapstructure:"logging"    yaml:"logging"`
	Countries  []models.CountryConfig `mapstructure:"countries"  yaml:"countries"`
	Indicators []models.IndicatorSpec `mapstructure:"indicators" yaml:"indicators"`
}

// SourcesConfig holds the external statistical API endpoints.
type SourcesConfig struct {
	WorldBankURL string `mapstructure:"worldbank_url" yaml:"worldbank_url"`
	EurostatURL  string `mapstructure:"eurostat_url"  yaml:"eurostat_url"`
	TimeoutSec   int    `mapstructure:"timeout_sec"   yaml:"timeout_sec"`
}

// CacheConfig holds the persistent series cache settings.
type CacheConfig struct {
	Path   string `mapstructure:"path"    yaml:"path"`    // sqlite file; empty disables persistence
	TTLSec int    `mapstructure:"ttl_sec" yaml:"ttl_sec"` // entries older than this are misses
}

// DashboardConfig holds aggregation settings.
type DashboardConfig struct {
	YearOptions       int `mapstructure:"year_options"       yaml:"year_options"`       // selectable years exposed
	ConcurrentFetches int `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"` // errgroup limit per pass
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`   // optional rotating log file
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.europulse/config.yaml (home directory)
//  3. /etc/europulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: EUROPULSE_<SECTION>_<KEY>, e.g., EUROPULSE_API_PORT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".europulse"))
	v.AddConfigPath("/etc/europulse")

	v.SetEnvPrefix("EUROPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("EUROPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The tracked country and indicator sets fall back to the built-in
	// defaults; viper cannot default a slice of structs.
	if len(cfg.Countries) == 0 {
		cfg.Countries = models.DefaultCountries
	}
	if len(cfg.Indicators) == 0 {
		cfg.Indicators = models.DefaultIndicators
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("sources.worldbank_url", "https://api.worldbank.org/v2/country")
	v.SetDefault("sources.eurostat_url", "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data/prc_hicp_manr")
	v.SetDefault("sources.timeout_sec", 30)

	// Cache defaults
	v.SetDefault("cache.path", filepath.Join(homeDir(), ".europulse", "cache.db"))
	v.SetDefault("cache.ttl_sec", 86400) // 24h

	// Dashboard defaults
	v.SetDefault("dashboard.year_options", 12)
	v.SetDefault("dashboard.concurrent_fetches", 8)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
