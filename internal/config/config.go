package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/username/rangeselect/internal/restriction"
)

// Config represents application configuration
type Config struct {
	Restrictions []restriction.Rule `mapstructure:"restrictions"`
	Background   BackgroundConfig   `mapstructure:"background"`
	Source       SourceConfig       `mapstructure:"source"`
	Log          LogConfig          `mapstructure:"log"`
}

// BackgroundConfig configures the static highlight output
type BackgroundConfig struct {
	Color string `mapstructure:"color"`
}

// SourceConfig configures an optional remote restriction source.
// When URL is set, rules are fetched from it with the config file's own
// restrictions as fallback.
type SourceConfig struct {
	URL      string `mapstructure:"url"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// LogConfig configures logging output
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rangeselect")
		v.AddConfigPath("/etc/rangeselect")
	}

	// Read environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration. Structural problems (unknown rule
// types, bad directions, weekdays out of range) are hard errors here;
// malformed date strings stay a soft per-rule skip inside the engine.
func (c *Config) Validate() error {
	for i, rule := range c.Restrictions {
		if rule.Type == "" {
			return fmt.Errorf("restrictions[%d]: type is required", i)
		}
		if !restriction.KnownType(rule.Type) {
			return fmt.Errorf("restrictions[%d]: unknown type '%s'", i, rule.Type)
		}

		switch rule.Type {
		case restriction.TypeBoundary:
			if rule.Direction != restriction.DirectionBefore && rule.Direction != restriction.DirectionAfter {
				return fmt.Errorf("restrictions[%d]: direction must be 'before' or 'after', got '%s'",
					i, rule.Direction)
			}
			if rule.Date == "" {
				return fmt.Errorf("restrictions[%d]: date is required for boundary rules", i)
			}
		case restriction.TypeWeekday:
			if len(rule.Days) == 0 {
				return fmt.Errorf("restrictions[%d]: days is required for weekday rules", i)
			}
			for _, d := range rule.Days {
				if d < 0 || d > 6 {
					return fmt.Errorf("restrictions[%d]: weekday %d out of range 0..6", i, d)
				}
			}
		}
	}

	return nil
}

// GetCacheTTL returns the remote source cache TTL duration
func (c *SourceConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}
