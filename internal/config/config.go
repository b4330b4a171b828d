package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/starmap/internal/pref"
)

// Config holds all runtime configuration for starmap.
// Values are populated from .starmap.yaml, STARMAP_* env vars, and CLI flags.
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	ScaleFactor   float64       `mapstructure:"scale_factor"`
	PrefBackend   string        `mapstructure:"pref_backend"`
	PrefPath      string        `mapstructure:"pref_path"`
	TelemetryPath string        `mapstructure:"telemetry_path"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	Verbose       bool          `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("base_url", "")
	viper.SetDefault("scale_factor", 1.0)
	viper.SetDefault("pref_backend", pref.BackendTOML)
	viper.SetDefault("pref_path", ".starmap/pins.toml")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("http_timeout", 5*time.Minute)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings a load cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if c.ScaleFactor == 0 || math.IsNaN(c.ScaleFactor) || math.IsInf(c.ScaleFactor, 0) {
		errs = append(errs, fmt.Errorf("scale_factor must be a finite non-zero number, got %v", c.ScaleFactor))
	}
	switch c.PrefBackend {
	case pref.BackendMemory:
	case pref.BackendTOML, pref.BackendSQLite:
		if c.PrefPath == "" {
			errs = append(errs, fmt.Errorf("pref_path is required for the %s backend", c.PrefBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown pref_backend %q", c.PrefBackend))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
