// Package config loads ls-ephemeris settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g.
// LS_EPHEMERIS_OBSERVER_LATITUDE.
const EnvPrefix = "LS_EPHEMERIS"

// Config represents the complete application configuration
type Config struct {
	Observer  ObserverConfig  `mapstructure:"observer"`
	Ephemeris EphemerisConfig `mapstructure:"ephemeris"`
	Path      PathConfig      `mapstructure:"path"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ObserverConfig holds the observing site
type ObserverConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Altitude  float64 `mapstructure:"altitude"`
	Timezone  string  `mapstructure:"timezone"`
	Name      string  `mapstructure:"name"`
}

// EphemerisConfig selects and locates the position dataset
type EphemerisConfig struct {
	Dataset      string        `mapstructure:"dataset"`
	Dir          string        `mapstructure:"dir"`
	BaseURL      string        `mapstructure:"base_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Fetch        bool          `mapstructure:"fetch"`
}

// PathConfig holds daily path sampling settings
type PathConfig struct {
	Step time.Duration `mapstructure:"step"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"lat":           "observer.latitude",
	"lon":           "observer.longitude",
	"alt":           "observer.altitude",
	"tz":            "observer.timezone",
	"name":          "observer.name",
	"dataset":       "ephemeris.dataset",
	"ephemeris-dir": "ephemeris.dir",
	"base-url":      "ephemeris.base_url",
	"fetch-timeout": "ephemeris.fetch_timeout",
	"fetch":         "ephemeris.fetch",
	"path-step":     "path.step",
	"addr":          "server.addr",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
}

// RegisterFlags adds the configuration flags to fs. Flags left unset do
// not override the file or the environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to YAML configuration file")
	fs.Float64("lat", 0, "Observer latitude in degrees, north positive")
	fs.Float64("lon", 0, "Observer longitude in degrees, east positive")
	fs.Float64("alt", 0, "Observer altitude in meters")
	fs.String("tz", "UTC", "Observer IANA timezone (e.g., Europe/Paris)")
	fs.String("name", "", "Observer site name")
	fs.String("dataset", ephem.AnalyticDatasetName, "Position dataset ("+strings.Join(ephem.DatasetNames(), ", ")+")")
	fs.String("ephemeris-dir", ephem.DefaultDir, "Directory holding JPL ephemeris files")
	fs.String("base-url", ephem.DefaultBaseURL, "Base URL for fetching missing JPL files")
	fs.Duration("fetch-timeout", ephem.DefaultFetchTimeout, "Timeout for fetching a JPL file")
	fs.Bool("fetch", true, "Fetch missing JPL files")
	fs.Duration("path-step", 20*time.Minute, "Daily path sampling interval")
	fs.String("addr", ":8080", "HTTP listen address for serve")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "text", "Log format (text, json)")
}

// Load reads configuration from the optional file at path, environment
// variables and any flags in fs that were set. Precedence is flag, then
// environment, then file, then default.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("observer.latitude", 0.0)
	v.SetDefault("observer.longitude", 0.0)
	v.SetDefault("observer.altitude", 0.0)
	v.SetDefault("observer.timezone", "UTC")
	v.SetDefault("observer.name", "")

	v.SetDefault("ephemeris.dataset", ephem.AnalyticDatasetName)
	v.SetDefault("ephemeris.dir", ephem.DefaultDir)
	v.SetDefault("ephemeris.base_url", ephem.DefaultBaseURL)
	v.SetDefault("ephemeris.fetch_timeout", ephem.DefaultFetchTimeout.String())
	v.SetDefault("ephemeris.fetch", true)

	v.SetDefault("path.step", "20m")

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if err := c.Observer.Site().Validate(); err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	if _, err := time.LoadLocation(c.Observer.Timezone); err != nil {
		return fmt.Errorf("observer.timezone %q is not a known IANA zone", c.Observer.Timezone)
	}

	if !slices.Contains(ephem.DatasetNames(), c.Ephemeris.Dataset) {
		return fmt.Errorf("ephemeris.dataset must be one of: %s", strings.Join(ephem.DatasetNames(), ", "))
	}
	if c.Ephemeris.Dataset != ephem.AnalyticDatasetName && c.Ephemeris.Dir == "" {
		return fmt.Errorf("ephemeris.dir is required for dataset %s", c.Ephemeris.Dataset)
	}
	if c.Ephemeris.Fetch {
		u, err := url.Parse(c.Ephemeris.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("ephemeris.base_url must be an http(s) URL")
		}
		if c.Ephemeris.FetchTimeout <= 0 {
			return fmt.Errorf("ephemeris.fetch_timeout must be positive")
		}
	}

	if c.Path.Step < time.Minute || c.Path.Step > 24*time.Hour {
		return fmt.Errorf("path.step must be between 1 minute and 24 hours")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Site returns the configured observer.
func (o ObserverConfig) Site() astro.Observer {
	return astro.Observer{
		Name:   o.Name,
		LatDeg: o.Latitude,
		LonDeg: o.Longitude,
		AltM:   o.Altitude,
	}
}

// NewLogger builds a logger from the logging settings.
func (l LoggingConfig) NewLogger() *logging.Logger {
	return logging.NewWithFormat(logging.ParseLevel(l.Level), logging.Format(l.Format))
}
