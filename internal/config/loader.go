package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TRIPS_STORAGE_DIR.
const EnvPrefix = "TRIPS"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// NewLoader creates a loader reading <home>/config.yaml
func NewLoader() *Loader {
	return NewLoaderWithFile(filepath.Join(DefaultHomeDir(), "config.yaml"))
}

// NewLoaderWithFile creates a loader reading the given config file.
// An empty path skips the file layer.
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:     NewConfig(),
		configFile: path,
	}
}

// ConfigFile returns the config file path the loader reads.
func (l *Loader) ConfigFile() string {
	return l.configFile
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if present
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, l.config)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
			return nil, &ConfigError{Field: "config_file", Message: err.Error()}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := l.unmarshal(v); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("storage.dir", c.Storage.Dir)
	v.SetDefault("storage.filename", c.Storage.Filename)
	v.SetDefault("storage.query_timeout", c.Storage.QueryTimeout)
	v.SetDefault("storage.write_timeout", c.Storage.WriteTimeout)
	v.SetDefault("storage.dir_permissions", c.Storage.DirPermissions)

	v.SetDefault("trip.number_prefix", c.Trip.NumberPrefix)
	v.SetDefault("trip.default_mode", c.Trip.DefaultMode)
	v.SetDefault("trip.default_purpose", c.Trip.DefaultPurpose)
	v.SetDefault("trip.timer_tick", c.Trip.TimerTick)

	// location.lat and location.lng have no default: setting both enables
	// the fixed position.
	v.SetDefault("location.center_lat", c.Location.CenterLat)
	v.SetDefault("location.center_lng", c.Location.CenterLng)
	v.SetDefault("location.zoom", c.Location.Zoom)

	v.SetDefault("geocoding.base_url", c.Geocoding.BaseURL)
	v.SetDefault("geocoding.timeout", c.Geocoding.Timeout)
	v.SetDefault("geocoding.user_agent", c.Geocoding.UserAgent)
	v.SetDefault("geocoding.limit", c.Geocoding.Limit)

	v.SetDefault("display.time_format", c.Display.TimeFormat)
	v.SetDefault("display.date_format", c.Display.DateFormat)

	v.SetDefault("app.timeout", c.Application.Timeout)
	v.SetDefault("app.verbose", c.Application.Verbose)

	v.SetDefault("export.dir", c.Export.Dir)
	v.SetDefault("export.default_format", c.Export.DefaultFormat)
}

func (l *Loader) unmarshal(v *viper.Viper) error {
	sections := []struct {
		key string
		out interface{}
	}{
		{"storage", &l.config.Storage},
		{"trip", &l.config.Trip},
		{"location", &l.config.Location},
		{"geocoding", &l.config.Geocoding},
		{"display", &l.config.Display},
		{"app", &l.config.Application},
		{"export", &l.config.Export},
	}
	for _, s := range sections {
		if err := v.UnmarshalKey(s.key, s.out); err != nil {
			return &ConfigError{Field: s.key, Message: err.Error()}
		}
	}

	if v.IsSet("location.lat") && v.IsSet("location.lng") {
		l.config.Location.UseFixed = true
		l.config.Location.Lat = v.GetFloat64("location.lat")
		l.config.Location.Lng = v.GetFloat64("location.lng")
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	// Load base configuration
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	StorageDir      *string
	StorageFilename *string
	QueryTimeout    *time.Duration

	// Trip overrides
	DefaultMode    *string
	DefaultPurpose *string

	// Location overrides
	Lat *float64
	Lng *float64

	// Geocoding overrides
	GeocodingURL *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Export overrides
	ExportDir    *string
	ExportFormat *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageFilename != nil {
		config.Storage.Filename = *overrides.StorageFilename
	}
	if overrides.QueryTimeout != nil {
		config.Storage.QueryTimeout = *overrides.QueryTimeout
	}

	// Trip overrides
	if overrides.DefaultMode != nil {
		config.Trip.DefaultMode = *overrides.DefaultMode
	}
	if overrides.DefaultPurpose != nil {
		config.Trip.DefaultPurpose = *overrides.DefaultPurpose
	}

	// Location overrides; a lone coordinate is ignored
	if overrides.Lat != nil && overrides.Lng != nil {
		config.Location.UseFixed = true
		config.Location.Lat = *overrides.Lat
		config.Location.Lng = *overrides.Lng
	}

	// Geocoding overrides
	if overrides.GeocodingURL != nil {
		config.Geocoding.BaseURL = *overrides.GeocodingURL
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}

	// Export overrides
	if overrides.ExportDir != nil {
		config.Export.Dir = *overrides.ExportDir
	}
	if overrides.ExportFormat != nil {
		config.Export.DefaultFormat = *overrides.ExportFormat
	}
}
