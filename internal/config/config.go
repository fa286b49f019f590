package config

import (
	"os"
	"path/filepath"
	"time"

	"travel-tracker/internal/domain"
)

// Config holds all configuration options for the trip tracker application
type Config struct {
	Storage     StorageConfig
	Trip        TripConfig
	Location    LocationConfig
	Geocoding   GeocodingConfig
	Display     DisplayConfig
	Application ApplicationConfig
	Export      ExportConfig
}

// StorageConfig holds client-local storage configuration
type StorageConfig struct {
	Dir            string        `mapstructure:"dir"`
	Filename       string        `mapstructure:"filename"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	DirPermissions uint32        `mapstructure:"dir_permissions"`
}

// TripConfig holds trip numbering and live tracking defaults
type TripConfig struct {
	NumberPrefix   string        `mapstructure:"number_prefix"`
	DefaultMode    string        `mapstructure:"default_mode"`
	DefaultPurpose string        `mapstructure:"default_purpose"`
	TimerTick      time.Duration `mapstructure:"timer_tick"`
}

// LocationConfig holds the device position source and map defaults.
// Without fixed coordinates the device position is unavailable.
type LocationConfig struct {
	UseFixed  bool
	Lat       float64 `mapstructure:"lat"`
	Lng       float64 `mapstructure:"lng"`
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      int     `mapstructure:"zoom"`
}

// GeocodingConfig holds place search settings
type GeocodingConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Limit     int           `mapstructure:"limit"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat string `mapstructure:"time_format"`
	DateFormat string `mapstructure:"date_format"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Verbose bool          `mapstructure:"verbose"`
}

// ExportConfig holds export defaults
type ExportConfig struct {
	Dir           string `mapstructure:"dir"`
	DefaultFormat string `mapstructure:"default_format"`
}

// DefaultHomeDir returns the directory holding the config file and database.
// TRIPS_HOME overrides ~/.trips.
func DefaultHomeDir() string {
	if home := os.Getenv("TRIPS_HOME"); home != "" {
		return home
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".trips")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir := DefaultHomeDir()

	return &Config{
		Storage: StorageConfig{
			Dir:            homeDir,
			Filename:       "trips.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Trip: TripConfig{
			NumberPrefix:   "#TR-2025-",
			DefaultMode:    string(domain.ModeCar),
			DefaultPurpose: string(domain.PurposeWork),
			TimerTick:      time.Second,
		},
		Location: LocationConfig{
			CenterLat: 10.8505,
			CenterLng: 76.2711,
			Zoom:      15,
		},
		Geocoding: GeocodingConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			Timeout:   10 * time.Second,
			UserAgent: "travel-tracker/1.0",
			Limit:     1,
		},
		Display: DisplayConfig{
			TimeFormat: "03:04 PM",
			DateFormat: "02-01-2006",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Export: ExportConfig{
			Dir:           ".",
			DefaultFormat: "json",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// GetQueryTimeout returns the storage query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Storage.QueryTimeout
}

// GetWriteTimeout returns the storage write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// FixedLocation returns the configured device position, if any.
func (c *Config) FixedLocation() (domain.Location, bool) {
	if !c.Location.UseFixed {
		return domain.Location{}, false
	}
	return domain.Location{Lat: c.Location.Lat, Lng: c.Location.Lng}, true
}

// MapCenter returns the default map centre.
func (c *Config) MapCenter() domain.Location {
	return domain.Location{Lat: c.Location.CenterLat, Lng: c.Location.CenterLng}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
	}
	if c.Storage.QueryTimeout <= 0 {
		return &ConfigError{Field: "storage.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate trip configuration
	if c.Trip.NumberPrefix == "" {
		return &ConfigError{Field: "trip.number_prefix", Message: "trip number prefix cannot be empty"}
	}
	if _, ok := domain.ParseTransportMode(c.Trip.DefaultMode); !ok {
		return &ConfigError{Field: "trip.default_mode", Message: "unknown transport mode " + c.Trip.DefaultMode}
	}
	if _, ok := domain.ParseTripPurpose(c.Trip.DefaultPurpose); !ok {
		return &ConfigError{Field: "trip.default_purpose", Message: "unknown trip purpose " + c.Trip.DefaultPurpose}
	}
	if c.Trip.TimerTick <= 0 {
		return &ConfigError{Field: "trip.timer_tick", Message: "timer tick must be positive"}
	}

	// Validate location configuration
	if c.Location.UseFixed {
		if loc, _ := c.FixedLocation(); !loc.IsValid() {
			return &ConfigError{Field: "location.lat", Message: "fixed coordinates are out of range"}
		}
	}
	if !c.MapCenter().IsValid() {
		return &ConfigError{Field: "location.center_lat", Message: "map centre is out of range"}
	}
	if c.Location.Zoom < 0 || c.Location.Zoom > 19 {
		return &ConfigError{Field: "location.zoom", Message: "zoom must be between 0 and 19"}
	}

	// Validate geocoding configuration
	if c.Geocoding.BaseURL == "" {
		return &ConfigError{Field: "geocoding.base_url", Message: "geocoding base URL cannot be empty"}
	}
	if c.Geocoding.Timeout <= 0 {
		return &ConfigError{Field: "geocoding.timeout", Message: "geocoding timeout must be positive"}
	}
	if c.Geocoding.Limit < 1 {
		return &ConfigError{Field: "geocoding.limit", Message: "result limit must be at least 1"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "app.timeout", Message: "application timeout must be positive"}
	}

	// Validate export configuration
	switch c.Export.DefaultFormat {
	case "json", "pdf":
	default:
		return &ConfigError{Field: "export.default_format", Message: "export format must be json or pdf"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
