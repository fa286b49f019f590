package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("TRIPS_HOME", "/tmp/trips-home")

	cfg := NewConfig()

	assert.Equal(t, "/tmp/trips-home", cfg.Storage.Dir)
	assert.Equal(t, "/tmp/trips-home/trips.db", cfg.GetDatabasePath())
	assert.Equal(t, 10*time.Second, cfg.GetQueryTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetWriteTimeout())
	assert.Equal(t, "#TR-2025-", cfg.Trip.NumberPrefix)
	assert.Equal(t, "Car", cfg.Trip.DefaultMode)
	assert.Equal(t, "Work", cfg.Trip.DefaultPurpose)
	assert.Equal(t, time.Second, cfg.Trip.TimerTick)
	assert.Equal(t, 10.8505, cfg.MapCenter().Lat)
	assert.Equal(t, 76.2711, cfg.MapCenter().Lng)
	assert.Equal(t, 15, cfg.Location.Zoom)
	assert.Equal(t, "03:04 PM", cfg.Display.TimeFormat)
	assert.Equal(t, "json", cfg.Export.DefaultFormat)

	_, ok := cfg.FixedLocation()
	assert.False(t, ok)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"empty storage dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"empty filename", func(c *Config) { c.Storage.Filename = "" }, "storage.filename"},
		{"zero query timeout", func(c *Config) { c.Storage.QueryTimeout = 0 }, "storage.query_timeout"},
		{"negative write timeout", func(c *Config) { c.Storage.WriteTimeout = -time.Second }, "storage.write_timeout"},
		{"empty number prefix", func(c *Config) { c.Trip.NumberPrefix = "" }, "trip.number_prefix"},
		{"unknown mode", func(c *Config) { c.Trip.DefaultMode = "Boat" }, "trip.default_mode"},
		{"unknown purpose", func(c *Config) { c.Trip.DefaultPurpose = "Tourism" }, "trip.default_purpose"},
		{"zero tick", func(c *Config) { c.Trip.TimerTick = 0 }, "trip.timer_tick"},
		{"fixed location out of range", func(c *Config) {
			c.Location.UseFixed = true
			c.Location.Lat = 95
		}, "location.lat"},
		{"bad zoom", func(c *Config) { c.Location.Zoom = 25 }, "location.zoom"},
		{"empty geocoding url", func(c *Config) { c.Geocoding.BaseURL = "" }, "geocoding.base_url"},
		{"zero result limit", func(c *Config) { c.Geocoding.Limit = 0 }, "geocoding.limit"},
		{"empty time format", func(c *Config) { c.Display.TimeFormat = "" }, "display.time_format"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "app.timeout"},
		{"unknown export format", func(c *Config) { c.Export.DefaultFormat = "csv" }, "export.default_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()

			var cfgErr *ConfigError
			if assert.ErrorAs(t, err, &cfgErr) {
				assert.Equal(t, tt.field, cfgErr.Field)
			}
		})
	}
}

func TestConfig_FixedLocation(t *testing.T) {
	cfg := NewConfig()
	cfg.Location.UseFixed = true
	cfg.Location.Lat = 9.9312
	cfg.Location.Lng = 76.2673

	loc, ok := cfg.FixedLocation()

	assert.True(t, ok)
	assert.Equal(t, 9.9312, loc.Lat)
	assert.NoError(t, cfg.Validate())
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "storage.dir", Message: "cannot be empty"}
	assert.Equal(t, "storage.dir: cannot be empty", err.Error())
}
