package main

import (
	"context"

	"travel-tracker/internal/api"
	"travel-tracker/internal/config"
	"travel-tracker/internal/domain"
	"travel-tracker/internal/geocoding"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/services"
)

// buildAPI wires storage, identity, geocoding and services for cfg
func buildAPI(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
	factory := config.NewRepositoryFactory(config.GetEnvironment(), cfg)
	repo, err := factory.CreateRepository()
	if err != nil {
		return nil, nil, err
	}

	provider, err := identity.NewStaticProvider()
	if err != nil {
		repo.Close()
		return nil, nil, err
	}

	geocoder := geocoding.NewClient(geocoding.Config{
		BaseURL:   cfg.Geocoding.BaseURL,
		UserAgent: cfg.Geocoding.UserAgent,
		Timeout:   cfg.Geocoding.Timeout,
		Limit:     cfg.Geocoding.Limit,
	})

	container := services.NewServiceContainer(ctx, repo, provider, newLocator(cfg), tripOptions(cfg, geocoder))
	businessAPI := api.NewBusinessAPI(container, geocoder, api.Options{
		ExportDir:    cfg.Export.Dir,
		ExportFormat: cfg.Export.DefaultFormat,
	})
	return businessAPI, repo.Close, nil
}

// newLocator uses the configured position; without one location access is denied
func newLocator(cfg *config.Config) ledger.Locator {
	if loc, ok := cfg.FixedLocation(); ok {
		return ledger.FixedLocator{Location: loc}
	}
	return ledger.UnavailableLocator{}
}

func tripOptions(cfg *config.Config, resolver ledger.PlaceResolver) services.TripOptions {
	mode, _ := domain.ParseTransportMode(cfg.Trip.DefaultMode)
	purpose, _ := domain.ParseTripPurpose(cfg.Trip.DefaultPurpose)

	return services.TripOptions{
		NumberPrefix: cfg.Trip.NumberPrefix,
		Tracker: ledger.Options{
			DefaultMode:    mode,
			DefaultPurpose: purpose,
			TimeFormat:     cfg.Display.TimeFormat,
			DateFormat:     cfg.Display.DateFormat,
		},
		Resolver:  resolver,
		TimerTick: cfg.Trip.TimerTick,
	}
}
