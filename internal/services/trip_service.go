package services

import (
	"context"
	"time"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/repository/sqlite"
)

// TripOptions configures NewTripService
type TripOptions struct {
	NumberPrefix string
	Tracker      ledger.Options
	// Resolver labels trip ends with place names; nil keeps coordinates.
	Resolver  ledger.PlaceResolver
	TimerTick time.Duration
}

// tripServiceImpl implements the TripService interface
type tripServiceImpl struct {
	tracker   *ledger.Tracker
	timerTick time.Duration
}

// NewTripService opens the stored history and creates a tracker over it
func NewTripService(ctx context.Context, repo sqlite.Repository, locator ledger.Locator, opts TripOptions) TripService {
	l := ledger.Open(ctx, NewHistoryStore(repo), opts.NumberPrefix)
	tracker := ledger.NewTracker(l, locator, opts.Tracker)
	if opts.Resolver != nil {
		tracker.SetPlaceResolver(opts.Resolver)
	}
	return &tripServiceImpl{tracker: tracker, timerTick: opts.TimerTick}
}

func (s *tripServiceImpl) Start(ctx context.Context) (ledger.Snapshot, error) {
	return s.tracker.Start(ctx)
}

func (s *tripServiceImpl) RequestStop() error {
	return s.tracker.RequestStop()
}

func (s *tripServiceImpl) ConfirmStop(ctx context.Context) (ledger.Snapshot, error) {
	return s.tracker.ConfirmStop(ctx)
}

func (s *tripServiceImpl) CancelStop() error {
	return s.tracker.CancelStop()
}

func (s *tripServiceImpl) ConfirmTrip(ctx context.Context) (domain.TripRecord, error) {
	return s.tracker.ConfirmTrip(ctx)
}

func (s *tripServiceImpl) Snapshot() ledger.Snapshot {
	return s.tracker.Snapshot()
}

func (s *tripServiceImpl) AddManualTrip(ctx context.Context, input *domain.ManualTripInput) (domain.TripRecord, error) {
	return s.tracker.AddManualTrip(ctx, input)
}

// History returns the trips in the order they were recorded
func (s *tripServiceImpl) History() []domain.TripRecord {
	return s.tracker.Ledger().Records()
}

func (s *tripServiceImpl) NewElapsedTimer(onTick func(elapsed string)) *ledger.ElapsedTimer {
	return ledger.NewElapsedTimer(s.tracker, s.timerTick, onTick)
}
