package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
	"travel-tracker/internal/validation"
)

// UnknownLocationLabel labels a trip end whose position could not be read.
const UnknownLocationLabel = "Unknown location"

// Locator reads the device position.
type Locator interface {
	CurrentPosition(ctx context.Context) (domain.Location, error)
}

// PlaceResolver turns coordinates into a human-readable place.
type PlaceResolver interface {
	Reverse(ctx context.Context, lat, lng float64) (domain.Place, error)
}

// Options configures a Tracker. Zero values fall back to the defaults below.
type Options struct {
	DefaultMode    domain.TransportMode
	DefaultPurpose domain.TripPurpose
	// TimeFormat and DateFormat are Go layouts for the record's clock and
	// date strings.
	TimeFormat string
	DateFormat string
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultMode == "" {
		o.DefaultMode = domain.ModeCar
	}
	if o.DefaultPurpose == "" {
		o.DefaultPurpose = domain.PurposeWork
	}
	if o.TimeFormat == "" {
		o.TimeFormat = "03:04 PM"
	}
	if o.DateFormat == "" {
		o.DateFormat = "02-01-2006"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Snapshot is a read-only view of the tracker.
type Snapshot struct {
	State       domain.LifecycleState
	StopPending bool
	// Live is nil when no trip is in progress or awaiting confirmation.
	Live    *domain.LiveTrip
	Elapsed time.Duration
}

// Tracker runs the live trip state machine and records finished trips in
// a Ledger. It is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	ledger      *Ledger
	locator     Locator
	resolver    PlaceResolver
	validator   *validation.TripValidator
	opts        Options
	state       domain.LifecycleState
	stopPending bool
	live        *domain.LiveTrip
}

// NewTracker creates a tracker in the NoTrip state.
func NewTracker(l *Ledger, locator Locator, opts Options) *Tracker {
	if locator == nil {
		locator = UnavailableLocator{}
	}
	return &Tracker{
		ledger:    l,
		locator:   locator,
		validator: validation.NewTripValidator(),
		opts:      opts.withDefaults(),
		state:     domain.NoTrip,
	}
}

// SetPlaceResolver makes the tracker label trip ends with place names.
// Passing nil reverts to coordinate labels.
func (t *Tracker) SetPlaceResolver(r PlaceResolver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolver = r
}

// Ledger returns the history the tracker appends to.
func (t *Tracker) Ledger() *Ledger {
	return t.ledger
}

// Start begins a new live trip. It is rejected while a trip is in progress.
// A completed trip that was never confirmed is discarded.
func (t *Tracker) Start(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	state := t.state
	resolver := t.resolver
	t.mu.Unlock()

	if !state.CanStart() {
		return Snapshot{}, errors.NewInvalidStateError("start a trip", "a trip is in progress")
	}

	// Position and place lookups may block, so they run without the lock held.
	var start *domain.Location
	if pos, err := t.locator.CurrentPosition(ctx); err != nil {
		logging.Warnf("starting trip without a position: %v", err)
	} else {
		start = &pos
	}
	origin := label(ctx, resolver, start)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.CanStart() {
		return Snapshot{}, errors.NewInvalidStateError("start a trip", "a trip is in progress")
	}
	if t.live != nil && t.live.NeedsConfirmation {
		logging.Warnf("discarding unconfirmed trip started at %s", t.live.StartedAt.Format(time.RFC3339))
	}

	t.live = &domain.LiveTrip{
		StartedAt:     t.opts.Now(),
		StartLocation: start,
		Origin:        origin,
		Mode:          t.opts.DefaultMode,
	}
	t.state = domain.InProgress
	t.stopPending = false

	return t.snapshotLocked(), nil
}

// RequestStop asks for confirmation before ending the trip in progress.
// The state does not change.
func (t *Tracker) RequestStop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != domain.InProgress {
		return errors.NewInvalidStateError("stop a trip", "no trip is in progress")
	}
	t.stopPending = true
	return nil
}

// CancelStop withdraws a pending stop request; the trip keeps running.
func (t *Tracker) CancelStop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.stopPending {
		return errors.NewInvalidStateError("cancel a stop", "no stop was requested")
	}
	t.stopPending = false
	return nil
}

// ConfirmStop ends the trip in progress. The trip then waits for
// ConfirmTrip before it reaches the history.
func (t *Tracker) ConfirmStop(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	pending := t.stopPending
	resolver := t.resolver
	t.mu.Unlock()

	if !pending {
		return Snapshot{}, errors.NewInvalidStateError("confirm a stop", "no stop was requested")
	}

	var end *domain.Location
	if pos, err := t.locator.CurrentPosition(ctx); err != nil {
		logging.Warnf("ending trip without a position: %v", err)
	} else {
		end = &pos
	}
	destination := label(ctx, resolver, end)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.stopPending || t.live == nil {
		return Snapshot{}, errors.NewInvalidStateError("confirm a stop", "no stop was requested")
	}

	ended := t.opts.Now()
	t.live.EndedAt = &ended
	t.live.EndLocation = end
	t.live.Destination = destination
	t.live.Distance = distanceLabel(t.live.StartLocation, t.live.EndLocation)
	t.live.NeedsConfirmation = true
	if t.live.Number == "" {
		t.live.Number = t.ledger.ReserveTripNumber()
	}

	t.state = domain.Completed
	t.stopPending = false

	return t.snapshotLocked(), nil
}

// ConfirmTrip records the completed trip in the ledger and returns the
// tracker to NoTrip. If the ledger cannot be saved the trip keeps waiting
// for confirmation.
func (t *Tracker) ConfirmTrip(ctx context.Context) (domain.TripRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != domain.Completed || t.live == nil || !t.live.NeedsConfirmation {
		return domain.TripRecord{}, errors.NewInvalidStateError("confirm a trip", "no completed trip is waiting")
	}

	now := t.opts.Now()
	rec := domain.TripRecord{
		TripNumber:  t.live.Number,
		Date:        now.Format(t.opts.DateFormat),
		Time:        now.Format(t.opts.TimeFormat),
		Origin:      t.live.Origin,
		Destination: t.live.Destination,
		Distance:    t.live.Distance,
		Mode:        t.live.Mode,
		Purpose:     t.opts.DefaultPurpose,
		StartTime:   t.live.StartedAt.Format(t.opts.TimeFormat),
		EndTime:     domain.NoClockTime,
	}
	if t.live.EndedAt != nil {
		rec.EndTime = t.live.EndedAt.Format(t.opts.TimeFormat)
	}

	saved, err := t.ledger.Append(ctx, rec, now)
	if err != nil {
		return domain.TripRecord{}, err
	}

	t.live = nil
	t.state = domain.NoTrip
	return saved, nil
}

// AddManualTrip validates the form and appends a manual record. On success
// the form is cleared; on failure neither the form nor the ledger changes.
func (t *Tracker) AddManualTrip(ctx context.Context, input *domain.ManualTripInput) (domain.TripRecord, error) {
	if input == nil {
		return domain.TripRecord{}, errors.NewInvalidInputError("input", nil, "manual trip form is required")
	}

	if err := t.validator.ValidateManualTrip(*input); err != nil {
		message := err.Error()
		if ve, ok := err.(*validation.ValidationError); ok {
			message = ve.GetUserFriendlyMessage()
		}
		return domain.TripRecord{}, errors.NewValidationError(message, err)
	}

	mode, _ := domain.ParseTransportMode(input.Mode)
	purpose, _ := domain.ParseTripPurpose(input.Purpose)

	destination := domain.ManualEntryLabel
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		destination = notes
	}

	now := t.opts.Now()
	rec := domain.TripRecord{
		Date:        input.Date,
		Time:        now.Format(t.opts.TimeFormat),
		Origin:      domain.ManualEntryLabel,
		Destination: destination,
		Distance:    input.Distance,
		Mode:        mode,
		Purpose:     purpose,
		StartTime:   domain.NoClockTime,
		EndTime:     domain.NoClockTime,
	}

	saved, err := t.ledger.Append(ctx, rec, now)
	if err != nil {
		return domain.TripRecord{}, err
	}

	input.Clear()
	return saved, nil
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{State: t.state, StopPending: t.stopPending}
	if t.live != nil {
		live := *t.live
		snap.Live = &live
		snap.Elapsed = live.Elapsed(t.opts.Now())
	}
	return snap
}

// label names a trip end. Resolver failures fall back to the raw coordinates.
func label(ctx context.Context, resolver PlaceResolver, loc *domain.Location) string {
	if loc == nil {
		return UnknownLocationLabel
	}
	if resolver != nil {
		place, err := resolver.Reverse(ctx, loc.Lat, loc.Lng)
		if err == nil && place.Name != "" {
			return place.Name
		}
		if err != nil {
			logging.Warnf("reverse lookup of %s failed: %v", loc, err)
		}
	}
	return loc.String()
}

func distanceLabel(start, end *domain.Location) string {
	if start == nil || end == nil {
		return "0.0 km"
	}
	return fmt.Sprintf("%.1f km", start.DistanceKm(*end))
}
