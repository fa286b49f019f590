package ledger

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
)

type trackerFixture struct {
	tracker *Tracker
	store   *memStore
	locator *scriptedLocator
	clock   *fakeClock
}

func newFixture(t *testing.T, positions ...locatorResult) trackerFixture {
	t.Helper()
	restore := logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(restore)

	store := &memStore{}
	clock := newFakeClock()
	locator := &scriptedLocator{results: positions}
	tracker := NewTracker(Open(context.Background(), store, ""), locator, Options{Now: clock.Now})
	return trackerFixture{tracker: tracker, store: store, locator: locator, clock: clock}
}

func at(loc domain.Location) locatorResult {
	return locatorResult{loc: loc}
}

func TestStart_FromNoTrip(t *testing.T) {
	f := newFixture(t, at(kochi))

	snap, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.InProgress, snap.State)
	require.NotNil(t, snap.Live)
	assert.Equal(t, f.clock.Now(), snap.Live.StartedAt)
	assert.Equal(t, &kochi, snap.Live.StartLocation)
	assert.Equal(t, kochi.String(), snap.Live.Origin)
	assert.Equal(t, domain.ModeCar, snap.Live.Mode)
}

func TestStart_WhileInProgressIsRejected(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar), at(munnar))
	ctx := context.Background()

	first, err := f.tracker.Start(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Minute)
		_, err := f.tracker.Start(ctx)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
	}

	snap := f.tracker.Snapshot()
	assert.Equal(t, domain.InProgress, snap.State)
	assert.Equal(t, first.Live.StartedAt, snap.Live.StartedAt)
	assert.Equal(t, first.Live.Origin, snap.Live.Origin)
	// Rejected starts never touch the location capability.
	assert.Equal(t, 1, f.locator.calls)
}

func TestStart_ProceedsWithoutPosition(t *testing.T) {
	f := newFixture(t)

	snap, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.InProgress, snap.State)
	assert.Nil(t, snap.Live.StartLocation)
	assert.Equal(t, UnknownLocationLabel, snap.Live.Origin)
}

func TestRequestStop_OnlyWhileInProgress(t *testing.T) {
	f := newFixture(t, at(kochi))

	err := f.tracker.RequestStop()
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))

	_, err = f.tracker.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.tracker.RequestStop())

	snap := f.tracker.Snapshot()
	assert.Equal(t, domain.InProgress, snap.State)
	assert.True(t, snap.StopPending)
}

func TestCancelStop_LeavesTripRunning(t *testing.T) {
	f := newFixture(t, at(kochi))
	ctx := context.Background()
	_, err := f.tracker.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.tracker.RequestStop())

	require.NoError(t, f.tracker.CancelStop())

	snap := f.tracker.Snapshot()
	assert.Equal(t, domain.InProgress, snap.State)
	assert.False(t, snap.StopPending)

	// With the request withdrawn, stopping needs a new request.
	_, err = f.tracker.ConfirmStop(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
	assert.True(t, errors.IsErrorType(f.tracker.CancelStop(), errors.ErrorTypeInvalidState))
}

func TestConfirmStop_RequiresRequest(t *testing.T) {
	f := newFixture(t, at(kochi))
	ctx := context.Background()

	_, err := f.tracker.ConfirmStop(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))

	_, err = f.tracker.Start(ctx)
	require.NoError(t, err)
	_, err = f.tracker.ConfirmStop(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
	assert.Equal(t, domain.InProgress, f.tracker.Snapshot().State)
}

func TestConfirmStop_CompletesTrip(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar))
	ctx := context.Background()
	_, err := f.tracker.Start(ctx)
	require.NoError(t, err)
	f.clock.Advance(95 * time.Minute)
	require.NoError(t, f.tracker.RequestStop())

	snap, err := f.tracker.ConfirmStop(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.Completed, snap.State)
	assert.False(t, snap.StopPending)
	require.NotNil(t, snap.Live)
	assert.True(t, snap.Live.NeedsConfirmation)
	assert.Equal(t, munnar.String(), snap.Live.Destination)
	assert.Equal(t, "88.5 km", snap.Live.Distance)
	assert.Equal(t, 95*time.Minute, snap.Elapsed)

	// Elapsed time is frozen once the trip has ended.
	f.clock.Advance(time.Hour)
	assert.Equal(t, 95*time.Minute, f.tracker.Snapshot().Elapsed)
}

func TestConfirmStop_WithoutEndPosition(t *testing.T) {
	f := newFixture(t, at(kochi))
	ctx := context.Background()
	_, err := f.tracker.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, f.tracker.RequestStop())

	snap, err := f.tracker.ConfirmStop(ctx)

	require.NoError(t, err)
	assert.Equal(t, UnknownLocationLabel, snap.Live.Destination)
	assert.Equal(t, "0.0 km", snap.Live.Distance)
}

func completeTrip(t *testing.T, f trackerFixture) Snapshot {
	t.Helper()
	ctx := context.Background()
	_, err := f.tracker.Start(ctx)
	require.NoError(t, err)
	f.clock.Advance(30 * time.Minute)
	require.NoError(t, f.tracker.RequestStop())
	snap, err := f.tracker.ConfirmStop(ctx)
	require.NoError(t, err)
	return snap
}

func TestConfirmTrip_AppendsOneRecord(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar))
	completed := completeTrip(t, f)
	assert.Equal(t, "#TR-2025-001", completed.Live.Number)

	rec, err := f.tracker.ConfirmTrip(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, f.tracker.Ledger().Len())
	assert.Equal(t, completed.Live.Number, rec.TripNumber)
	assert.Equal(t, completed.Live.Origin, rec.Origin)
	assert.Equal(t, completed.Live.Destination, rec.Destination)
	assert.Equal(t, completed.Live.Distance, rec.Distance)
	assert.Equal(t, completed.Live.Mode, rec.Mode)
	assert.Equal(t, domain.PurposeWork, rec.Purpose)
	assert.Equal(t, "09:30 AM", rec.StartTime)
	assert.Equal(t, "10:00 AM", rec.EndTime)
	assert.Equal(t, "01-03-2025", rec.Date)
	assert.True(t, rec.IsValid())
	assert.Equal(t, []domain.TripRecord{rec}, f.store.records)

	snap := f.tracker.Snapshot()
	assert.Equal(t, domain.NoTrip, snap.State)
	assert.Nil(t, snap.Live)

	_, err = f.tracker.ConfirmTrip(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidState))
	assert.Equal(t, 1, f.tracker.Ledger().Len())
}

func TestConfirmTrip_SaveFailureKeepsTripWaiting(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar))
	completeTrip(t, f)
	f.store.saveErr = errors.NewStorageError("set item", stderrors.New("disk full"))

	_, err := f.tracker.ConfirmTrip(context.Background())

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	snap := f.tracker.Snapshot()
	assert.Equal(t, domain.Completed, snap.State)
	assert.True(t, snap.Live.NeedsConfirmation)
	assert.Equal(t, 0, f.tracker.Ledger().Len())

	f.store.saveErr = nil
	_, err = f.tracker.ConfirmTrip(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.tracker.Ledger().Len())
}

func TestConfirmTrip_KeepsNumberShownAtStop(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar))
	ctx := context.Background()
	completed := completeTrip(t, f)
	require.Equal(t, "#TR-2025-001", completed.Live.Number)
	assert.Equal(t, completed.Live.Number, f.tracker.Snapshot().Live.Number)

	form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Car", Distance: "12 km", Purpose: "Work"}
	manual, err := f.tracker.AddManualTrip(ctx, &form)
	require.NoError(t, err)

	rec, err := f.tracker.ConfirmTrip(ctx)

	require.NoError(t, err)
	assert.Equal(t, "#TR-2025-001", rec.TripNumber)
	assert.Equal(t, "#TR-2025-002", manual.TripNumber)
	assert.Equal(t, "#TR-2025-003", f.tracker.Ledger().NextTripNumber())
}

func TestStart_FromCompletedDiscardsUnconfirmedTrip(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar), at(munnar))
	completeTrip(t, f)

	snap, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.InProgress, snap.State)
	assert.False(t, snap.Live.NeedsConfirmation)
	assert.Equal(t, munnar.String(), snap.Live.Origin)
	assert.Equal(t, 0, f.tracker.Ledger().Len())
}

func TestPlaceResolver_LabelsTripEnds(t *testing.T) {
	f := newFixture(t, at(kochi), at(munnar))
	f.tracker.SetPlaceResolver(stubResolver{names: map[domain.Location]string{
		kochi:  "Kochi",
		munnar: "Munnar",
	}})

	snap := completeTrip(t, f)

	assert.Equal(t, "Kochi", snap.Live.Origin)
	assert.Equal(t, "Munnar", snap.Live.Destination)
}

func TestPlaceResolver_FailureFallsBackToCoordinates(t *testing.T) {
	f := newFixture(t, at(kochi))
	f.tracker.SetPlaceResolver(stubResolver{err: errors.NewNetworkError("reverse", stderrors.New("offline"))})

	snap, err := f.tracker.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, kochi.String(), snap.Live.Origin)
}

func TestAddManualTrip_ConcreteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Car", Distance: "12 km", Purpose: "Work"}
	rec, err := f.tracker.AddManualTrip(ctx, &form)

	require.NoError(t, err)
	records := f.tracker.Ledger().Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.ModeCar, records[0].Mode)
	assert.Equal(t, domain.PurposeWork, records[0].Purpose)
	assert.Equal(t, "Manual Entry", records[0].Origin)
	assert.Equal(t, rec, records[0])

	bad := domain.ManualTripInput{Date: "", Mode: "Car", Distance: "12 km", Purpose: "Work"}
	_, err = f.tracker.AddManualTrip(ctx, &bad)

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Len(t, f.tracker.Ledger().Records(), 1)
}

func TestAddManualTrip_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *domain.ManualTripInput)
	}{
		{"date", func(in *domain.ManualTripInput) { in.Date = "" }},
		{"mode", func(in *domain.ManualTripInput) { in.Mode = "" }},
		{"distance", func(in *domain.ManualTripInput) { in.Distance = " " }},
		{"purpose", func(in *domain.ManualTripInput) { in.Purpose = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Car", Distance: "12 km", Purpose: "Work", Notes: "Office"}
			tt.modify(&form)
			before := form

			_, err := f.tracker.AddManualTrip(context.Background(), &form)

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			assert.Equal(t, "Please fill in all required fields (Date, Mode, Distance, Purpose)", errors.GetUserMessage(err))
			assert.Equal(t, 0, f.tracker.Ledger().Len())
			assert.Equal(t, 0, f.store.saves)
			assert.Equal(t, before, form, "form is kept for correction")
		})
	}
}

func TestAddManualTrip_FieldsMatchInput(t *testing.T) {
	f := newFixture(t)
	form := domain.ManualTripInput{Date: "2025-03-01", Mode: "train", Distance: "42", Purpose: "Education", Notes: "  University  "}

	rec, err := f.tracker.AddManualTrip(context.Background(), &form)

	require.NoError(t, err)
	assert.Equal(t, "#TR-2025-001", rec.TripNumber)
	assert.Equal(t, "2025-03-01", rec.Date)
	assert.Equal(t, "09:30 AM", rec.Time)
	assert.Equal(t, domain.ModeTrain, rec.Mode)
	assert.Equal(t, "42", rec.Distance)
	assert.Equal(t, domain.PurposeEducation, rec.Purpose)
	assert.Equal(t, domain.ManualEntryLabel, rec.Origin)
	assert.Equal(t, "University", rec.Destination)
	assert.Equal(t, domain.NoClockTime, rec.StartTime)
	assert.Equal(t, domain.NoClockTime, rec.EndTime)
	assert.True(t, rec.IsManual())
	assert.True(t, form.IsEmpty(), "form is cleared after a successful add")
}

func TestAddManualTrip_IndependentOfLifecycle(t *testing.T) {
	f := newFixture(t, at(kochi))
	ctx := context.Background()
	_, err := f.tracker.Start(ctx)
	require.NoError(t, err)

	form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Walk", Distance: "2 km", Purpose: "Leisure"}
	rec, err := f.tracker.AddManualTrip(ctx, &form)

	require.NoError(t, err)
	assert.Equal(t, domain.ManualEntryLabel, rec.Destination)
	assert.Equal(t, domain.InProgress, f.tracker.Snapshot().State)
}

func TestAddManualTrip_UnknownMode(t *testing.T) {
	f := newFixture(t)
	form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Boat", Distance: "2 km", Purpose: "Leisure"}

	_, err := f.tracker.AddManualTrip(context.Background(), &form)

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Contains(t, errors.GetUserMessage(err), "mode has invalid value")
}

func TestAddManualTrip_SaveFailure(t *testing.T) {
	f := newFixture(t)
	f.store.saveErr = errors.NewStorageError("set item", stderrors.New("disk full"))
	form := domain.ManualTripInput{Date: "15-01-2024", Mode: "Car", Distance: "12 km", Purpose: "Work"}

	_, err := f.tracker.AddManualTrip(context.Background(), &form)

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	assert.Equal(t, 0, f.tracker.Ledger().Len())
	assert.False(t, form.IsEmpty())
}

func TestLocators(t *testing.T) {
	loc, err := FixedLocator{Location: kochi}.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kochi, loc)

	_, err = UnavailableLocator{}.CurrentPosition(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePermission))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FixedLocator{Location: kochi}.CurrentPosition(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}
