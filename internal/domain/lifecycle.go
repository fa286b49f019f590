package domain

import (
	"strings"
	"time"
)

// LifecycleState is the phase of live trip tracking. It is never persisted.
type LifecycleState int

const (
	NoTrip LifecycleState = iota
	InProgress
	Completed
)

// String returns the state name used in status output.
func (s LifecycleState) String() string {
	switch s {
	case NoTrip:
		return "no-trip"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// CanStart reports whether a new trip may be started from s.
func (s LifecycleState) CanStart() bool {
	return s == NoTrip || s == Completed
}

// LiveTrip is the trip currently being tracked, or the last completed one
// while it waits for confirmation.
type LiveTrip struct {
	// Number is reserved when the trip is stopped and kept when it is saved.
	Number            string
	StartedAt         time.Time
	EndedAt           *time.Time
	StartLocation     *Location
	EndLocation       *Location
	Origin            string
	Destination       string
	Distance          string
	Mode              TransportMode
	NeedsConfirmation bool
}

// Elapsed returns the trip duration up to now, or up to EndedAt once stopped.
func (t LiveTrip) Elapsed(now time.Time) time.Duration {
	if t.EndedAt != nil {
		return t.EndedAt.Sub(t.StartedAt)
	}
	if now.Before(t.StartedAt) {
		return 0
	}
	return now.Sub(t.StartedAt)
}

// ManualTripInput holds the manual entry form fields.
type ManualTripInput struct {
	Date     string
	Mode     string
	Distance string
	Purpose  string
	Notes    string
}

// Clear resets every form field.
func (in *ManualTripInput) Clear() {
	*in = ManualTripInput{}
}

// IsEmpty reports whether no field has been filled in.
func (in ManualTripInput) IsEmpty() bool {
	return strings.TrimSpace(in.Date+in.Mode+in.Distance+in.Purpose+in.Notes) == ""
}
