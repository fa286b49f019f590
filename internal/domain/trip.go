package domain

import (
	"fmt"
	"strings"
)

// TransportMode is the means of travel for a trip.
type TransportMode string

const (
	ModeCar   TransportMode = "Car"
	ModeBus   TransportMode = "Bus"
	ModeTrain TransportMode = "Train"
	ModeWalk  TransportMode = "Walk"
	ModeBike  TransportMode = "Bike"
	ModeAuto  TransportMode = "Auto"
)

// AllTransportModes returns the modes offered by the trip form, in display order.
func AllTransportModes() []TransportMode {
	return []TransportMode{ModeCar, ModeBus, ModeTrain, ModeWalk, ModeBike, ModeAuto}
}

// ParseTransportMode matches s case-insensitively against the known modes.
func ParseTransportMode(s string) (TransportMode, bool) {
	for _, m := range AllTransportModes() {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, true
		}
	}
	return "", false
}

// IsKnown reports whether m is one of the fixed transport modes.
func (m TransportMode) IsKnown() bool {
	_, ok := ParseTransportMode(string(m))
	return ok
}

// TripPurpose is the reason a trip was made.
type TripPurpose string

const (
	PurposeWork       TripPurpose = "Work"
	PurposeEducation  TripPurpose = "Education"
	PurposeShopping   TripPurpose = "Shopping"
	PurposeLeisure    TripPurpose = "Leisure"
	PurposeHealthcare TripPurpose = "Healthcare"
	PurposeOther      TripPurpose = "Other"
)

// AllTripPurposes returns the purposes offered by the trip form, in display order.
func AllTripPurposes() []TripPurpose {
	return []TripPurpose{PurposeWork, PurposeEducation, PurposeShopping, PurposeLeisure, PurposeHealthcare, PurposeOther}
}

// ParseTripPurpose matches s case-insensitively against the known purposes.
func ParseTripPurpose(s string) (TripPurpose, bool) {
	for _, p := range AllTripPurposes() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// IsKnown reports whether p is one of the fixed purposes.
func (p TripPurpose) IsKnown() bool {
	_, ok := ParseTripPurpose(string(p))
	return ok
}

// Placeholder values used when a record has no real data for a field.
const (
	ManualEntryLabel = "Manual Entry"
	NoClockTime      = "--:--"
)

// TripRecord is one confirmed or manually entered trip in the ledger.
// All display fields are kept as the strings the user saw; none of them is
// parsed after the record is created.
type TripRecord struct {
	ID          string
	TripNumber  string
	Date        string
	Time        string
	Origin      string
	Destination string
	Distance    string
	Mode        TransportMode
	Purpose     TripPurpose
	StartTime   string
	EndTime     string
}

// IsValid checks that the record carries the fields every producer must set.
func (r TripRecord) IsValid() bool {
	return r.ID != "" &&
		strings.TrimSpace(r.Date) != "" &&
		r.Mode != "" &&
		strings.TrimSpace(r.Distance) != "" &&
		r.Purpose != ""
}

// IsManual reports whether the record came from the manual entry form.
func (r TripRecord) IsManual() bool {
	return r.Origin == ManualEntryLabel && r.StartTime == NoClockTime
}

// String returns a one-line summary for display purposes.
func (r TripRecord) String() string {
	return fmt.Sprintf("%s %s %s → %s (%s, %s, %s)",
		r.TripNumber, r.Date, r.Origin, r.Destination, r.Distance, r.Mode, r.Purpose)
}
