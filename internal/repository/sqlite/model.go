package sqlite

import "time"

// Scope selects one of the two storage areas.
type Scope string

const (
	// ScopeLocal survives logout and holds the trip history.
	ScopeLocal Scope = "local"
	// ScopeSession holds the signed-in session and is cleared on logout.
	ScopeSession Scope = "session"
)

// table returns the backing table for the scope.
func (s Scope) table() (string, bool) {
	switch s {
	case ScopeLocal:
		return "local_storage", true
	case ScopeSession:
		return "session_storage", true
	default:
		return "", false
	}
}

// Item is a single stored key/value pair
type Item struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// StoredTrip is the serialized form of one trip history entry.
// The JSON keys match the tripHistory array written by earlier clients.
type StoredTrip struct {
	ID          string `json:"id"`
	TripNumber  string `json:"tripNumber"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Distance    string `json:"distance"`
	Mode        string `json:"mode"`
	Purpose     string `json:"purpose"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}
