package domain

import (
	"travel-tracker/internal/repository/sqlite"
)

// TripRecordMapper handles conversion between domain and stored trip records.
type TripRecordMapper struct{}

// NewTripRecordMapper creates a new TripRecordMapper instance.
func NewTripRecordMapper() *TripRecordMapper {
	return &TripRecordMapper{}
}

// ToStorage converts a domain TripRecord to its stored form.
func (m *TripRecordMapper) ToStorage(r TripRecord) sqlite.StoredTrip {
	return sqlite.StoredTrip{
		ID:          r.ID,
		TripNumber:  r.TripNumber,
		Date:        r.Date,
		Time:        r.Time,
		Origin:      r.Origin,
		Destination: r.Destination,
		Distance:    r.Distance,
		Mode:        string(r.Mode),
		Purpose:     string(r.Purpose),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// FromStorage converts a stored trip to a domain TripRecord. Mode and purpose
// are carried over verbatim so that values written by other clients survive
// a load/save cycle.
func (m *TripRecordMapper) FromStorage(s sqlite.StoredTrip) TripRecord {
	return TripRecord{
		ID:          s.ID,
		TripNumber:  s.TripNumber,
		Date:        s.Date,
		Time:        s.Time,
		Origin:      s.Origin,
		Destination: s.Destination,
		Distance:    s.Distance,
		Mode:        TransportMode(s.Mode),
		Purpose:     TripPurpose(s.Purpose),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
	}
}

// ToStorageSlice converts a slice of domain records to stored trips.
func (m *TripRecordMapper) ToStorageSlice(records []TripRecord) []sqlite.StoredTrip {
	stored := make([]sqlite.StoredTrip, len(records))
	for i, r := range records {
		stored[i] = m.ToStorage(r)
	}
	return stored
}

// FromStorageSlice converts a slice of stored trips to domain records.
func (m *TripRecordMapper) FromStorageSlice(stored []sqlite.StoredTrip) []TripRecord {
	records := make([]TripRecord, len(stored))
	for i, s := range stored {
		records[i] = m.FromStorage(s)
	}
	return records
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	TripRecord *TripRecordMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		TripRecord: NewTripRecordMapper(),
	}
}
