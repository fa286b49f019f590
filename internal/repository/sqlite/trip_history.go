package sqlite

import (
	"context"
	"encoding/json"

	"travel-tracker/internal/errors"
)

// TripHistoryKey is the local storage key holding the whole trip history.
const TripHistoryKey = "tripHistory"

// TripHistoryStore reads and writes the trip history as one JSON array.
type TripHistoryStore struct {
	repo Repository
}

// NewTripHistoryStore creates a store backed by repo
func NewTripHistoryStore(repo Repository) *TripHistoryStore {
	return &TripHistoryStore{repo: repo}
}

// Load returns the stored history. A missing key yields a not found error
// and an unparsable value a validation error; callers decide whether to
// fall back to an empty history.
func (s *TripHistoryStore) Load(ctx context.Context) ([]StoredTrip, error) {
	item, err := s.repo.GetItem(ctx, ScopeLocal, TripHistoryKey)
	if err != nil {
		return nil, err
	}

	var trips []StoredTrip
	if err := json.Unmarshal([]byte(item.Value), &trips); err != nil {
		return nil, errors.NewValidationError("corrupt trip history", err).
			WithContext("key", TripHistoryKey)
	}
	return trips, nil
}

// Save replaces the stored history with trips.
func (s *TripHistoryStore) Save(ctx context.Context, trips []StoredTrip) error {
	if trips == nil {
		trips = []StoredTrip{}
	}

	data, err := json.Marshal(trips)
	if err != nil {
		return errors.NewStorageError("encode trip history", err)
	}
	return s.repo.SetItem(ctx, ScopeLocal, TripHistoryKey, string(data))
}
