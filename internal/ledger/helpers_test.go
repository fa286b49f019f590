package ledger

import (
	"context"
	"sync"
	"time"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
)

type memStore struct {
	mu      sync.Mutex
	records []domain.TripRecord
	saved   bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) ([]domain.TripRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.saved {
		return nil, errors.NewNotFoundError("item", "tripHistory")
	}
	out := make([]domain.TripRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) Save(ctx context.Context, records []domain.TripRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = make([]domain.TripRecord, len(records))
	copy(m.records, records)
	m.saved = true
	return nil
}

// scriptedLocator returns the queued results in order, then fails.
type scriptedLocator struct {
	mu      sync.Mutex
	results []locatorResult
	calls   int
}

type locatorResult struct {
	loc domain.Location
	err error
}

func (s *scriptedLocator) CurrentPosition(ctx context.Context) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.results) == 0 {
		return domain.Location{}, errors.NewPermissionError("read position", "location")
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.loc, r.err
}

type stubResolver struct {
	names map[domain.Location]string
	err   error
}

func (s stubResolver) Reverse(ctx context.Context, lat, lng float64) (domain.Place, error) {
	if s.err != nil {
		return domain.Place{}, s.err
	}
	loc := domain.Location{Lat: lat, Lng: lng}
	return domain.Place{Name: s.names[loc], Location: loc}, nil
}

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	kochi  = domain.Location{Lat: 9.9312, Lng: 76.2673}
	munnar = domain.Location{Lat: 10.0889, Lng: 77.0595}
)
