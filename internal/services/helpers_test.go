package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/repository/sqlite"
)

var (
	kochi  = domain.Location{Lat: 9.9312, Lng: 76.2673}
	munnar = domain.Location{Lat: 10.0889, Lng: 77.0595}
)

func newTestRepo(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newTestProvider(t *testing.T) identity.Provider {
	t.Helper()
	p, err := identity.NewStaticProviderWithCost(bcrypt.MinCost)
	require.NoError(t, err)
	return p
}

// routeLocator returns its positions in order, repeating the last one
type routeLocator struct {
	mu        sync.Mutex
	positions []domain.Location
}

func (r *routeLocator) CurrentPosition(ctx context.Context) (domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc := r.positions[0]
	if len(r.positions) > 1 {
		r.positions = r.positions[1:]
	}
	return loc, nil
}

type namedPlaces map[domain.Location]string

func (n namedPlaces) Reverse(ctx context.Context, lat, lng float64) (domain.Place, error) {
	loc := domain.Location{Lat: lat, Lng: lng}
	return domain.Place{Name: n[loc], Location: loc}, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
}
