package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"travel-tracker/internal/api"
	"travel-tracker/internal/config"
	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/geocoding"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/repository/sqlite"
	"travel-tracker/internal/services"
)

var munnar = domain.Place{Name: "Munnar, Idukki, Kerala", Type: "town", Location: domain.Location{Lat: 10.0889, Lng: 77.0595}}

type stubGeocoder struct{}

func (stubGeocoder) Search(ctx context.Context, query string) (domain.Place, error) {
	if strings.EqualFold(query, "munnar") {
		return munnar, nil
	}
	notFound := errors.NewNotFoundError("place", query)
	notFound.Message = geocoding.NotFoundMessage
	return domain.Place{}, notFound
}

func (stubGeocoder) Reverse(ctx context.Context, lat, lng float64) (domain.Place, error) {
	return domain.Place{Name: geocoding.DroppedPinLabel, Location: domain.Location{Lat: lat, Lng: lng}}, nil
}

// testEnv shares one in-memory store across command runs, like the
// database file does between real invocations
type testEnv struct {
	t         *testing.T
	repo      sqlite.Repository
	provider  identity.Provider
	configDir string
	exportDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("TRIPS_HOME", t.TempDir())

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	provider, err := identity.NewStaticProviderWithCost(bcrypt.MinCost)
	require.NoError(t, err)

	return &testEnv{
		t:         t,
		repo:      repo,
		provider:  provider,
		configDir: t.TempDir(),
		exportDir: t.TempDir(),
	}
}

func (e *testEnv) build(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
	var locator ledger.Locator = ledger.UnavailableLocator{}
	if loc, ok := cfg.FixedLocation(); ok {
		locator = ledger.FixedLocator{Location: loc}
	}
	mode, _ := domain.ParseTransportMode(cfg.Trip.DefaultMode)

	container := services.NewServiceContainer(ctx, e.repo, e.provider, locator, services.TripOptions{
		NumberPrefix: cfg.Trip.NumberPrefix,
		Tracker:      ledger.Options{DefaultMode: mode},
		TimerTick:    cfg.Trip.TimerTick,
	})
	exportDir := cfg.Export.Dir
	if exportDir == "." {
		exportDir = e.exportDir
	}
	return api.NewBusinessAPI(container, stubGeocoder{}, api.Options{
		ExportDir:    exportDir,
		ExportFormat: cfg.Export.DefaultFormat,
	}), func() error { return nil }, nil
}

// run executes one command line with the given terminal input
func (e *testEnv) run(input string, args ...string) (string, error) {
	e.t.Helper()
	loader := config.NewLoaderWithFile(filepath.Join(e.configDir, "config.yaml"))
	root := NewRootCommand(loader, e.build)

	var out bytes.Buffer
	root.SetIO(strings.NewReader(input), &out)
	err := root.Execute(context.Background(), args)
	return out.String(), err
}

func (e *testEnv) mustRun(input string, args ...string) string {
	e.t.Helper()
	out, err := e.run(input, args...)
	require.NoError(e.t, err, out)
	return out
}
