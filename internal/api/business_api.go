package api

import (
	"context"
	"strings"
	"time"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/services"
	"travel-tracker/internal/validation"
)

// Geocoder looks up places by name and by coordinates
type Geocoder interface {
	Search(ctx context.Context, query string) (domain.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (domain.Place, error)
}

// Options configures NewBusinessAPI
type Options struct {
	ExportDir    string
	ExportFormat string
}

// Business domain types
type TripStatus struct {
	State             string     `json:"state"`
	StopPending       bool       `json:"stop_pending"`
	Number            string     `json:"number,omitempty"`
	NeedsConfirmation bool       `json:"needs_confirmation"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	Origin            string     `json:"origin,omitempty"`
	Destination       string     `json:"destination,omitempty"`
	Distance          string     `json:"distance,omitempty"`
	Mode              string     `json:"mode,omitempty"`
	Elapsed           string     `json:"elapsed"` // HH:MM:SS
}

type ExportResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
}

// BusinessAPI defines the operations offered to the command line
type BusinessAPI interface {
	// ========== Session ==========

	Login(ctx context.Context, username, password string) (*domain.AuthContext, error)
	LoginAs(ctx context.Context, email string) (*domain.AuthContext, error)
	QuickAccounts() []identity.QuickAccount
	AdminLogin(ctx context.Context, username, password, code string) (*domain.AuthContext, error)
	SignUp(ctx context.Context, name, email string) (*domain.AuthContext, error)
	Logout(ctx context.Context) error

	// WhoAmI returns the signed-in session, or nil when signed out
	WhoAmI(ctx context.Context) (*domain.AuthContext, error)

	// ========== Live Trip Workflows ==========

	StartTrip(ctx context.Context) (*TripStatus, error)
	RequestStop(ctx context.Context) (*TripStatus, error)
	ConfirmStop(ctx context.Context) (*TripStatus, error)
	CancelStop(ctx context.Context) (*TripStatus, error)
	ConfirmTrip(ctx context.Context) (*domain.TripRecord, error)
	GetTripStatus(ctx context.Context) (*TripStatus, error)

	// NewElapsedTimer reports the running trip's elapsed time on every tick
	NewElapsedTimer(onTick func(elapsed string)) *ledger.ElapsedTimer

	// ========== Manual Entry and History ==========

	AddManualTrip(ctx context.Context, input *domain.ManualTripInput) (*domain.TripRecord, error)
	GetHistory(ctx context.Context) ([]domain.TripRecord, error)
	ExportHistory(ctx context.Context, format, out string) (*ExportResult, error)

	// ========== Places ==========

	SearchPlace(ctx context.Context, query string) (*domain.Place, error)
	ReversePlace(ctx context.Context, lat, lng float64) (*domain.Place, error)

	// ========== Admin Views ==========

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	DownloadUser(ctx context.Context, id, format, out string) (*ExportResult, error)
	GetAnalytics(ctx context.Context) ([]services.Destination, error)
	GetSystemHealth(ctx context.Context) ([]services.SystemIssue, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services      *services.ServiceContainer
	geocoder      Geocoder
	tripValidator *validation.TripValidator
	opts          Options
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer, geocoder Geocoder, opts Options) BusinessAPI {
	if opts.ExportFormat == "" {
		opts.ExportFormat = services.FormatJSON
	}
	return &businessAPIImpl{
		services:      container,
		geocoder:      geocoder,
		tripValidator: validation.NewTripValidator(),
		opts:          opts,
	}
}

// ========== Session ==========

func (b *businessAPIImpl) Login(ctx context.Context, username, password string) (*domain.AuthContext, error) {
	return b.services.SessionService.Login(ctx, username, password)
}

func (b *businessAPIImpl) LoginAs(ctx context.Context, email string) (*domain.AuthContext, error) {
	return b.services.SessionService.LoginAs(ctx, email)
}

func (b *businessAPIImpl) QuickAccounts() []identity.QuickAccount {
	return b.services.SessionService.QuickAccounts()
}

func (b *businessAPIImpl) AdminLogin(ctx context.Context, username, password, code string) (*domain.AuthContext, error) {
	return b.services.SessionService.AdminLogin(ctx, username, password, code)
}

func (b *businessAPIImpl) SignUp(ctx context.Context, name, email string) (*domain.AuthContext, error) {
	return b.services.SessionService.SignUp(ctx, name, email)
}

func (b *businessAPIImpl) Logout(ctx context.Context) error {
	return b.services.SessionService.Logout(ctx)
}

func (b *businessAPIImpl) WhoAmI(ctx context.Context) (*domain.AuthContext, error) {
	return b.services.SessionService.Current(ctx)
}

func (b *businessAPIImpl) requireUser(ctx context.Context) (*domain.AuthContext, error) {
	return b.services.SessionService.Require(ctx, domain.RoleUser)
}

func (b *businessAPIImpl) requireAdmin(ctx context.Context) (*domain.AuthContext, error) {
	return b.services.SessionService.Require(ctx, domain.RoleAdmin)
}

// ========== Live Trip Workflows ==========

func (b *businessAPIImpl) StartTrip(ctx context.Context) (*TripStatus, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	snap, err := b.services.TripService.Start(ctx)
	if err != nil {
		return nil, err
	}
	return newTripStatus(snap), nil
}

func (b *businessAPIImpl) RequestStop(ctx context.Context) (*TripStatus, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	if err := b.services.TripService.RequestStop(); err != nil {
		return nil, err
	}
	return newTripStatus(b.services.TripService.Snapshot()), nil
}

func (b *businessAPIImpl) ConfirmStop(ctx context.Context) (*TripStatus, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	snap, err := b.services.TripService.ConfirmStop(ctx)
	if err != nil {
		return nil, err
	}
	return newTripStatus(snap), nil
}

func (b *businessAPIImpl) CancelStop(ctx context.Context) (*TripStatus, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	if err := b.services.TripService.CancelStop(); err != nil {
		return nil, err
	}
	return newTripStatus(b.services.TripService.Snapshot()), nil
}

func (b *businessAPIImpl) ConfirmTrip(ctx context.Context) (*domain.TripRecord, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	rec, err := b.services.TripService.ConfirmTrip(ctx)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (b *businessAPIImpl) GetTripStatus(ctx context.Context) (*TripStatus, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	return newTripStatus(b.services.TripService.Snapshot()), nil
}

func (b *businessAPIImpl) NewElapsedTimer(onTick func(elapsed string)) *ledger.ElapsedTimer {
	return b.services.TripService.NewElapsedTimer(onTick)
}

func newTripStatus(snap ledger.Snapshot) *TripStatus {
	status := &TripStatus{
		State:       snap.State.String(),
		StopPending: snap.StopPending,
		Elapsed:     ledger.FormatElapsed(snap.Elapsed),
	}
	if live := snap.Live; live != nil {
		started := live.StartedAt
		status.StartedAt = &started
		status.NeedsConfirmation = live.NeedsConfirmation
		status.Number = live.Number
		status.Origin = live.Origin
		status.Destination = live.Destination
		status.Distance = live.Distance
		status.Mode = string(live.Mode)
	}
	return status
}

// ========== Manual Entry and History ==========

func (b *businessAPIImpl) AddManualTrip(ctx context.Context, input *domain.ManualTripInput) (*domain.TripRecord, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	rec, err := b.services.TripService.AddManualTrip(ctx, input)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (b *businessAPIImpl) GetHistory(ctx context.Context) ([]domain.TripRecord, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	return b.services.TripService.History(), nil
}

func (b *businessAPIImpl) ExportHistory(ctx context.Context, format, out string) (*ExportResult, error) {
	auth, err := b.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	format, err = b.exportFormat(format)
	if err != nil {
		return nil, err
	}

	records := b.services.TripService.History()
	var file *services.ExportFile
	if format == services.FormatPDF {
		file, err = b.services.ExportService.ExportLedgerPDF(auth, records)
	} else {
		file, err = b.services.ExportService.ExportLedgerJSON(auth, records)
	}
	if err != nil {
		return nil, err
	}
	return b.write(file, out)
}

func (b *businessAPIImpl) exportFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = b.opts.ExportFormat
	}
	switch format {
	case services.FormatJSON, services.FormatPDF:
		return format, nil
	}
	return "", errors.NewInvalidInputError("format", format, "must be json or pdf")
}

func (b *businessAPIImpl) write(file *services.ExportFile, out string) (*ExportResult, error) {
	if out == "" {
		out = b.opts.ExportDir
	}
	path, err := b.services.ExportService.WriteFile(out, file)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Path: path, Format: file.Format, Bytes: len(file.Data)}, nil
}

// ========== Places ==========

func (b *businessAPIImpl) SearchPlace(ctx context.Context, query string) (*domain.Place, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	if err := b.tripValidator.ValidateSearchQuery(query); err != nil {
		return nil, validationFailure(err)
	}
	place, err := b.geocoder.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (b *businessAPIImpl) ReversePlace(ctx context.Context, lat, lng float64) (*domain.Place, error) {
	if _, err := b.requireUser(ctx); err != nil {
		return nil, err
	}
	if err := b.tripValidator.ValidateCoordinates(lat, lng); err != nil {
		return nil, validationFailure(err)
	}
	place, err := b.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func validationFailure(err error) error {
	message := err.Error()
	if ve, ok := err.(*validation.ValidationError); ok {
		message = ve.GetUserFriendlyMessage()
	}
	return errors.NewValidationError(message, err)
}

// ========== Admin Views ==========

func (b *businessAPIImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	auth, err := b.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.AdminService.ListUsers(ctx, auth)
}

func (b *businessAPIImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	auth, err := b.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	user, err := b.services.AdminService.GetUser(ctx, auth, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (b *businessAPIImpl) DownloadUser(ctx context.Context, id, format, out string) (*ExportResult, error) {
	user, err := b.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	format, err = b.exportFormat(format)
	if err != nil {
		return nil, err
	}

	var file *services.ExportFile
	if format == services.FormatPDF {
		file, err = b.services.ExportService.ExportUserPDF(*user)
	} else {
		file, err = b.services.ExportService.ExportUserJSON(*user)
	}
	if err != nil {
		return nil, err
	}
	return b.write(file, out)
}

func (b *businessAPIImpl) GetAnalytics(ctx context.Context) ([]services.Destination, error) {
	auth, err := b.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.AdminService.Analytics(auth)
}

func (b *businessAPIImpl) GetSystemHealth(ctx context.Context) ([]services.SystemIssue, error) {
	auth, err := b.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.AdminService.SystemHealth(auth)
}
