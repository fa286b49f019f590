package services

import (
	"context"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/repository/sqlite"
)

// Session storage keys
const (
	SessionKeyAuthType  = "authType"
	SessionKeyUsername  = "username"
	SessionKeyUserEmail = "userEmail"
	SessionKeySessionID = "sessionId"
)

// ExportFile is a rendered export ready to be written out
type ExportFile struct {
	Filename string
	Format   string
	Data     []byte
}

// ExportUser is the user block of a JSON export
type ExportUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExportEnvelope is the JSON export document
type ExportEnvelope struct {
	User       ExportUser  `json:"user"`
	Trips      interface{} `json:"trips"`
	ExportDate string      `json:"exportDate"`
}

// Destination is a featured destination on the analytics view
type Destination struct {
	Name        string          `json:"name"`
	Location    domain.Location `json:"location"`
	Description string          `json:"description"`
}

// MapLink returns a map URL for the destination
func (d Destination) MapLink() string {
	return d.Location.MapLink()
}

// HealthStatus rates one area of the transport system
type HealthStatus string

const (
	HealthCritical HealthStatus = "critical"
	HealthWarning  HealthStatus = "warning"
	HealthGood     HealthStatus = "good"
)

// SystemIssue describes the state of one transport area
type SystemIssue struct {
	Area            string       `json:"area"`
	Status          HealthStatus `json:"status"`
	Problems        []string     `json:"problems"`
	Recommendations []string     `json:"recommendations"`
}

// TripService drives live tracking, manual entry and history
type TripService interface {
	// Live trip lifecycle
	Start(ctx context.Context) (ledger.Snapshot, error)
	RequestStop() error
	ConfirmStop(ctx context.Context) (ledger.Snapshot, error)
	CancelStop() error
	ConfirmTrip(ctx context.Context) (domain.TripRecord, error)
	Snapshot() ledger.Snapshot

	// Manual entry and history
	AddManualTrip(ctx context.Context, input *domain.ManualTripInput) (domain.TripRecord, error)
	History() []domain.TripRecord

	// Display timer for the running trip
	NewElapsedTimer(onTick func(elapsed string)) *ledger.ElapsedTimer
}

// SessionService manages the signed-in session
type SessionService interface {
	Login(ctx context.Context, login, password string) (*domain.AuthContext, error)
	LoginAs(ctx context.Context, email string) (*domain.AuthContext, error)
	QuickAccounts() []identity.QuickAccount
	AdminLogin(ctx context.Context, login, password, code string) (*domain.AuthContext, error)
	SignUp(ctx context.Context, name, email string) (*domain.AuthContext, error)
	Current(ctx context.Context) (*domain.AuthContext, error)
	Logout(ctx context.Context) error
	Require(ctx context.Context, role domain.Role) (*domain.AuthContext, error)
}

// ExportService renders and writes trip exports
type ExportService interface {
	ExportUserJSON(user domain.User) (*ExportFile, error)
	ExportUserPDF(user domain.User) (*ExportFile, error)
	ExportLedgerJSON(auth *domain.AuthContext, records []domain.TripRecord) (*ExportFile, error)
	ExportLedgerPDF(auth *domain.AuthContext, records []domain.TripRecord) (*ExportFile, error)
	WriteFile(dir string, file *ExportFile) (string, error)
}

// AdminService serves the admin-only views
type AdminService interface {
	ListUsers(ctx context.Context, auth *domain.AuthContext) ([]domain.User, error)
	GetUser(ctx context.Context, auth *domain.AuthContext, id string) (domain.User, error)
	Analytics(auth *domain.AuthContext) ([]Destination, error)
	SystemHealth(auth *domain.AuthContext) ([]SystemIssue, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TripService    TripService
	SessionService SessionService
	ExportService  ExportService
	AdminService   AdminService
}

// NewServiceContainer wires every service over one repository
func NewServiceContainer(ctx context.Context, repo sqlite.Repository, provider identity.Provider, locator ledger.Locator, tripOpts TripOptions) *ServiceContainer {
	return &ServiceContainer{
		TripService:    NewTripService(ctx, repo, locator, tripOpts),
		SessionService: NewSessionService(repo, provider),
		ExportService:  NewExportService(),
		AdminService:   NewAdminService(provider),
	}
}
