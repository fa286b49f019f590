package config

import (
	"fmt"
	"os"

	"travel-tracker/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from TRIPS_ENV
func GetEnvironment() Environment {
	switch Environment(os.Getenv("TRIPS_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env    Environment
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment, config *Config) *RepositoryFactory {
	return &RepositoryFactory{env: env, config: config}
}

// CreateRepository creates a repository instance based on the current environment
func (rf *RepositoryFactory) CreateRepository() (sqlite.Repository, error) {
	switch rf.env {
	case Development:
		// Local database file in the working directory
		repo, err := sqlite.New("trips.db")
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development database: %w", err)
		}
		return repo, nil
	case Testing:
		return CreateTestRepository()
	default:
		return CreateRepository(rf.config)
	}
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if err := os.MkdirAll(config.Storage.Dir, os.FileMode(config.Storage.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	repo, err := sqlite.New(config.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repo.SetTimeouts(config.GetQueryTimeout(), config.GetWriteTimeout())

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
