package services

import (
	"context"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/ledger"
	"travel-tracker/internal/repository/sqlite"
)

// historyStore adapts the stored trip history to ledger.Store
type historyStore struct {
	store  *sqlite.TripHistoryStore
	mapper *domain.Mapper
}

// NewHistoryStore returns a ledger.Store backed by the local storage scope of repo
func NewHistoryStore(repo sqlite.Repository) ledger.Store {
	return &historyStore{
		store:  sqlite.NewTripHistoryStore(repo),
		mapper: domain.NewMapper(),
	}
}

func (h *historyStore) Load(ctx context.Context) ([]domain.TripRecord, error) {
	stored, err := h.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return h.mapper.TripRecord.FromStorageSlice(stored), nil
}

func (h *historyStore) Save(ctx context.Context, records []domain.TripRecord) error {
	return h.store.Save(ctx, h.mapper.TripRecord.ToStorageSlice(records))
}
