// Package ledger holds the trip lifecycle state machine and the append-only
// trip history it feeds. It has no knowledge of the UI or of the storage
// backend behind Store.
package ledger

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
)

// DefaultNumberPrefix precedes the zero-padded sequence in trip numbers.
const DefaultNumberPrefix = "#TR-2025-"

// Store persists the whole history at once.
type Store interface {
	Load(ctx context.Context) ([]domain.TripRecord, error)
	Save(ctx context.Context, records []domain.TripRecord) error
}

// Ledger is the in-memory trip history, persisted on every append.
type Ledger struct {
	mu           sync.RWMutex
	store        Store
	records      []domain.TripRecord
	numberPrefix string
	entropy      io.Reader
	// reserved is the highest sequence handed out by ReserveTripNumber.
	reserved int
}

// Open loads the history from store. A missing or unreadable history is
// logged and replaced by an empty one; Open itself never fails.
func Open(ctx context.Context, store Store, numberPrefix string) *Ledger {
	if numberPrefix == "" {
		numberPrefix = DefaultNumberPrefix
	}

	l := &Ledger{
		store:        store,
		numberPrefix: numberPrefix,
		entropy:      ulid.Monotonic(rand.Reader, 0),
	}

	records, err := store.Load(ctx)
	switch {
	case errors.IsErrorType(err, errors.ErrorTypeNotFound):
		logging.Debugln("no trip history stored yet")
	case err != nil:
		logging.Warnf("ignoring unreadable trip history: %v", err)
	default:
		l.records = records
	}

	return l
}

// Records returns a copy of the history in insertion order.
func (l *Ledger) Records() []domain.TripRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.TripRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of stored trips.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// NextTripNumber returns the number the next appended trip will receive.
func (l *Ledger) NextTripNumber() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tripNumber(l.nextSeqLocked())
}

// ReserveTripNumber hands out the next trip number and keeps it from being
// given to any later append. Pass it back to Append in the record.
func (l *Ledger) ReserveTripNumber() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.nextSeqLocked()
	l.reserved = seq
	return l.tripNumber(seq)
}

func (l *Ledger) nextSeqLocked() int {
	if l.reserved > len(l.records) {
		return l.reserved + 1
	}
	return len(l.records) + 1
}

func (l *Ledger) tripNumber(seq int) string {
	return fmt.Sprintf("%s%03d", l.numberPrefix, seq)
}

// Append adds rec to the end of the history and persists the whole history.
// The stored history is read again first so that trips saved by another
// process since Open are kept. An empty ID or trip number is filled in. If
// persisting fails the record is dropped again and the history is left as
// it was.
func (l *Ledger) Append(ctx context.Context, rec domain.TripRecord, at time.Time) (domain.TripRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refreshLocked(ctx)

	if rec.ID == "" {
		id, err := ulid.New(ulid.Timestamp(at), l.entropy)
		if err != nil {
			return domain.TripRecord{}, errors.WrapError(err, errors.ErrorTypeStorage, "failed to generate trip id")
		}
		rec.ID = id.String()
	}
	if rec.TripNumber == "" {
		rec.TripNumber = l.tripNumber(l.nextSeqLocked())
	}

	l.records = append(l.records, rec)
	if err := l.store.Save(ctx, l.records); err != nil {
		l.records = l.records[:len(l.records)-1]
		return domain.TripRecord{}, err
	}

	logging.Debugf("appended trip %s (%s)\n", rec.TripNumber, rec.ID)
	return rec, nil
}

// refreshLocked replaces the in-memory history with the stored one when the
// store holds at least as many trips. A failed read keeps what is in memory.
func (l *Ledger) refreshLocked(ctx context.Context) {
	records, err := l.store.Load(ctx)
	switch {
	case errors.IsErrorType(err, errors.ErrorTypeNotFound):
		return
	case err != nil:
		logging.Warnf("appending to cached trip history: %v", err)
		return
	}
	if len(records) >= len(l.records) {
		l.records = records
	}
}
