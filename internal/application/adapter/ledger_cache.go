package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/domain/entity"
)

// LedgerSnapshot is the persisted state used to hydrate a ledger session.
type LedgerSnapshot struct {
	Businesses   []entity.Business
	Transactions []entity.Transaction
}

// LedgerSnapshotCache stores hydrated ledger state between sessions.
type LedgerSnapshotCache interface {
	// Get returns the cached snapshot, or nil when nothing is cached.
	Get(ctx context.Context, userID uuid.UUID) (*LedgerSnapshot, error)

	// Set stores the snapshot.
	Set(ctx context.Context, userID uuid.UUID, snapshot *LedgerSnapshot) error

	// Invalidate drops the cached snapshot.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// LedgerObserver is notified about ledger mutations.
type LedgerObserver interface {
	// ObserveMutation records the outcome of a mutation ("ok", "rejected", "remote_error").
	ObserveMutation(operation, outcome string)

	// ObserveHydration records where a session was hydrated from ("cache", "database").
	ObserveHydration(source string)
}
