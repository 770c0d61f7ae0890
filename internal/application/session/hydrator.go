package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
)

// Hydrator loads authoritative ledger state for a user.
type Hydrator struct {
	businessRepo    adapter.BusinessRepository
	transactionRepo adapter.TransactionRepository
	cache           adapter.LedgerSnapshotCache
	observer        adapter.LedgerObserver
}

// NewHydrator creates a Hydrator. The cache is optional.
func NewHydrator(
	businessRepo adapter.BusinessRepository,
	transactionRepo adapter.TransactionRepository,
	cache adapter.LedgerSnapshotCache,
	observer adapter.LedgerObserver,
) *Hydrator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hydrator{
		businessRepo:    businessRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
		observer:        observer,
	}
}

// Load returns the user's businesses and transactions, preferring the snapshot cache.
// Cache failures are logged and fall through to the database.
func (h *Hydrator) Load(ctx context.Context, userID uuid.UUID) (*adapter.LedgerSnapshot, error) {
	if h.cache != nil {
		snapshot, err := h.cache.Get(ctx, userID)
		if err != nil {
			slog.Warn("Failed to read ledger snapshot from cache", "user_id", userID, "error", err)
		} else if snapshot != nil {
			h.observer.ObserveHydration("cache")
			return snapshot, nil
		}
	}

	businesses, err := h.businessRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load businesses: %w", err)
	}
	transactions, err := h.transactionRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	h.observer.ObserveHydration("database")

	snapshot := &adapter.LedgerSnapshot{Businesses: businesses, Transactions: transactions}
	if h.cache != nil {
		if err := h.cache.Set(ctx, userID, snapshot); err != nil {
			slog.Warn("Failed to store ledger snapshot in cache", "user_id", userID, "error", err)
		}
	}
	return snapshot, nil
}

// ReloadTransactions fetches the user's full transaction set from the database.
func (h *Hydrator) ReloadTransactions(ctx context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	transactions, err := h.transactionRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transactions: %w", err)
	}
	return transactions, nil
}

// Invalidate drops the cached snapshot after a successful write.
func (h *Hydrator) Invalidate(ctx context.Context, userID uuid.UUID) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, userID); err != nil {
		slog.Warn("Failed to invalidate ledger snapshot", "user_id", userID, "error", err)
	}
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, string) {}
func (nopObserver) ObserveHydration(string)        {}
