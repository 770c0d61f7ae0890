package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
// Every call is scoped to the owning user.
type TransactionRepository interface {
	// Create stores a new transaction.
	Create(ctx context.Context, userID uuid.UUID, transaction entity.Transaction) error

	// Update replaces every mutable field of an existing transaction.
	Update(ctx context.Context, userID uuid.UUID, transaction entity.Transaction) error

	// Delete removes a transaction.
	Delete(ctx context.Context, userID uuid.UUID, id string) error

	// FindAllByUser returns every transaction of the user in creation order.
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.Transaction, error)
}
