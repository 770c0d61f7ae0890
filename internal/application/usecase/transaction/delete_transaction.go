package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/ledger"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	UserID        uuid.UUID
	TransactionID string
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	sessions        *session.Manager
	transactionRepo adapter.TransactionRepository
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(sessions *session.Manager, transactionRepo adapter.TransactionRepository) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		sessions:        sessions,
		transactionRepo: transactionRepo,
	}
}

// Execute removes the transaction.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) error {
	return uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "delete_transaction",
		Apply: func(engine *ledger.Engine) error {
			return engine.DeleteTransaction(input.TransactionID)
		},
		Persist: func(ctx context.Context) error {
			return uc.transactionRepo.Delete(ctx, input.UserID, input.TransactionID)
		},
		Resync: true,
	})
}
