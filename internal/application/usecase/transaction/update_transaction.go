package transaction

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// UpdateTransactionInput carries the full replacement field set.
type UpdateTransactionInput struct {
	UserID        uuid.UUID
	TransactionID string
	Date          civil.Date
	Description   string
	Category      string
	Type          entity.TransactionType
	Amount        decimal.Decimal
	BusinessID    string
}

// UpdateTransactionOutput represents the output of a transaction update.
type UpdateTransactionOutput struct {
	Transaction entity.Transaction
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	sessions        *session.Manager
	transactionRepo adapter.TransactionRepository
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(sessions *session.Manager, transactionRepo adapter.TransactionRepository) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		sessions:        sessions,
		transactionRepo: transactionRepo,
	}
}

// Execute replaces every mutable field of the transaction, including its business.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	var updated entity.Transaction

	err := uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "update_transaction",
		Apply: func(engine *ledger.Engine) error {
			var err error
			updated, err = engine.EditTransaction(input.TransactionID, ledger.TransactionFields{
				Date:        input.Date,
				Description: input.Description,
				Category:    input.Category,
				Type:        input.Type,
				Amount:      input.Amount,
				BusinessID:  input.BusinessID,
			})
			return err
		},
		Persist: func(ctx context.Context) error {
			return uc.transactionRepo.Update(ctx, input.UserID, updated)
		},
	})
	if err != nil {
		return nil, err
	}

	return &UpdateTransactionOutput{Transaction: updated}, nil
}
