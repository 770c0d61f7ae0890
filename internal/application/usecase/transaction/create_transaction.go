// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// CreateTransactionInput represents the input for transaction creation.
// Date, Type and BusinessID are optional.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Date        *civil.Date
	Description string
	Category    string
	Type        entity.TransactionType
	Amount      decimal.Decimal
	BusinessID  string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction entity.Transaction
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	sessions        *session.Manager
	transactionRepo adapter.TransactionRepository
	now             func() time.Time
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(sessions *session.Manager, transactionRepo adapter.TransactionRepository) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		sessions:        sessions,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// Execute records a transaction. Missing fields default to today, an expense, and the
// selected business (or the first business when every business is selected).
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	var created entity.Transaction

	err := uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "create_transaction",
		Apply: func(engine *ledger.Engine) error {
			var err error
			created, err = engine.AddTransaction(uc.fieldsWithDefaults(engine, input))
			return err
		},
		Persist: func(ctx context.Context) error {
			return uc.transactionRepo.Create(ctx, input.UserID, created)
		},
		Resync: true,
	})
	if err != nil {
		return nil, err
	}

	return &CreateTransactionOutput{Transaction: created}, nil
}

func (uc *CreateTransactionUseCase) fieldsWithDefaults(engine *ledger.Engine, input CreateTransactionInput) ledger.TransactionFields {
	fields := ledger.TransactionFields{
		Description: input.Description,
		Category:    input.Category,
		Type:        input.Type,
		Amount:      input.Amount,
		BusinessID:  input.BusinessID,
	}

	if input.Date != nil {
		fields.Date = *input.Date
	} else {
		fields.Date = civil.DateOf(uc.now())
	}
	if fields.Type == "" {
		fields.Type = entity.TransactionTypeExpense
	}
	if fields.BusinessID == "" {
		if selection := engine.Selection(); !selection.IsAll() {
			fields.BusinessID = string(selection)
		} else if businesses := engine.Businesses(); len(businesses) > 0 {
			fields.BusinessID = businesses[0].ID
		}
	}
	return fields
}
