package business

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/ledger"
)

// DeleteBusinessInput represents the input for business deletion.
type DeleteBusinessInput struct {
	UserID     uuid.UUID
	BusinessID string
}

// DeleteBusinessOutput represents the output of business deletion.
type DeleteBusinessOutput struct {
	RemovedTransactions int
	Selection           ledger.Selection
}

// DeleteBusinessUseCase handles business deletion with cascade to its transactions.
type DeleteBusinessUseCase struct {
	sessions     *session.Manager
	businessRepo adapter.BusinessRepository
}

// NewDeleteBusinessUseCase creates a new DeleteBusinessUseCase instance.
func NewDeleteBusinessUseCase(sessions *session.Manager, businessRepo adapter.BusinessRepository) *DeleteBusinessUseCase {
	return &DeleteBusinessUseCase{
		sessions:     sessions,
		businessRepo: businessRepo,
	}
}

// Execute removes the business and every transaction that belongs to it.
func (uc *DeleteBusinessUseCase) Execute(ctx context.Context, input DeleteBusinessInput) (*DeleteBusinessOutput, error) {
	output := &DeleteBusinessOutput{}

	err := uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "delete_business",
		Apply: func(engine *ledger.Engine) error {
			before := len(engine.Transactions())
			if err := engine.DeleteBusiness(input.BusinessID); err != nil {
				return err
			}
			output.RemovedTransactions = before - len(engine.Transactions())
			output.Selection = engine.Selection()
			return nil
		},
		Persist: func(ctx context.Context) error {
			return uc.businessRepo.Delete(ctx, input.UserID, input.BusinessID)
		},
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Business deleted",
		"user_id", input.UserID,
		"business_id", input.BusinessID,
		"removed_transactions", output.RemovedTransactions,
	)
	return output, nil
}
