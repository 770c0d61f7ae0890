// Package business contains business-related use cases.
package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// CreateBusinessInput represents the input for business creation.
type CreateBusinessInput struct {
	UserID uuid.UUID
	Name   string
	Color  entity.BusinessColor // Empty means the default color
}

// CreateBusinessOutput represents the output of business creation.
type CreateBusinessOutput struct {
	Business entity.Business
}

// CreateBusinessUseCase handles business creation logic.
type CreateBusinessUseCase struct {
	sessions     *session.Manager
	businessRepo adapter.BusinessRepository
}

// NewCreateBusinessUseCase creates a new CreateBusinessUseCase instance.
func NewCreateBusinessUseCase(sessions *session.Manager, businessRepo adapter.BusinessRepository) *CreateBusinessUseCase {
	return &CreateBusinessUseCase{
		sessions:     sessions,
		businessRepo: businessRepo,
	}
}

// Execute appends a business to the user's ledger and stores it.
func (uc *CreateBusinessUseCase) Execute(ctx context.Context, input CreateBusinessInput) (*CreateBusinessOutput, error) {
	var created entity.Business

	err := uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "create_business",
		Apply: func(engine *ledger.Engine) error {
			var err error
			created, err = engine.AddBusiness(input.Name, input.Color)
			return err
		},
		Persist: func(ctx context.Context) error {
			return uc.businessRepo.Create(ctx, input.UserID, created)
		},
	})
	if err != nil {
		return nil, err
	}

	return &CreateBusinessOutput{Business: created}, nil
}
