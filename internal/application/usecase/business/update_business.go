package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// UpdateBusinessInput represents the input for renaming or recoloring a business.
type UpdateBusinessInput struct {
	UserID     uuid.UUID
	BusinessID string
	Name       *string
	Color      *entity.BusinessColor
}

// UpdateBusinessOutput represents the output of a business update.
type UpdateBusinessOutput struct {
	Business entity.Business
}

// UpdateBusinessUseCase handles business update logic.
type UpdateBusinessUseCase struct {
	sessions     *session.Manager
	businessRepo adapter.BusinessRepository
}

// NewUpdateBusinessUseCase creates a new UpdateBusinessUseCase instance.
func NewUpdateBusinessUseCase(sessions *session.Manager, businessRepo adapter.BusinessRepository) *UpdateBusinessUseCase {
	return &UpdateBusinessUseCase{
		sessions:     sessions,
		businessRepo: businessRepo,
	}
}

// Execute updates the business. Fields left nil keep their current value.
func (uc *UpdateBusinessUseCase) Execute(ctx context.Context, input UpdateBusinessInput) (*UpdateBusinessOutput, error) {
	var updated entity.Business

	err := uc.sessions.Mutate(ctx, input.UserID, session.Mutation{
		Operation: "update_business",
		Apply: func(engine *ledger.Engine) error {
			name, color := "", entity.BusinessColor("")
			if current, ok := engine.Business(input.BusinessID); ok {
				name, color = current.Name, current.Color
			}
			if input.Name != nil {
				name = *input.Name
			}
			if input.Color != nil {
				color = *input.Color
			}

			var err error
			updated, err = engine.EditBusiness(input.BusinessID, name, color)
			return err
		},
		Persist: func(ctx context.Context) error {
			return uc.businessRepo.Update(ctx, input.UserID, updated)
		},
	})
	if err != nil {
		return nil, err
	}

	return &UpdateBusinessOutput{Business: updated}, nil
}
