package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// ListBusinessesInput represents the input for listing businesses.
type ListBusinessesInput struct {
	UserID uuid.UUID
}

// ListBusinessesOutput contains the businesses in display order and the current selection.
type ListBusinessesOutput struct {
	Businesses []entity.Business
	Selection  ledger.Selection
}

// ListBusinessesUseCase handles listing businesses.
type ListBusinessesUseCase struct {
	sessions *session.Manager
}

// NewListBusinessesUseCase creates a new ListBusinessesUseCase instance.
func NewListBusinessesUseCase(sessions *session.Manager) *ListBusinessesUseCase {
	return &ListBusinessesUseCase{sessions: sessions}
}

// Execute returns the user's businesses.
func (uc *ListBusinessesUseCase) Execute(ctx context.Context, input ListBusinessesInput) (*ListBusinessesOutput, error) {
	output := &ListBusinessesOutput{}
	err := uc.sessions.View(ctx, input.UserID, func(engine *ledger.Engine) error {
		output.Businesses = engine.Businesses()
		output.Selection = engine.Selection()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}
