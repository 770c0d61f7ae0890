package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/ledger"
)

// SelectBusinessInput represents the input for changing the selection.
type SelectBusinessInput struct {
	UserID    uuid.UUID
	Selection ledger.Selection // ledger.SelectAll or a business id
}

// SelectBusinessOutput represents the selection after the change.
type SelectBusinessOutput struct {
	Selection ledger.Selection
}

// SelectBusinessUseCase changes which business the balances and lists are scoped to.
// Selection lives only in the session and is never persisted.
type SelectBusinessUseCase struct {
	sessions *session.Manager
}

// NewSelectBusinessUseCase creates a new SelectBusinessUseCase instance.
func NewSelectBusinessUseCase(sessions *session.Manager) *SelectBusinessUseCase {
	return &SelectBusinessUseCase{sessions: sessions}
}

// Execute updates the selection.
func (uc *SelectBusinessUseCase) Execute(ctx context.Context, input SelectBusinessInput) (*SelectBusinessOutput, error) {
	output := &SelectBusinessOutput{}
	err := uc.sessions.View(ctx, input.UserID, func(engine *ledger.Engine) error {
		if err := engine.SetSelection(input.Selection); err != nil {
			return err
		}
		output.Selection = engine.Selection()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}
