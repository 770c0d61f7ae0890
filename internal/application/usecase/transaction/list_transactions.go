package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/domain/ledger"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID uuid.UUID
	Filter ledger.Filter
}

// ListTransactionsOutput represents the visible, filtered transactions.
type ListTransactionsOutput struct {
	Transactions []entity.Transaction // Most recent first
	Categories   []string             // Distinct categories of the visible set, for filter options
	Totals       ledger.Totals        // Totals of the filtered set
	Selection    ledger.Selection
}

// ListTransactionsUseCase handles transaction listing.
type ListTransactionsUseCase struct {
	sessions *session.Manager
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(sessions *session.Manager) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{sessions: sessions}
}

// Execute filters the visible transactions and sorts them by date, most recent first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	switch input.Filter.Type {
	case "", ledger.FilterAll, string(entity.TransactionTypeIncome), string(entity.TransactionTypeExpense):
	default:
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidTransactionType,
			"type filter must be all, income or expense",
			domainerror.ErrInvalidTransactionType,
		)
	}

	output := &ListTransactionsOutput{}
	err := uc.sessions.View(ctx, input.UserID, func(engine *ledger.Engine) error {
		visible := engine.VisibleTransactions()
		filtered := ledger.FilterTransactions(visible, input.Filter)

		output.Transactions = ledger.SortedByDateDescending(filtered)
		output.Categories = ledger.DistinctCategories(visible)
		output.Totals = ledger.CalculateTotals(filtered)
		output.Selection = engine.Selection()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}
