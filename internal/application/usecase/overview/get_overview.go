// Package overview contains the balance overview use case.
package overview

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/session"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
	"github.com/multibook/backend/internal/domain/valueobject"
)

// GetOverviewInput represents the input for the overview.
type GetOverviewInput struct {
	UserID uuid.UUID
}

// FormattedTotals holds display strings for a Totals value.
type FormattedTotals struct {
	Income  string
	Expense string
	Balance string
}

// BusinessOverview is the per-business block of the overview.
type BusinessOverview struct {
	Business  entity.Business
	Totals    ledger.Totals
	Formatted FormattedTotals
	Count     int
}

// GetOverviewOutput contains the headline balance of the selection and the
// stats of every business regardless of the selection.
type GetOverviewOutput struct {
	Selection  ledger.Selection
	Currency   valueobject.Currency
	Totals     ledger.Totals
	Formatted  FormattedTotals
	Businesses []BusinessOverview
}

// GetOverviewUseCase builds the balance overview.
type GetOverviewUseCase struct {
	sessions *session.Manager
	currency valueobject.Currency
}

// NewGetOverviewUseCase creates a new GetOverviewUseCase instance.
func NewGetOverviewUseCase(sessions *session.Manager, currency valueobject.Currency) *GetOverviewUseCase {
	return &GetOverviewUseCase{
		sessions: sessions,
		currency: currency,
	}
}

// Execute computes the overview.
func (uc *GetOverviewUseCase) Execute(ctx context.Context, input GetOverviewInput) (*GetOverviewOutput, error) {
	output := &GetOverviewOutput{Currency: uc.currency}

	err := uc.sessions.View(ctx, input.UserID, func(engine *ledger.Engine) error {
		output.Selection = engine.Selection()
		output.Totals = ledger.CalculateTotals(engine.VisibleTransactions())
		output.Formatted = uc.format(output.Totals)

		stats := engine.PerBusinessStats()
		output.Businesses = make([]BusinessOverview, len(stats))
		for i, s := range stats {
			output.Businesses[i] = BusinessOverview{
				Business:  s.Business,
				Totals:    s.Totals,
				Formatted: uc.format(s.Totals),
				Count:     s.Count,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (uc *GetOverviewUseCase) format(t ledger.Totals) FormattedTotals {
	return FormattedTotals{
		Income:  valueobject.FormatAmount(t.Income, uc.currency),
		Expense: valueobject.FormatAmount(t.Expense, uc.currency),
		Balance: valueobject.FormatAmount(t.Balance, uc.currency),
	}
}
