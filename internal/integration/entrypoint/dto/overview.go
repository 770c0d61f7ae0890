package dto

import (
	"github.com/multibook/backend/internal/application/usecase/overview"
)

// FormattedTotalsResponse holds display strings in the configured currency.
type FormattedTotalsResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// BusinessOverviewResponse holds the totals of one business.
type BusinessOverviewResponse struct {
	Business         BusinessResponse        `json:"business"`
	Totals           TotalsResponse          `json:"totals"`
	Formatted        FormattedTotalsResponse `json:"formatted"`
	TransactionCount int                     `json:"transaction_count"`
}

// OverviewResponse holds the headline totals and the per-business breakdown.
type OverviewResponse struct {
	Selection  string                     `json:"selection"`
	Currency   string                     `json:"currency"`
	Totals     TotalsResponse             `json:"totals"`
	Formatted  FormattedTotalsResponse    `json:"formatted"`
	Businesses []BusinessOverviewResponse `json:"businesses"`
}

// ToOverviewResponse converts the overview use case result.
func ToOverviewResponse(out *overview.GetOverviewOutput) OverviewResponse {
	resp := OverviewResponse{
		Selection:  string(out.Selection),
		Currency:   string(out.Currency),
		Totals:     ToTotalsResponse(out.Totals),
		Formatted:  toFormatted(out.Formatted),
		Businesses: make([]BusinessOverviewResponse, len(out.Businesses)),
	}
	for i, b := range out.Businesses {
		resp.Businesses[i] = BusinessOverviewResponse{
			Business:         ToBusinessResponse(b.Business),
			Totals:           ToTotalsResponse(b.Totals),
			Formatted:        toFormatted(b.Formatted),
			TransactionCount: b.Count,
		}
	}
	return resp
}

func toFormatted(f overview.FormattedTotals) FormattedTotalsResponse {
	return FormattedTotalsResponse{
		Income:  f.Income,
		Expense: f.Expense,
		Balance: f.Balance,
	}
}
