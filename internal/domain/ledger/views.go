package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/domain/entity"
)

// FilterAll disables the type or category criterion of a Filter.
const FilterAll = "all"

// Totals aggregates a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// BusinessStats aggregates the transactions of one business.
type BusinessStats struct {
	Business entity.Business
	Totals
	Count int
}

// Filter narrows a transaction set. Empty values behave like FilterAll.
type Filter struct {
	SearchText string
	Type       string
	Category   string
}

// VisibleTransactions returns the transactions of the selected business, or all of
// them when every business is selected. Storage order is preserved.
func (e *Engine) VisibleTransactions() []entity.Transaction {
	if e.selection.IsAll() {
		return e.Transactions()
	}
	out := make([]entity.Transaction, 0)
	for _, t := range e.transactions {
		if t.BusinessID == string(e.selection) {
			out = append(out, t)
		}
	}
	return out
}

// PerBusinessStats returns one entry per business in display order, regardless of selection.
func (e *Engine) PerBusinessStats() []BusinessStats {
	stats := make([]BusinessStats, len(e.businesses))
	index := make(map[string]int, len(e.businesses))
	for i, b := range e.businesses {
		stats[i] = BusinessStats{Business: b, Totals: zeroTotals()}
		index[b.ID] = i
	}

	for _, t := range e.transactions {
		i, ok := index[t.BusinessID]
		if !ok {
			continue
		}
		stats[i].Totals = stats[i].Totals.add(t)
		stats[i].Count++
	}
	return stats
}

// CalculateTotals sums income and expense of a set. Balance is income minus expense.
func CalculateTotals(set []entity.Transaction) Totals {
	totals := zeroTotals()
	for _, t := range set {
		totals = totals.add(t)
	}
	return totals
}

// FilterTransactions keeps the transactions matching every criterion of the filter.
// The search text matches description or category as a case-insensitive substring.
func FilterTransactions(set []entity.Transaction, f Filter) []entity.Transaction {
	search := strings.ToLower(f.SearchText)
	out := make([]entity.Transaction, 0, len(set))
	for _, t := range set {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		if !matchesAll(f.Type) && string(t.Type) != f.Type {
			continue
		}
		if !matchesAll(f.Category) && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortedByDateDescending returns a copy ordered most recent first. Equal dates keep their input order.
func SortedByDateDescending(set []entity.Transaction) []entity.Transaction {
	out := make([]entity.Transaction, len(set))
	copy(out, set)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// DistinctCategories returns each category once, in order of first appearance.
func DistinctCategories(set []entity.Transaction) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range set {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

func matchesAll(criterion string) bool {
	return criterion == "" || criterion == FilterAll
}

func zeroTotals() Totals {
	return Totals{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
}

func (t Totals) add(tx entity.Transaction) Totals {
	switch tx.Type {
	case entity.TransactionTypeIncome:
		t.Income = t.Income.Add(tx.Amount)
	case entity.TransactionTypeExpense:
		t.Expense = t.Expense.Add(tx.Amount)
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}
