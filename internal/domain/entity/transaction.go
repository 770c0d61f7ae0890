package entity

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether the type is income or expense.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Transaction is a single income or expense entry recorded against a business.
type Transaction struct {
	ID          string
	Date        civil.Date
	Description string
	Category    string
	Type        TransactionType
	Amount      decimal.Decimal // Always non-negative, the sign comes from Type
	BusinessID  string
}

// SignedAmount returns the amount with the sign implied by the transaction type.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
