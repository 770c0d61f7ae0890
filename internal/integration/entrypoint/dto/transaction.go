package dto

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// CreateTransactionRequest represents the request body for adding a transaction.
// Date defaults to today, Type to expense and BusinessID to the selected or first business.
type CreateTransactionRequest struct {
	Date        *civil.Date      `json:"date"`
	Description string           `json:"description" binding:"required,max=255"`
	Category    string           `json:"category" binding:"required,max=100"`
	Type        string           `json:"type" binding:"omitempty,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	BusinessID  string           `json:"business_id"`
}

// UpdateTransactionRequest replaces every mutable field of a transaction.
type UpdateTransactionRequest struct {
	Date        *civil.Date      `json:"date" binding:"required"`
	Description string           `json:"description" binding:"required,max=255"`
	Category    string           `json:"category" binding:"required,max=100"`
	Type        string           `json:"type" binding:"required,oneof=income expense"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	BusinessID  string           `json:"business_id" binding:"required"`
}

// ListTransactionsQuery holds the filter query parameters.
type ListTransactionsQuery struct {
	Search   string `form:"search"`
	Type     string `form:"type"`
	Category string `form:"category"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	BusinessID  string `json:"business_id"`
}

// TotalsResponse represents income, expense and balance.
type TotalsResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// TransactionListResponse is the filtered, date-sorted transaction list.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Categories   []string              `json:"categories"`
	Totals       TotalsResponse        `json:"totals"`
	Selection    string                `json:"selection"`
}

// ToTransactionResponse converts a domain Transaction to a TransactionResponse DTO.
func ToTransactionResponse(t entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    t.Category,
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(2),
		BusinessID:  t.BusinessID,
	}
}

// ToTotalsResponse renders totals with two decimals.
func ToTotalsResponse(t ledger.Totals) TotalsResponse {
	return TotalsResponse{
		Income:  t.Income.StringFixed(2),
		Expense: t.Expense.StringFixed(2),
		Balance: t.Balance.StringFixed(2),
	}
}

// ToTransactionListResponse converts the list use case result.
func ToTransactionListResponse(transactions []entity.Transaction, categories []string, totals ledger.Totals, selection ledger.Selection) TransactionListResponse {
	resp := TransactionListResponse{
		Transactions: make([]TransactionResponse, len(transactions)),
		Categories:   categories,
		Totals:       ToTotalsResponse(totals),
		Selection:    string(selection),
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	for i, t := range transactions {
		resp.Transactions[i] = ToTransactionResponse(t)
	}
	return resp
}
