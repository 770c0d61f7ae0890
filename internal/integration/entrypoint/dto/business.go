package dto

import (
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
)

// CreateBusinessRequest represents the request body for creating a business.
type CreateBusinessRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color"`
}

// UpdateBusinessRequest represents the request body for editing a business. Omitted fields keep their value.
type UpdateBusinessRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Color *string `json:"color"`
}

// SelectBusinessRequest selects one business or "all".
type SelectBusinessRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
}

// BusinessResponse represents a business in API responses.
type BusinessResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// BusinessListResponse lists the user's businesses in display order.
type BusinessListResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
	Selection  string             `json:"selection"`
	Palette    []string           `json:"palette"`
}

// DeleteBusinessResponse reports the cascade of a business deletion.
type DeleteBusinessResponse struct {
	RemovedTransactions int    `json:"removed_transactions"`
	Selection           string `json:"selection"`
}

// SelectionResponse reports the current selection.
type SelectionResponse struct {
	Selection string `json:"selection"`
}

// ToBusinessResponse converts a domain Business to a BusinessResponse DTO.
func ToBusinessResponse(b entity.Business) BusinessResponse {
	return BusinessResponse{
		ID:    b.ID,
		Name:  b.Name,
		Color: string(b.Color),
	}
}

// ToBusinessListResponse builds the list response including the color palette.
func ToBusinessListResponse(businesses []entity.Business, selection ledger.Selection) BusinessListResponse {
	resp := BusinessListResponse{
		Businesses: make([]BusinessResponse, len(businesses)),
		Selection:  string(selection),
		Palette:    make([]string, len(entity.BusinessPalette)),
	}
	for i, b := range businesses {
		resp.Businesses[i] = ToBusinessResponse(b)
	}
	for i, c := range entity.BusinessPalette {
		resp.Palette[i] = string(c)
	}
	return resp
}
