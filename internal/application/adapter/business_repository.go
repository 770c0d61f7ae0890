// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/domain/entity"
)

// BusinessRepository defines the interface for business persistence operations.
// Every call is scoped to the owning user.
type BusinessRepository interface {
	// Create stores a new business after the user's existing ones.
	Create(ctx context.Context, userID uuid.UUID, business entity.Business) error

	// Update saves the name and color of an existing business.
	Update(ctx context.Context, userID uuid.UUID, business entity.Business) error

	// Delete removes a business and every transaction that belongs to it.
	Delete(ctx context.Context, userID uuid.UUID, id string) error

	// FindAllByUser returns the user's businesses in display order.
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.Business, error)
}
