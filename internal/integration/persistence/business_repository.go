// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/integration/persistence/model"
)

// businessRepository implements the adapter.BusinessRepository interface.
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository instance.
func NewBusinessRepository(db *gorm.DB) adapter.BusinessRepository {
	return &businessRepository{
		db: db,
	}
}

// Create stores a new business after the user's existing ones.
func (r *businessRepository) Create(ctx context.Context, userID uuid.UUID, business entity.Business) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.BusinessModel{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		return tx.Create(model.BusinessFromEntity(userID, business, next)).Error
	})
}

// Update saves the name and color of an existing business.
func (r *businessRepository) Update(ctx context.Context, userID uuid.UUID, business entity.Business) error {
	result := r.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("id = ? AND user_id = ?", business.ID, userID).
		Updates(map[string]any{
			"name":       business.Name,
			"color":      string(business.Color),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBusinessNotFound
	}
	return nil
}

// Delete removes a business and its transactions in a single database transaction.
func (r *businessRepository) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ? AND user_id = ?", id, userID).
			Delete(&model.TransactionModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.BusinessModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrBusinessNotFound
		}
		return nil
	})
}

// FindAllByUser returns the user's businesses in display order.
func (r *businessRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.Business, error) {
	var models []model.BusinessModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	businesses := make([]entity.Business, len(models))
	for i := range models {
		businesses[i] = models[i].ToEntity()
	}
	return businesses, nil
}
