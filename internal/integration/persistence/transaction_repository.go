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

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, userID uuid.UUID, transaction entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(userID, transaction)).Error
}

// Update replaces every mutable field of an existing transaction.
func (r *transactionRepository) Update(ctx context.Context, userID uuid.UUID, transaction entity.Transaction) error {
	m := model.TransactionFromEntity(userID, transaction)
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND user_id = ?", transaction.ID, userID).
		Updates(map[string]any{
			"business_id": m.BusinessID,
			"date":        m.Date,
			"description": m.Description,
			"category":    m.Category,
			"type":        m.Type,
			"amount":      m.Amount,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction.
func (r *transactionRepository) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// FindAllByUser returns every transaction of the user in creation order.
func (r *transactionRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	var models []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}
