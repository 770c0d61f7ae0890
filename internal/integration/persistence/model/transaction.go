package model

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/multibook/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	BusinessID  string          `gorm:"type:varchar(36);index;not null"`
	Date        time.Time       `gorm:"type:date;not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Type        string          `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() entity.Transaction {
	return entity.Transaction{
		ID:          m.ID,
		Date:        civil.DateOf(m.Date.UTC()),
		Description: m.Description,
		Category:    m.Category,
		Type:        entity.TransactionType(m.Type),
		Amount:      m.Amount,
		BusinessID:  m.BusinessID,
	}
}

// TransactionFromEntity creates a TransactionModel owned by userID.
func TransactionFromEntity(userID uuid.UUID, transaction entity.Transaction) *TransactionModel {
	now := time.Now().UTC()
	return &TransactionModel{
		ID:          transaction.ID,
		UserID:      userID,
		BusinessID:  transaction.BusinessID,
		Date:        transaction.Date.In(time.UTC),
		Description: transaction.Description,
		Category:    transaction.Category,
		Type:        string(transaction.Type),
		Amount:      transaction.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
