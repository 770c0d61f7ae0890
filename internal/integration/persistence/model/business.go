// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/domain/entity"
)

// BusinessModel represents the businesses table in the database.
type BusinessModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_businesses_user_position,priority:1;not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Color     string    `gorm:"type:varchar(20);not null;default:'blue'"`
	Position  int       `gorm:"index:idx_businesses_user_position,priority:2;not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the BusinessModel.
func (BusinessModel) TableName() string {
	return "businesses"
}

// ToEntity converts a BusinessModel to a domain Business entity.
func (m *BusinessModel) ToEntity() entity.Business {
	return entity.Business{
		ID:    m.ID,
		Name:  m.Name,
		Color: entity.BusinessColor(m.Color),
	}
}

// BusinessFromEntity creates a BusinessModel owned by userID.
func BusinessFromEntity(userID uuid.UUID, business entity.Business, position int) *BusinessModel {
	now := time.Now().UTC()
	return &BusinessModel{
		ID:        business.ID,
		UserID:    userID,
		Name:      business.Name,
		Color:     string(business.Color),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
