package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string     `gorm:"type:varchar(100);not null"`
	PasswordHash     string     `gorm:"type:varchar(255)"`
	Provider         string     `gorm:"type:varchar(20);not null;default:'password'"`
	GoogleSubject    *string    `gorm:"type:varchar(255);uniqueIndex"`
	EmailConfirmedAt *time.Time `gorm:"column:email_confirmed_at"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	user := &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		Provider:         entity.AuthProvider(m.Provider),
		EmailConfirmedAt: m.EmailConfirmedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.GoogleSubject != nil {
		user.GoogleSubject = *m.GoogleSubject
	}
	return user
}

// FromEntity creates a UserModel from a domain User entity.
func FromEntity(user *entity.User) *UserModel {
	m := &UserModel{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		Provider:         string(user.Provider),
		EmailConfirmedAt: user.EmailConfirmedAt,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
	// NULL keeps the unique index from colliding across password accounts.
	if user.GoogleSubject != "" {
		subject := user.GoogleSubject
		m.GoogleSubject = &subject
	}
	return m
}

// RefreshTokenModel represents the refresh_tokens table for token invalidation tracking.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token       string    `gorm:"type:varchar(500);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Invalidated bool      `gorm:"default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// EmailConfirmationTokenModel represents the email_confirmation_tokens table.
type EmailConfirmationTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token     string     `gorm:"type:varchar(128);uniqueIndex;not null"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Email     string     `gorm:"type:varchar(255);not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for the EmailConfirmationTokenModel.
func (EmailConfirmationTokenModel) TableName() string {
	return "email_confirmation_tokens"
}
