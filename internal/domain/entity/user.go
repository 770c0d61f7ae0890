package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User represents an account that owns a ledger.
type User struct {
	ID               uuid.UUID
	Email            string
	Name             string
	PasswordHash     string // Empty for accounts created through Google sign-in
	Provider         AuthProvider
	GoogleSubject    string
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser creates a password-based user whose email is not yet confirmed.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Provider:     AuthProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewGoogleUser creates a user from a verified Google identity.
func NewGoogleUser(email, name, subject string) *User {
	now := time.Now().UTC()
	return &User{
		ID:               uuid.New(),
		Email:            email,
		Name:             name,
		Provider:         AuthProviderGoogle,
		GoogleSubject:    subject,
		EmailConfirmedAt: &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsEmailConfirmed reports whether the user has confirmed their email address.
func (u *User) IsEmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// ConfirmEmail marks the email address as confirmed.
func (u *User) ConfirmEmail(at time.Time) {
	if u.EmailConfirmedAt != nil {
		return
	}
	at = at.UTC()
	u.EmailConfirmedAt = &at
	u.UpdatedAt = at
}
