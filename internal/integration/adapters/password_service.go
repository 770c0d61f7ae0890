package adapters

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/multibook/backend/internal/application/adapter"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// passwordService implements the adapter.PasswordService interface.
type passwordService struct {
	cost int
}

// NewPasswordService creates a new password service instance.
func NewPasswordService() adapter.PasswordService {
	return &passwordService{cost: bcryptCost}
}

// HashPassword hashes a plain text password using bcrypt.
func (s *passwordService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword compares a plain text password with a hashed password.
// Accounts without a password hash (Google sign-in only) never match.
func (s *passwordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordStrength validates if a password meets minimum requirements.
func (s *passwordService) ValidatePasswordStrength(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return fmt.Errorf("%w: must be at least %d characters long", domainerror.ErrWeakPassword, minPasswordLength)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: must be at most %d bytes long", domainerror.ErrWeakPassword, maxPasswordBytes)
	}
	return nil
}
