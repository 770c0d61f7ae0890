package adapters

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/integration/persistence"
)

const defaultConfirmationTokenDuration = 24 * time.Hour

// confirmationTokenService implements the adapter.EmailConfirmationTokenService interface.
type confirmationTokenService struct {
	ttl             time.Duration
	tokenRepository persistence.TokenRepository
}

// NewConfirmationTokenService creates a new email confirmation token service instance.
func NewConfirmationTokenService(ttl time.Duration, tokenRepository persistence.TokenRepository) adapter.EmailConfirmationTokenService {
	if ttl <= 0 {
		ttl = defaultConfirmationTokenDuration
	}
	return &confirmationTokenService{
		ttl:             ttl,
		tokenRepository: tokenRepository,
	}
}

// GenerateConfirmationToken creates and stores a random single-use token.
func (s *confirmationTokenService) GenerateConfirmationToken(ctx context.Context, userID uuid.UUID, email string) (*adapter.EmailConfirmationToken, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().UTC().Add(s.ttl)

	if err := s.tokenRepository.SaveConfirmationToken(ctx, token, userID, email, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save confirmation token: %w", err)
	}

	return &adapter.EmailConfirmationToken{
		Token:     token,
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt,
	}, nil
}

// ConsumeConfirmationToken validates the token and marks it as used.
func (s *confirmationTokenService) ConsumeConfirmationToken(ctx context.Context, token string) (*adapter.EmailConfirmationToken, error) {
	consumed, err := s.tokenRepository.ConsumeConfirmationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &adapter.EmailConfirmationToken{
		Token:     consumed.Token,
		UserID:    consumed.UserID,
		Email:     consumed.Email,
		ExpiresAt: consumed.ExpiresAt,
	}, nil
}
