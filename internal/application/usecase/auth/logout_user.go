package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
)

// SessionEvicter drops a user's in-memory ledger.
type SessionEvicter interface {
	Evict(userID uuid.UUID)
}

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	UserID       uuid.UUID
	RefreshToken string
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message string
}

// LogoutUserUseCase handles user logout logic.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
	sessions     SessionEvicter
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService, sessions SessionEvicter) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService: tokenService,
		sessions:     sessions,
	}
}

// Execute invalidates the refresh token and drops the user's ledger session.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	if input.RefreshToken != "" {
		// The token may already be invalid
		if err := uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken); err != nil {
			slog.Debug("Refresh token not invalidated on logout", "user_id", input.UserID, "error", err)
		}
	}
	uc.sessions.Evict(input.UserID)

	return &LogoutUserOutput{
		Message: "Successfully logged out",
	}, nil
}
