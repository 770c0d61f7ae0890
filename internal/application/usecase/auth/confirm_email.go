package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

// ConfirmEmailInput represents the input for email confirmation.
type ConfirmEmailInput struct {
	Token string
}

// ConfirmEmailOutput signs the user in after confirmation.
type ConfirmEmailOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// ConfirmEmailUseCase handles the link mailed after sign-up.
type ConfirmEmailUseCase struct {
	userRepo           adapter.UserRepository
	tokenService       adapter.TokenService
	confirmationTokens adapter.EmailConfirmationTokenService
}

// NewConfirmEmailUseCase creates a new ConfirmEmailUseCase instance.
func NewConfirmEmailUseCase(
	userRepo adapter.UserRepository,
	tokenService adapter.TokenService,
	confirmationTokens adapter.EmailConfirmationTokenService,
) *ConfirmEmailUseCase {
	return &ConfirmEmailUseCase{
		userRepo:           userRepo,
		tokenService:       tokenService,
		confirmationTokens: confirmationTokens,
	}
}

// Execute consumes the token and marks the account as confirmed.
func (uc *ConfirmEmailUseCase) Execute(ctx context.Context, input ConfirmEmailInput) (*ConfirmEmailOutput, error) {
	invalid := domainerror.NewAuthError(
		domainerror.ErrCodeInvalidConfirmationToken,
		"invalid or expired confirmation link",
		domainerror.ErrInvalidConfirmationToken,
	)
	if input.Token == "" {
		return nil, invalid
	}

	token, err := uc.confirmationTokens.ConsumeConfirmationToken(ctx, input.Token)
	if err != nil {
		return nil, invalid
	}

	user, err := uc.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.ConfirmEmail(time.Now())
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &ConfirmEmailOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}
