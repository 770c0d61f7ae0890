package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

// LoginUserInput represents the input for user login.
type LoginUserInput struct {
	Email    string
	Password string
}

// LoginUserOutput represents the output of user login.
type LoginUserOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// LoginUserUseCase handles user login logic.
type LoginUserUseCase struct {
	userRepo                 adapter.UserRepository
	passwordService          adapter.PasswordService
	tokenService             adapter.TokenService
	requireEmailConfirmation bool
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance.
func NewLoginUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	requireEmailConfirmation bool,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:                 userRepo,
		passwordService:          passwordService,
		tokenService:             tokenService,
		requireEmailConfirmation: requireEmailConfirmation,
	}
}

// Execute performs the user login.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	invalid := domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)

	// Same error for unknown email and wrong password
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, invalid
	}
	if user.PasswordHash == "" {
		return nil, invalid
	}
	if err := uc.passwordService.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, invalid
	}

	if uc.requireEmailConfirmation && !user.IsEmailConfirmed() {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeEmailNotConfirmed,
			"confirm your email address before signing in",
			domainerror.ErrEmailNotConfirmed,
		)
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginUserOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}
