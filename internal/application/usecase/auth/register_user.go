// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ConfirmationMessage is returned after sign-up when the account still needs confirming.
const ConfirmationMessage = "Check your email to confirm your account"

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
}

// RegisterUserOutput represents the output of user registration.
// Tokens are only issued when email confirmation is not required.
type RegisterUserOutput struct {
	User                 *entity.User
	Message              string
	ConfirmationRequired bool
	AccessToken          string
	RefreshToken         string
}

// RegisterConfig controls the sign-up flow.
type RegisterConfig struct {
	RequireEmailConfirmation bool
	ConfirmURL               string // Token is appended as ?token=
	ConfirmationTTL          time.Duration
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	userRepo           adapter.UserRepository
	passwordService    adapter.PasswordService
	tokenService       adapter.TokenService
	confirmationTokens adapter.EmailConfirmationTokenService
	emailService       adapter.EmailService
	config             RegisterConfig
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	confirmationTokens adapter.EmailConfirmationTokenService,
	emailService adapter.EmailService,
	config RegisterConfig,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:           userRepo,
		passwordService:    passwordService,
		tokenService:       tokenService,
		confirmationTokens: confirmationTokens,
		emailService:       emailService,
		config:             config,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Email == "" || input.Password == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"email and password are required",
			domainerror.ErrInvalidCredentials,
		)
	}

	if !emailRegex.MatchString(input.Email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	if input.Password != input.ConfirmPassword {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodePasswordMismatch,
			"passwords do not match",
			domainerror.ErrPasswordMismatch,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"password does not meet minimum requirements",
			domainerror.ErrWeakPassword,
		)
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeEmailExists,
			"email already exists",
			domainerror.ErrEmailAlreadyExists,
		)
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(input.Email, strings.TrimSpace(input.Name), passwordHash)
	if !uc.config.RequireEmailConfirmation {
		user.ConfirmEmail(time.Now())
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if uc.config.RequireEmailConfirmation {
		uc.sendConfirmation(ctx, user)
		return &RegisterUserOutput{
			User:                 user,
			Message:              ConfirmationMessage,
			ConfirmationRequired: true,
		}, nil
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &RegisterUserOutput{
		User:         user,
		Message:      "Account created",
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}

// sendConfirmation queues the confirmation email. The account already exists at this
// point, so failures are logged rather than returned.
func (uc *RegisterUserUseCase) sendConfirmation(ctx context.Context, user *entity.User) {
	token, err := uc.confirmationTokens.GenerateConfirmationToken(ctx, user.ID, user.Email)
	if err != nil {
		slog.Error("Failed to generate confirmation token", "user_id", user.ID, "error", err)
		return
	}

	err = uc.emailService.QueueSignupConfirmationEmail(ctx, adapter.QueueSignupConfirmationInput{
		UserEmail:  user.Email,
		UserName:   user.Name,
		ConfirmURL: uc.config.ConfirmURL + "?token=" + token.Token,
		ExpiresIn:  formatTTL(uc.config.ConfirmationTTL),
	})
	if err != nil {
		slog.Error("Failed to queue confirmation email", "user_id", user.ID, "error", err)
	}
}

func formatTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}
