package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

// GoogleLoginInput carries the authorization code returned by Google.
type GoogleLoginInput struct {
	Code string
}

// GoogleLoginOutput represents the output of a Google sign-in.
type GoogleLoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
	Created      bool
}

// GoogleLoginUseCase signs users in with Google, creating or linking accounts.
type GoogleLoginUseCase struct {
	provider     adapter.OAuthProvider
	userRepo     adapter.UserRepository
	tokenService adapter.TokenService
}

// NewGoogleLoginUseCase creates a new GoogleLoginUseCase instance.
// A nil provider disables Google sign-in.
func NewGoogleLoginUseCase(
	provider adapter.OAuthProvider,
	userRepo adapter.UserRepository,
	tokenService adapter.TokenService,
) *GoogleLoginUseCase {
	return &GoogleLoginUseCase{
		provider:     provider,
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// AuthURL returns the Google consent URL and the state value the client must echo back.
func (uc *GoogleLoginUseCase) AuthURL() (url, state string, err error) {
	if uc.provider == nil {
		return "", "", notConfigured()
	}
	state = uuid.NewString()
	return uc.provider.AuthCodeURL(state), state, nil
}

// Execute exchanges the code and signs the user in.
func (uc *GoogleLoginUseCase) Execute(ctx context.Context, input GoogleLoginInput) (*GoogleLoginOutput, error) {
	if uc.provider == nil {
		return nil, notConfigured()
	}
	if input.Code == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"authorization code is required",
			domainerror.ErrOAuthExchangeFailed,
		)
	}

	identity, err := uc.provider.Exchange(ctx, input.Code)
	if err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeOAuthExchangeFailed,
			"google sign-in failed",
			errors.Join(domainerror.ErrOAuthExchangeFailed, err),
		)
	}
	if !identity.EmailVerified || identity.Email == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeOAuthExchangeFailed,
			"google account email is not verified",
			domainerror.ErrOAuthExchangeFailed,
		)
	}

	user, created, err := uc.findOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &GoogleLoginOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
		Created:      created,
	}, nil
}

func (uc *GoogleLoginUseCase) findOrCreate(ctx context.Context, identity *adapter.OAuthIdentity) (*entity.User, bool, error) {
	user, err := uc.userRepo.FindByGoogleSubject(ctx, identity.Subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domainerror.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to find user by google subject: %w", err)
	}

	email := strings.ToLower(identity.Email)
	user, err = uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// Existing password account: link it and treat the email as confirmed.
		user.GoogleSubject = identity.Subject
		user.ConfirmEmail(time.Now())
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to link google account: %w", err)
		}
		return user, false, nil
	case errors.Is(err, domainerror.ErrUserNotFound):
		user = entity.NewGoogleUser(email, identity.Name, identity.Subject)
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		return user, true, nil
	default:
		return nil, false, fmt.Errorf("failed to find user by email: %w", err)
	}
}

func notConfigured() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeOAuthNotConfigured,
		"google sign-in is not configured",
		domainerror.ErrOAuthNotConfigured,
	)
}
