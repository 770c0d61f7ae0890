package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

func TestLoginUser(t *testing.T) {
	users := newFakeUserRepo()
	confirmed := entity.NewUser("confirmed@example.com", "C", "hashed:password1")
	confirmed.ConfirmEmail(time.Now())
	pending := entity.NewUser("pending@example.com", "P", "hashed:password1")
	google := entity.NewGoogleUser("google@example.com", "G", "sub-1")
	for _, u := range []*entity.User{confirmed, pending, google} {
		_ = users.Create(context.Background(), u)
	}

	uc := NewLoginUserUseCase(users, fakePasswordService{}, &fakeTokenService{}, true)

	tests := []struct {
		name     string
		input    LoginUserInput
		expected error
	}{
		{"valid credentials", LoginUserInput{Email: "Confirmed@example.com", Password: "password1"}, nil},
		{"wrong password", LoginUserInput{Email: "confirmed@example.com", Password: "nope"}, domainerror.ErrInvalidCredentials},
		{"unknown email", LoginUserInput{Email: "ghost@example.com", Password: "password1"}, domainerror.ErrInvalidCredentials},
		{"unconfirmed email", LoginUserInput{Email: "pending@example.com", Password: "password1"}, domainerror.ErrEmailNotConfirmed},
		{"google account has no password", LoginUserInput{Email: "google@example.com", Password: ""}, domainerror.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.input)
			if tt.expected == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.AccessToken == "" {
					t.Error("expected access token")
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestRefreshToken_SingleUse(t *testing.T) {
	tokens := &fakeTokenService{}
	uc := NewRefreshTokenUseCase(tokens)
	user := entity.NewUser("a@b.com", "A", "x")
	refresh := "refresh-" + user.ID.String()

	if _, err := uc.Execute(context.Background(), RefreshTokenInput{RefreshToken: refresh}); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	_, err := uc.Execute(context.Background(), RefreshTokenInput{RefreshToken: refresh})
	if !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected revoked token error, got %v", err)
	}
}

func TestLogoutUser_EvictsSession(t *testing.T) {
	tokens := &fakeTokenService{}
	evicter := &fakeEvicter{}
	uc := NewLogoutUserUseCase(tokens, evicter)
	user := entity.NewUser("a@b.com", "A", "x")

	out, err := uc.Execute(context.Background(), LogoutUserInput{UserID: user.ID, RefreshToken: "refresh-token"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Message == "" {
		t.Error("expected message")
	}
	if len(tokens.invalidated) != 1 || tokens.invalidated[0] != "refresh-token" {
		t.Errorf("expected refresh token invalidated, got %v", tokens.invalidated)
	}
	if len(evicter.evicted) != 1 || evicter.evicted[0] != user.ID {
		t.Errorf("expected session eviction, got %v", evicter.evicted)
	}
}
