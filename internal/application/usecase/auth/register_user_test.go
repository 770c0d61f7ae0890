package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainerror "github.com/multibook/backend/internal/domain/error"
)

type registerFixture struct {
	users  *fakeUserRepo
	tokens *fakeTokenService
	confs  *fakeConfirmationTokens
	emails *fakeEmailService
	uc     *RegisterUserUseCase
}

func newRegisterFixture(requireConfirmation bool) *registerFixture {
	f := &registerFixture{
		users:  newFakeUserRepo(),
		tokens: &fakeTokenService{},
		confs:  newFakeConfirmationTokens(),
		emails: &fakeEmailService{},
	}
	f.uc = NewRegisterUserUseCase(f.users, fakePasswordService{}, f.tokens, f.confs, f.emails, RegisterConfig{
		RequireEmailConfirmation: requireConfirmation,
		ConfirmURL:               "https://app.example.com/confirm",
		ConfirmationTTL:          24 * time.Hour,
	})
	return f
}

func TestRegisterUser_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterUserInput
		code  domainerror.AuthErrorCode
	}{
		{"missing email", RegisterUserInput{Password: "password1", ConfirmPassword: "password1"}, domainerror.ErrCodeMissingFields},
		{"invalid email", RegisterUserInput{Email: "nope", Password: "password1", ConfirmPassword: "password1"}, domainerror.ErrCodeInvalidEmail},
		{"mismatched passwords", RegisterUserInput{Email: "a@b.com", Password: "password1", ConfirmPassword: "password2"}, domainerror.ErrCodePasswordMismatch},
		{"weak password", RegisterUserInput{Email: "a@b.com", Password: "short", ConfirmPassword: "short"}, domainerror.ErrCodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegisterFixture(true)
			_, err := f.uc.Execute(context.Background(), tt.input)

			var authErr *domainerror.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, authErr.Code)
			}
		})
	}
}

func TestRegisterUser_RequiresConfirmation(t *testing.T) {
	f := newRegisterFixture(true)

	out, err := f.uc.Execute(context.Background(), RegisterUserInput{
		Email:           " Owner@Example.com ",
		Name:            "Owner",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.ConfirmationRequired || out.Message != ConfirmationMessage {
		t.Errorf("expected confirmation message, got %+v", out)
	}
	if out.AccessToken != "" {
		t.Error("expected no tokens before confirmation")
	}
	if out.User.Email != "owner@example.com" {
		t.Errorf("expected normalized email, got %s", out.User.Email)
	}
	if out.User.IsEmailConfirmed() {
		t.Error("expected unconfirmed user")
	}

	if len(f.emails.queued) != 1 {
		t.Fatalf("expected one queued email, got %d", len(f.emails.queued))
	}
	queued := f.emails.queued[0]
	if !strings.HasPrefix(queued.ConfirmURL, "https://app.example.com/confirm?token=tok-") {
		t.Errorf("unexpected confirm url %s", queued.ConfirmURL)
	}
	if queued.ExpiresIn != "24 hours" {
		t.Errorf("expected 24 hours, got %s", queued.ExpiresIn)
	}

	_, err = f.uc.Execute(context.Background(), RegisterUserInput{
		Email: "owner@example.com", Password: "password1", ConfirmPassword: "password1",
	})
	if !errors.Is(err, domainerror.ErrEmailAlreadyExists) {
		t.Errorf("expected duplicate email error, got %v", err)
	}
}

func TestRegisterUser_WithoutConfirmationIssuesTokens(t *testing.T) {
	f := newRegisterFixture(false)

	out, err := f.uc.Execute(context.Background(), RegisterUserInput{
		Email: "owner@example.com", Password: "password1", ConfirmPassword: "password1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Error("expected tokens")
	}
	if !out.User.IsEmailConfirmed() {
		t.Error("expected confirmed user")
	}
	if len(f.emails.queued) != 0 {
		t.Error("expected no confirmation email")
	}
}
