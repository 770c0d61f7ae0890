package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/integration/persistence"
	"github.com/multibook/backend/internal/integration/persistence/model"
)

func newTokenRepository(t *testing.T) persistence.TokenRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return persistence.NewTokenRepository(db)
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("issues tokens that validate by type", func(t *testing.T) {
		svc := NewTokenService("secret", TokenDurations{}, newTokenRepository(t))
		pair, err := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != userID || claims.Email != "ana@example.com" {
			t.Errorf("expected claims for %s, got %+v", userID, claims)
		}

		if _, err := svc.ValidateAccessToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected refresh token to be rejected as access token, got %v", err)
		}
		if _, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken); err != nil {
			t.Errorf("expected refresh token to validate, got %v", err)
		}
	})

	t.Run("refresh tokens are tracked and revocable", func(t *testing.T) {
		svc := NewTokenService("secret", TokenDurations{}, newTokenRepository(t))
		pair, _ := svc.GenerateTokenPair(ctx, userID, "ana@example.com")

		valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
		if err != nil || !valid {
			t.Fatalf("expected stored refresh token to be valid, got %v (%v)", valid, err)
		}

		_ = svc.InvalidateAllUserTokens(ctx, userID)
		if valid, _ := svc.IsRefreshTokenValid(ctx, pair.RefreshToken); valid {
			t.Error("expected refresh token to be revoked")
		}
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		issuer := NewTokenService("one", TokenDurations{}, newTokenRepository(t))
		verifier := NewTokenService("two", TokenDurations{}, newTokenRepository(t))
		pair, _ := issuer.GenerateTokenPair(ctx, userID, "ana@example.com")

		if _, err := verifier.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("reports expired tokens", func(t *testing.T) {
		svc := NewTokenService("secret", TokenDurations{Access: time.Nanosecond}, newTokenRepository(t))
		pair, _ := svc.GenerateTokenPair(ctx, userID, "ana@example.com")
		time.Sleep(1100 * time.Millisecond)

		if _, err := svc.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrExpiredToken) {
			t.Errorf("expected ErrExpiredToken, got %v", err)
		}
	})
}

func TestConfirmationTokenService(t *testing.T) {
	ctx := context.Background()
	svc := NewConfirmationTokenService(time.Hour, newTokenRepository(t))
	userID := uuid.New()

	token, err := svc.GenerateConfirmationToken(ctx, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token.Token) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(token.Token))
	}

	consumed, err := svc.ConsumeConfirmationToken(ctx, token.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, consumed.UserID)
	}

	if _, err := svc.ConsumeConfirmationToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidConfirmationToken) {
		t.Errorf("expected ErrInvalidConfirmationToken, got %v", err)
	}
}

func TestPasswordService(t *testing.T) {
	svc := &passwordService{cost: 4}

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := svc.HashPassword("correct horse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.VerifyPassword(hash, "correct horse"); err != nil {
			t.Errorf("expected password to verify, got %v", err)
		}
		if err := svc.VerifyPassword(hash, "wrong horse"); err == nil {
			t.Error("expected mismatch")
		}
	})

	t.Run("empty hash never verifies", func(t *testing.T) {
		if err := svc.VerifyPassword("", ""); err == nil {
			t.Error("expected mismatch for empty hash")
		}
	})

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "short", true},
		{"minimum length", "12345678", false},
		{"too long", strings.Repeat("a", 73), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr && !errors.Is(err, domainerror.ErrWeakPassword) {
				t.Errorf("expected ErrWeakPassword, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestGoogleOAuthProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			_ = r.ParseForm()
			if r.Form.Get("code") != "good-code" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/oauth2/v2/userinfo":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"sub-1","email":"ana@example.com","verified_email":true,"name":"Ana"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewGoogleOAuthProvider(
		GoogleOAuthConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/callback"},
		WithGoogleEndpoints(oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"}, server.URL+"/"),
	)

	t.Run("auth url carries state and client", func(t *testing.T) {
		u, err := url.Parse(provider.AuthCodeURL("state-1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Query().Get("state") != "state-1" || u.Query().Get("client_id") != "client" {
			t.Errorf("expected state and client id in %s", u)
		}
	})

	t.Run("exchange returns the identity", func(t *testing.T) {
		identity, err := provider.Exchange(context.Background(), "good-code")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if identity.Subject != "sub-1" || identity.Email != "ana@example.com" || !identity.EmailVerified {
			t.Errorf("unexpected identity %+v", identity)
		}
	})

	t.Run("bad code fails", func(t *testing.T) {
		if _, err := provider.Exchange(context.Background(), "bad-code"); err == nil {
			t.Error("expected exchange error")
		}
	})
}
