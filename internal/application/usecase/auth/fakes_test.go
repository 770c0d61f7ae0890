package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByGoogleSubject(_ context.Context, subject string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return subject != "" && u.GoogleSubject == subject })
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

type fakePasswordService struct{}

func (fakePasswordService) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

func (fakePasswordService) VerifyPassword(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswordService) ValidatePasswordStrength(p string) error {
	if len(p) < 8 {
		return domainerror.ErrWeakPassword
	}
	return nil
}

type fakeTokenService struct {
	invalidated []string
}

func (s *fakeTokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, _ string) (*adapter.TokenPair, error) {
	return &adapter.TokenPair{AccessToken: "access-" + userID.String(), RefreshToken: "refresh-" + userID.String()}, nil
}

func (s *fakeTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (s *fakeTokenService) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	id, err := uuid.Parse(strings.TrimPrefix(token, "refresh-"))
	if err != nil {
		return nil, domainerror.ErrInvalidToken
	}
	return &adapter.TokenClaims{UserID: id, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *fakeTokenService) InvalidateRefreshToken(_ context.Context, token string) error {
	s.invalidated = append(s.invalidated, token)
	return nil
}

func (s *fakeTokenService) InvalidateAllUserTokens(context.Context, uuid.UUID) error { return nil }

func (s *fakeTokenService) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	for _, t := range s.invalidated {
		if t == token {
			return false, nil
		}
	}
	return true, nil
}

type fakeConfirmationTokens struct {
	tokens map[string]*adapter.EmailConfirmationToken
}

func newFakeConfirmationTokens() *fakeConfirmationTokens {
	return &fakeConfirmationTokens{tokens: map[string]*adapter.EmailConfirmationToken{}}
}

func (f *fakeConfirmationTokens) GenerateConfirmationToken(_ context.Context, userID uuid.UUID, email string) (*adapter.EmailConfirmationToken, error) {
	t := &adapter.EmailConfirmationToken{Token: "tok-" + userID.String(), UserID: userID, Email: email, ExpiresAt: time.Now().Add(time.Hour)}
	f.tokens[t.Token] = t
	return t, nil
}

func (f *fakeConfirmationTokens) ConsumeConfirmationToken(_ context.Context, token string) (*adapter.EmailConfirmationToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, domainerror.ErrInvalidConfirmationToken
	}
	delete(f.tokens, token)
	return t, nil
}

type fakeEmailService struct {
	queued []adapter.QueueSignupConfirmationInput
}

func (f *fakeEmailService) QueueSignupConfirmationEmail(_ context.Context, input adapter.QueueSignupConfirmationInput) error {
	f.queued = append(f.queued, input)
	return nil
}

type fakeOAuthProvider struct {
	identity *adapter.OAuthIdentity
	err      error
}

func (p fakeOAuthProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p fakeOAuthProvider) Exchange(context.Context, string) (*adapter.OAuthIdentity, error) {
	return p.identity, p.err
}

type fakeEvicter struct {
	evicted []uuid.UUID
}

func (f *fakeEvicter) Evict(userID uuid.UUID) {
	f.evicted = append(f.evicted, userID)
}
