package adapters

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/multibook/backend/internal/application/adapter"
)

// GoogleOAuthConfig holds the OAuth client registered with Google.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// googleOAuthProvider implements the adapter.OAuthProvider interface.
type googleOAuthProvider struct {
	config      *oauth2.Config
	apiEndpoint string
}

// GoogleOAuthOption customizes the Google provider.
type GoogleOAuthOption func(*googleOAuthProvider)

// WithGoogleEndpoints points the provider at alternative token and userinfo hosts.
func WithGoogleEndpoints(endpoint oauth2.Endpoint, apiEndpoint string) GoogleOAuthOption {
	return func(p *googleOAuthProvider) {
		p.config.Endpoint = endpoint
		p.apiEndpoint = apiEndpoint
	}
}

// NewGoogleOAuthProvider creates a Google sign-in provider.
func NewGoogleOAuthProvider(cfg GoogleOAuthConfig, opts ...GoogleOAuthOption) adapter.OAuthProvider {
	p := &googleOAuthProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{googleoauth.OpenIDScope, googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthCodeURL returns the consent page URL for the given state.
func (p *googleOAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the signed-in identity.
func (p *googleOAuthProvider) Exchange(ctx context.Context, code string) (*adapter.OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	opts := []option.ClientOption{option.WithTokenSource(p.config.TokenSource(ctx, token))}
	if p.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.apiEndpoint))
	}
	service, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	identity := &adapter.OAuthIdentity{
		Subject: info.Id,
		Email:   info.Email,
		Name:    info.Name,
	}
	if info.VerifiedEmail != nil {
		identity.EmailVerified = *info.VerifiedEmail
	}
	if identity.Name == "" {
		identity.Name = info.GivenName
	}
	return identity, nil
}
