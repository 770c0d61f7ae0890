package adapter

import "context"

// OAuthIdentity is the identity returned by an external sign-in provider.
type OAuthIdentity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// OAuthProvider defines the interface for an authorization-code sign-in flow.
type OAuthProvider interface {
	// AuthCodeURL returns the consent page URL for the given state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the signed-in identity.
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}
