package auth

import (
	"context"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// TokenAuthenticator logs in with a refresh token obtained earlier, typically
// from a CodeAuthenticator.
type TokenAuthenticator struct {
	grant
}

// NewToken returns a TokenAuthenticator holding refreshToken and no access token.
func NewToken(clientID, clientSecret, refreshToken string, opts ...Option) *TokenAuthenticator {
	t := &TokenAuthenticator{grant: newGrant(clientID, clientSecret, opts)}
	t.refreshToken = refreshToken
	return t
}

// Login implements Authenticator. It is a refresh_token grant.
func (a *TokenAuthenticator) Login(ctx context.Context, ep Endpoint) error {
	if a.refreshToken == "" {
		return pkgerrs.Domain("login", pkgerrs.ErrNoRefreshToken, "token authenticator")
	}
	return a.refreshGrant(ctx, ep)
}

// Logout implements Authenticator.
func (a *TokenAuthenticator) Logout(ctx context.Context, ep Endpoint) error {
	return a.logout(ctx, ep)
}

// Refresh implements Authenticator.
func (a *TokenAuthenticator) Refresh(ctx context.Context, ep Endpoint) error {
	return a.refreshGrant(ctx, ep)
}

// NeedsRefresh implements Authenticator.
func (a *TokenAuthenticator) NeedsRefresh() bool {
	return a.refreshToken != "" && a.Expired()
}

// RefreshToken returns the held refresh token.
func (a *TokenAuthenticator) RefreshToken() string {
	return a.refreshToken
}

func (a *TokenAuthenticator) String() string {
	return a.describe("TokenAuthenticator")
}
