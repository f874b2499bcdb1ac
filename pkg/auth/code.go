package auth

import (
	"context"
	"net/url"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// CodeAuthenticator exchanges the code returned to an application's redirect
// URI. A "permanent" authorization also yields a refresh token, which is kept
// and used for every later refresh.
type CodeAuthenticator struct {
	grant
	code        string
	redirectURI string
}

// NewCode returns a CodeAuthenticator for code. Reddit appends "#_" to the
// redirect; it is trimmed here.
func NewCode(clientID, clientSecret, code, redirectURI string, opts ...Option) *CodeAuthenticator {
	return &CodeAuthenticator{
		grant:       newGrant(clientID, clientSecret, opts),
		code:        strings.TrimSuffix(code, "#_"),
		redirectURI: redirectURI,
	}
}

// Login implements Authenticator.
func (a *CodeAuthenticator) Login(ctx context.Context, ep Endpoint) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", a.code)
	form.Set("redirect_uri", a.redirectURI)
	return a.exchange(ctx, ep, form)
}

// Logout implements Authenticator.
func (a *CodeAuthenticator) Logout(ctx context.Context, ep Endpoint) error {
	return a.logout(ctx, ep)
}

// Refresh implements Authenticator.
func (a *CodeAuthenticator) Refresh(ctx context.Context, ep Endpoint) error {
	return a.refreshGrant(ctx, ep)
}

// NeedsRefresh implements Authenticator.
func (a *CodeAuthenticator) NeedsRefresh() bool {
	return a.refreshToken != "" && a.Expired()
}

// RefreshToken returns the refresh token captured at login, if any.
func (a *CodeAuthenticator) RefreshToken() string {
	return a.refreshToken
}

// ToTokenAuthenticator hands the captured refresh token, and the current
// access token, to a TokenAuthenticator. The code itself is single use.
func (a *CodeAuthenticator) ToTokenAuthenticator() (*TokenAuthenticator, error) {
	if a.refreshToken == "" {
		return nil, pkgerrs.Domain("convert code authenticator", pkgerrs.ErrNoRefreshToken, "authorization was not permanent or login has not run")
	}
	t := &TokenAuthenticator{grant: a.grant}
	t.token = a.Token()
	return t, nil
}

func (a *CodeAuthenticator) String() string {
	return a.describe("CodeAuthenticator", "redirect_uri", a.redirectURI)
}
