package auth

import (
	"context"
	"net/url"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// PasswordAuthenticator uses the password grant of a "script" application.
// It refreshes by re-submitting the username and password.
type PasswordAuthenticator struct {
	grant
	username string
	password string
}

// NewPassword returns a PasswordAuthenticator with no token.
func NewPassword(clientID, clientSecret, username, password string, opts ...Option) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		grant:    newGrant(clientID, clientSecret, opts),
		username: username,
		password: password,
	}
}

func (a *PasswordAuthenticator) form() url.Values {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", a.username)
	form.Set("password", a.password)
	return form
}

func (a *PasswordAuthenticator) canRefresh() bool {
	return a.username != "" && a.password != ""
}

// Login implements Authenticator.
func (a *PasswordAuthenticator) Login(ctx context.Context, ep Endpoint) error {
	return a.exchange(ctx, ep, a.form())
}

// Logout implements Authenticator.
func (a *PasswordAuthenticator) Logout(ctx context.Context, ep Endpoint) error {
	return a.logout(ctx, ep)
}

// Refresh implements Authenticator.
func (a *PasswordAuthenticator) Refresh(ctx context.Context, ep Endpoint) error {
	if !a.canRefresh() {
		return pkgerrs.Domain("refresh", pkgerrs.ErrRefreshUnsupported, "password authenticator without credentials")
	}
	return a.exchange(ctx, ep, a.form())
}

// NeedsRefresh implements Authenticator.
func (a *PasswordAuthenticator) NeedsRefresh() bool {
	return a.canRefresh() && a.Expired()
}

func (a *PasswordAuthenticator) String() string {
	return a.describe("PasswordAuthenticator", "user", a.username)
}
