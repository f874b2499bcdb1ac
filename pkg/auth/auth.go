// Package auth implements Reddit's OAuth2 grant flows.
//
// An Authenticator holds one grant's credentials and the token it produced.
// There are exactly four: AnonymousAuthenticator, PasswordAuthenticator,
// CodeAuthenticator and TokenAuthenticator. Authenticators are not safe for
// concurrent use on their own; graw.Client guards them with a lock.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jamesprial/graw/internal"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

const (
	hintAccessToken  = "access_token"
	hintRefreshToken = "refresh_token"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoint is where and how an Authenticator reaches the token endpoints.
type Endpoint struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient Doer
	// UserAgent is sent on every grant and revoke request.
	UserAgent string
	// BaseURL hosts /api/v1/access_token and /api/v1/revoke_token.
	// Defaults to https://www.reddit.com.
	BaseURL string
}

// Authenticator is one OAuth2 grant flow together with its token state.
type Authenticator interface {
	// Login performs the initial grant and stores the resulting token.
	Login(ctx context.Context, ep Endpoint) error
	// Logout revokes the held token, preferring the refresh token, and clears
	// local state. With no token held it does nothing.
	Logout(ctx context.Context, ep Endpoint) error
	// Refresh renews the access token. It fails with ErrRefreshUnsupported
	// when the authenticator has no way to do so.
	Refresh(ctx context.Context, ep Endpoint) error
	// NeedsRefresh reports whether the authenticator can refresh and its
	// token is missing or expired.
	NeedsRefresh() bool
	// Expired reports whether the token is missing or past its expiry,
	// whether or not it can be renewed.
	Expired() bool
	// SetHeaders adds the bearer token to h.
	SetHeaders(h http.Header)
	// SupportsOAuth is false only for AnonymousAuthenticator.
	SupportsOAuth() bool
	// Token returns a copy of the current token, or nil.
	Token() *types.Token
	fmt.Stringer

	sealed()
}

// Option configures an Authenticator.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock replaces time.Now for expiry computation.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger for token lifecycle events and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// grant holds the state shared by every token-bearing authenticator.
// token and its expiry are assigned together, so either both are set or neither is.
type grant struct {
	options
	clientID     string
	clientSecret string
	token        *types.Token
	refreshToken string
}

func newGrant(clientID, clientSecret string, opts []Option) grant {
	return grant{options: buildOptions(opts), clientID: clientID, clientSecret: clientSecret}
}

func (g *grant) nowMillis() int64 {
	return g.now().UnixMilli()
}

func (g *grant) tokenClient(ep Endpoint) (*internal.TokenClient, error) {
	var doer internal.Doer
	if ep.HTTPClient != nil {
		doer = ep.HTTPClient
	}
	return internal.NewTokenClient(doer, g.clientID, g.clientSecret, ep.UserAgent, ep.BaseURL, g.logger)
}

// exchange posts form and commits the result. Nothing changes on failure.
func (g *grant) exchange(ctx context.Context, ep Endpoint, form url.Values) error {
	tc, err := g.tokenClient(ep)
	if err != nil {
		return err
	}

	issuedAt := g.nowMillis()
	resp, err := tc.Exchange(ctx, form)
	if err != nil {
		return err
	}

	g.token = &types.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		Scope:       resp.Scope,
		ExpiresAt:   issuedAt + resp.ExpiresIn*1000,
	}
	if resp.RefreshToken != "" {
		g.refreshToken = resp.RefreshToken
	}
	return nil
}

func (g *grant) refreshGrant(ctx context.Context, ep Endpoint) error {
	if g.refreshToken == "" {
		return pkgerrs.Domain("refresh", pkgerrs.ErrRefreshUnsupported, "no refresh token held")
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", g.refreshToken)
	return g.exchange(ctx, ep, form)
}

func (g *grant) logout(ctx context.Context, ep Endpoint) error {
	var token, hint string
	switch {
	case g.refreshToken != "":
		token, hint = g.refreshToken, hintRefreshToken
	case g.token != nil:
		token, hint = g.token.AccessToken, hintAccessToken
	default:
		return nil
	}

	tc, err := g.tokenClient(ep)
	if err != nil {
		return err
	}
	if err := tc.Revoke(ctx, token, hint); err != nil {
		return err
	}

	g.token = nil
	g.refreshToken = ""
	return nil
}

// Expired implements Authenticator.
func (g *grant) Expired() bool {
	return g.token.ExpiredAt(g.nowMillis())
}

// SetHeaders implements Authenticator.
func (g *grant) SetHeaders(h http.Header) {
	if g.token == nil {
		g.logger.Warn("no access token available, sending request without authorization")
		return
	}
	h.Set("Authorization", "Bearer "+g.token.AccessToken)
}

// SupportsOAuth implements Authenticator.
func (*grant) SupportsOAuth() bool { return true }

// Token implements Authenticator.
func (g *grant) Token() *types.Token {
	if g.token == nil {
		return nil
	}
	t := *g.token
	return &t
}

func (*grant) sealed() {}

func (g *grant) describe(kind string, extra ...any) string {
	s := kind + "{"
	for i := 0; i+1 < len(extra); i += 2 {
		s += fmt.Sprintf("%v=%v, ", extra[i], extra[i+1])
	}
	if g.token == nil {
		s += "token=none"
	} else {
		s += "token=present, expires=" + g.token.Expiry().UTC().Format(time.RFC3339)
	}
	return s + fmt.Sprintf(", refresh=%t}", g.refreshToken != "")
}
