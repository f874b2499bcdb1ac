package graw

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jamesprial/graw/internal"
	"github.com/jamesprial/graw/pkg/auth"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// Client is an authenticated session with Reddit.
// It owns the credential store, the HTTP transport, and the user agent chosen
// at login. A Client is safe for concurrent use; Clone returns another handle
// onto the same credentials.
//
// Example usage:
//
//	client, err := graw.Login(ctx, auth.NewPassword(id, secret, user, pass), nil)
//	if err != nil {
//		return err
//	}
//	defer client.Logout(ctx)
//
//	me, err := client.Me(ctx)
type Client struct {
	creds     *credentials
	transport *internal.Transport
	endpoint  auth.Endpoint
	userAgent string
	oauthURL  string
	publicURL string
	logger    *slog.Logger
	parser    *internal.Parser
	validator *internal.Validator

	// supportsOAuth is captured at login and never changes.
	supportsOAuth bool
}

// Login performs the authenticator's initial grant and returns a Client that
// uses it. A nil cfg uses the defaults.
//
// The function will:
//   - Fill defaults into a copy of cfg and validate it
//   - Post the grant to the token endpoint (Anonymous skips this)
//   - Record whether the authenticator supports OAuth
//
// Returns an error if:
//   - a is nil or cfg is invalid (KindDomain)
//   - The token endpoint cannot be reached (KindTransport)
//   - The token endpoint rejects the grant (KindHTTP)
//   - The grant response cannot be decoded (KindDecode)
func Login(ctx context.Context, a auth.Authenticator, cfg *Config) (*Client, error) {
	if a == nil {
		return nil, pkgerrs.Domain("login", pkgerrs.ErrInvalidArgument, "authenticator cannot be nil")
	}

	c := cfg.withDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	client := &Client{
		creds:     newCredentials(a),
		transport: internal.NewTransport(c.HTTPClient, c.RateLimit, c.Logger),
		endpoint: auth.Endpoint{
			HTTPClient: c.HTTPClient,
			UserAgent:  c.UserAgent,
			BaseURL:    c.AuthURL,
		},
		userAgent:     c.UserAgent,
		oauthURL:      strings.TrimRight(c.OAuthURL, "/"),
		publicURL:     strings.TrimRight(c.PublicURL, "/"),
		logger:        c.Logger,
		parser:        internal.NewParser(),
		validator:     internal.NewValidator(),
		supportsOAuth: a.SupportsOAuth(),
	}

	if err := client.creds.login(ctx, client.endpoint); err != nil {
		return nil, err
	}
	client.logger.Debug("logged in", "authenticator", client.creds.String())
	return client, nil
}

// Logout revokes the session's token and clears it. Every clone shares the
// result. Logging out without a token is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.creds.logout(ctx, c.endpoint); err != nil {
		return err
	}
	c.logger.Debug("logged out")
	return nil
}

// Clone returns a new handle sharing this client's credentials and transport.
// A refresh or logout through any handle is seen by all of them.
func (c *Client) Clone() *Client {
	clone := *c
	return &clone
}

// SupportsOAuth reports whether requests go to the OAuth host.
func (c *Client) SupportsOAuth() bool {
	return c.supportsOAuth
}

// NeedsRefresh reports whether the next request will refresh the token first.
func (c *Client) NeedsRefresh() bool {
	return c.creds.needsRefresh()
}

// BuildURL returns the absolute URL for path. The OAuth host is used when the
// endpoint requires it or the authenticator supports it; otherwise the public
// host is used.
//
// BuildURL panics if oauthRequired is true and the client was logged in with
// an authenticator that cannot do OAuth. That is a programming error: the
// caller picked the wrong authenticator for the endpoint.
func (c *Client) BuildURL(path string, oauthRequired bool) string {
	if oauthRequired && !c.supportsOAuth {
		panic("graw: " + path + " requires OAuth but the client authenticator does not support it")
	}
	host := c.publicURL
	if oauthRequired || c.supportsOAuth {
		host = c.oauthURL
	}
	return host + "/" + strings.TrimLeft(path, "/")
}

// Get sends an authenticated GET. Any status is returned; only transport and
// refresh failures are errors. The caller must close the response body.
func (c *Client) Get(ctx context.Context, path string, oauthRequired bool) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, oauthRequired, nil)
}

// Post sends an authenticated form POST. Any status is returned; only
// transport and refresh failures are errors. The caller must close the
// response body.
func (c *Client) Post(ctx context.Context, path string, oauthRequired bool, form url.Values) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, oauthRequired, form)
}

// GetJSON sends a GET and decodes a 2xx body into v. Non-2xx responses become
// KindHTTP errors (404 matches ErrNotFound); undecodable bodies become
// KindDecode errors.
func (c *Client) GetJSON(ctx context.Context, path string, oauthRequired bool, v any) error {
	resp, err := c.Get(ctx, path, oauthRequired)
	if err != nil {
		return err
	}
	return internal.DecodeResponse("GET "+path, resp, v)
}

// PostJSON sends a form POST and decodes a 2xx body into v, like GetJSON.
func (c *Client) PostJSON(ctx context.Context, path string, oauthRequired bool, form url.Values, v any) error {
	resp, err := c.Post(ctx, path, oauthRequired, form)
	if err != nil {
		return err
	}
	return internal.DecodeResponse("POST "+path, resp, v)
}

// send is the request pipeline: refresh if expired, then sign, then send.
func (c *Client) send(ctx context.Context, method, path string, oauthRequired bool, form url.Values) (*http.Response, error) {
	target := c.BuildURL(path, oauthRequired)

	if err := c.creds.ensureFresh(ctx, c.endpoint); err != nil {
		return nil, err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrs.Transport(method+" "+path, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", c.userAgent)
	c.creds.setHeaders(req.Header)

	return c.transport.Send(req)
}

// AccessToken returns a usable access token, refreshing it first if it has
// expired and can be renewed.
//
// Returns an error if:
//   - The authenticator does not support OAuth (KindDomain)
//   - The refresh fails
//   - The token has expired and cannot be renewed (KindExpired)
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if !c.supportsOAuth {
		return "", pkgerrs.Domain("access token", pkgerrs.ErrOAuthUnsupported, c.creds.String())
	}
	if err := c.creds.ensureFresh(ctx, c.endpoint); err != nil {
		return "", err
	}

	tok, expired := c.creds.snapshot()
	if tok == nil || expired {
		return "", pkgerrs.Expired("access token")
	}
	return tok.AccessToken, nil
}

// TokenSource adapts the session to oauth2.TokenSource so its bearer token can
// drive other OAuth2 aware clients. Tokens are refreshed through the session,
// so every handle sees the renewal.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, client: c}
}

type tokenSource struct {
	ctx    context.Context
	client *Client
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	access, err := s.client.AccessToken(s.ctx)
	if err != nil {
		return nil, err
	}
	tok, _ := s.client.creds.snapshot()
	if tok == nil {
		return nil, pkgerrs.Expired("token source")
	}

	out := &oauth2.Token{AccessToken: access, TokenType: tok.TokenType, Expiry: tok.Expiry()}
	if out.TokenType == "" {
		out.TokenType = "bearer"
	}
	return out, nil
}
