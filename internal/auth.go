package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

const (
	// DefaultTokenBaseURL hosts the grant and revoke endpoints.
	DefaultTokenBaseURL = "https://www.reddit.com"

	accessTokenPath = "api/v1/access_token"
	revokeTokenPath = "api/v1/revoke_token"
)

// Doer is the HTTP transport capability consumed by the client. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenClient talks to Reddit's token endpoints on behalf of one OAuth application.
type TokenClient struct {
	client       Doer
	clientID     string
	clientSecret string
	userAgent    string
	logger       *slog.Logger
	BaseURL      *url.URL
	tokenURL     *url.URL
	revokeURL    *url.URL
}

// NewTokenClient creates a token client. An empty baseURL selects DefaultTokenBaseURL.
func NewTokenClient(httpClient Doer, clientID, clientSecret, userAgent, baseURL string, logger *slog.Logger) (*TokenClient, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultTokenBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, pkgerrs.Domain("parse token base url", err, baseURL)
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	tokenURL, err := parsedURL.Parse(accessTokenPath)
	if err != nil {
		return nil, pkgerrs.Domain("parse token endpoint", err, accessTokenPath)
	}
	revokeURL, err := parsedURL.Parse(revokeTokenPath)
	if err != nil {
		return nil, pkgerrs.Domain("parse revoke endpoint", err, revokeTokenPath)
	}

	return &TokenClient{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		logger:       logger,
		BaseURL:      parsedURL,
		tokenURL:     tokenURL,
		revokeURL:    revokeURL,
	}, nil
}

// TokenResponse is the body of a successful grant exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// Exchange posts a grant form to the access token endpoint.
func (c *TokenClient) Exchange(ctx context.Context, form url.Values) (*TokenResponse, error) {
	op := "grant " + form.Get("grant_type")

	body, err := c.post(ctx, op, c.tokenURL, form)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Body: string(body), Err: fmt.Errorf("failed to unmarshal token response: %w", err)}
	}
	// Reddit answers some bad grants with 200 and {"error": "..."}.
	if tokenResp.AccessToken == "" {
		return nil, &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Body: string(body), Message: "access token was empty in response"}
	}
	if tokenResp.ExpiresIn < 0 {
		return nil, &pkgerrs.Error{Kind: pkgerrs.KindDecode, Op: op, Body: string(body), Message: fmt.Sprintf("negative expires_in %d", tokenResp.ExpiresIn)}
	}

	c.logger.Debug("token granted", "grant_type", form.Get("grant_type"), "expires_in", tokenResp.ExpiresIn, "scope", tokenResp.Scope)
	return &tokenResp, nil
}

// Revoke invalidates token server side. hint is "access_token" or "refresh_token".
func (c *TokenClient) Revoke(ctx context.Context, token, hint string) error {
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", hint)

	if _, err := c.post(ctx, "revoke token", c.revokeURL, form); err != nil {
		return err
	}
	c.logger.Debug("token revoked", "token_type_hint", hint)
	return nil
}

func (c *TokenClient) post(ctx context.Context, op string, target *url.URL, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrs.Transport(op, fmt.Errorf("failed to create request: %w", err))
	}

	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrs.Transport(op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.Error{Kind: pkgerrs.KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrs.HTTPStatus(op, resp.StatusCode, string(bodyBytes))
	}
	return bodyBytes, nil
}
