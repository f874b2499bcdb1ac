package auth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jamesprial/graw/internal"
)

// Duration is the lifetime requested for an authorization.
type Duration string

const (
	// DurationTemporary grants a one hour token with no refresh token.
	DurationTemporary Duration = "temporary"
	// DurationPermanent also grants a refresh token.
	DurationPermanent Duration = "permanent"
)

// AuthorizationRequest describes the consent page a user is sent to before a
// CodeAuthenticator can log in.
type AuthorizationRequest struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	// State is echoed back on the redirect. Empty selects a random UUID.
	State    string
	Duration Duration
	// BaseURL defaults to https://www.reddit.com.
	BaseURL string
}

// OAuth2Config returns the golang.org/x/oauth2 view of Reddit's endpoints for
// an application.
func OAuth2Config(clientID, clientSecret, redirectURI, baseURL string, scopes ...string) *oauth2.Config {
	if baseURL == "" {
		baseURL = internal.DefaultTokenBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   baseURL + "/api/v1/authorize",
			TokenURL:  baseURL + "/api/v1/access_token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// AuthorizationURL returns the URL to send the user to, and the state it carries.
func AuthorizationURL(req AuthorizationRequest) (string, string) {
	state := req.State
	if state == "" {
		state = uuid.NewString()
	}
	duration := req.Duration
	if duration == "" {
		duration = DurationTemporary
	}

	cfg := OAuth2Config(req.ClientID, "", req.RedirectURI, req.BaseURL, req.Scopes...)
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", string(duration))), state
}
