package graw

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jamesprial/graw/internal"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

const (
	// DefaultOAuthURL serves requests that carry a bearer token.
	DefaultOAuthURL = "https://oauth.reddit.com"
	// DefaultPublicURL serves unauthenticated requests.
	DefaultPublicURL = "https://api.reddit.com"
	// DefaultAuthURL hosts the token and revoke endpoints.
	DefaultAuthURL = "https://www.reddit.com"
	// DefaultUserAgent is the default user agent string
	DefaultUserAgent = "graw/0.1"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// RateLimitConfig enables client-side throttling. Leave Config.RateLimit nil
// to send requests as fast as the caller issues them.
type RateLimitConfig = internal.RateLimitConfig

// Config holds the connection settings for a Client. Credentials are not part
// of it; they live in the auth.Authenticator passed to Login.
//
// Every field is optional:
//
//	client, err := graw.Login(ctx, auth.NewAnonymous(), &graw.Config{
//		UserAgent: "linux:myapp:1.0 (by /u/yourusername)",
//	})
type Config struct {
	// UserAgent string to identify your application to Reddit.
	// Should follow format: "platform:app-name:version (by /u/username)"
	UserAgent string `validate:"required"`

	// OAuthURL is used whenever the authenticator holds a token.
	// Defaults to DefaultOAuthURL.
	OAuthURL string `validate:"required,url"`

	// PublicURL is used for anonymous requests. Defaults to DefaultPublicURL.
	PublicURL string `validate:"required,url"`

	// AuthURL hosts /api/v1/access_token and /api/v1/revoke_token.
	// Defaults to DefaultAuthURL.
	AuthURL string `validate:"required,url"`

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client `validate:"-"`

	// Logger for structured diagnostics. Nothing is logged when nil.
	Logger *slog.Logger `validate:"-"`

	// RateLimit turns on the request throttle when non-nil.
	RateLimit *RateLimitConfig
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// withDefaults returns a copy of cfg with empty fields filled in. The caller's
// Config is never modified.
func (cfg *Config) withDefaults() Config {
	var out Config
	if cfg != nil {
		out = *cfg
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	if out.OAuthURL == "" {
		out.OAuthURL = DefaultOAuthURL
	}
	if out.PublicURL == "" {
		out.PublicURL = DefaultPublicURL
	}
	if out.AuthURL == "" {
		out.AuthURL = DefaultAuthURL
	}
	if out.HTTPClient == nil {
		out.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.DiscardHandler)
	}
	if out.RateLimit != nil {
		rl := *out.RateLimit
		out.RateLimit = &rl
	}
	return out
}

func (cfg *Config) validate() error {
	if err := configValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return pkgerrs.Domain("validate config", pkgerrs.ErrInvalidArgument, err.Error())
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return pkgerrs.Domain("validate config", pkgerrs.ErrInvalidArgument, strings.Join(msgs, "; "))
	}
	return internal.NewValidator().ValidateUserAgent(cfg.UserAgent)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", fe.Namespace(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid: %s", fe.Namespace(), fe.Tag())
	}
}
