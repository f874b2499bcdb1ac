package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/auth"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// Setting keys. With the REDDIT prefix, client_id is read from REDDIT_CLIENT_ID.
const (
	keyClientID     = "client_id"
	keyClientSecret = "client_secret"
	keyUsername     = "username"
	keyPassword     = "password"
	keyRefreshToken = "refresh_token"
	keyCode         = "code"
	keyRedirectURI  = "redirect_uri"
	keyUserAgent    = "user_agent"
	keyOAuthURL     = "oauth_url"
	keyPublicURL    = "public_url"
	keyAuthURL      = "auth_url"
)

// settings is everything the CLI reads from the environment or a config file.
type settings struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	Code         string
	RedirectURI  string
	UserAgent    string
	OAuthURL     string
	PublicURL    string
	AuthURL      string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("REDDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyUserAgent, graw.DefaultUserAgent)
	return v
}

// loadSettings reads path, if set, and layers the environment on top.
func loadSettings(v *viper.Viper, path string) (*settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &settings{
		ClientID:     v.GetString(keyClientID),
		ClientSecret: v.GetString(keyClientSecret),
		Username:     v.GetString(keyUsername),
		Password:     v.GetString(keyPassword),
		RefreshToken: v.GetString(keyRefreshToken),
		Code:         v.GetString(keyCode),
		RedirectURI:  v.GetString(keyRedirectURI),
		UserAgent:    v.GetString(keyUserAgent),
		OAuthURL:     v.GetString(keyOAuthURL),
		PublicURL:    v.GetString(keyPublicURL),
		AuthURL:      v.GetString(keyAuthURL),
	}, nil
}

// authenticator picks the grant from the credentials present, in order:
// refresh token, authorization code, username and password. With none of
// them the session is anonymous.
func (s *settings) authenticator(logger *slog.Logger) (auth.Authenticator, error) {
	opts := []auth.Option{auth.WithLogger(logger)}

	var a auth.Authenticator
	switch {
	case s.RefreshToken != "":
		a = auth.NewToken(s.ClientID, s.ClientSecret, s.RefreshToken, opts...)
	case s.Code != "":
		if s.RedirectURI == "" {
			return nil, pkgerrs.Domain("select grant", pkgerrs.ErrInvalidArgument, "REDDIT_CODE needs REDDIT_REDIRECT_URI")
		}
		a = auth.NewCode(s.ClientID, s.ClientSecret, s.Code, s.RedirectURI, opts...)
	case s.Username != "" || s.Password != "":
		if s.Username == "" || s.Password == "" {
			return nil, pkgerrs.Domain("select grant", pkgerrs.ErrInvalidArgument, "REDDIT_USERNAME and REDDIT_PASSWORD must be set together")
		}
		a = auth.NewPassword(s.ClientID, s.ClientSecret, s.Username, s.Password, opts...)
	default:
		return auth.NewAnonymous(), nil
	}

	if s.ClientID == "" || s.ClientSecret == "" {
		return nil, pkgerrs.Domain("select grant", pkgerrs.ErrInvalidArgument, "REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required")
	}
	return a, nil
}

// config builds the client configuration. Empty hosts fall back to Reddit's.
func (s *settings) config(logger *slog.Logger) *graw.Config {
	return &graw.Config{
		UserAgent: s.UserAgent,
		OAuthURL:  s.OAuthURL,
		PublicURL: s.PublicURL,
		AuthURL:   s.AuthURL,
		Logger:    logger,
	}
}
