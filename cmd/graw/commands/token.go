package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw/pkg/auth"
)

// refreshTokenHolder is implemented by the code and token authenticators.
type refreshTokenHolder interface {
	RefreshToken() string
}

func newTokenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Args:  cobra.NoArgs,
		Short: "Log in and print the access token",
		Long: `Log in and print the access token and its expiry.

When logging in with an authorization code granted for a permanent duration,
the refresh token is printed too. Store it as REDDIT_REFRESH_TOKEN to skip the
consent page next time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				tok, err := s.client.TokenSource(ctx).Token()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "access_token: %s\n", tok.AccessToken)
				fmt.Fprintf(out, "token_type:   %s\n", tok.TokenType)
				fmt.Fprintf(out, "expires:      %s\n", tok.Expiry.UTC().Format(time.RFC3339))
				if h, ok := s.auth.(refreshTokenHolder); ok && h.RefreshToken() != "" {
					fmt.Fprintf(out, "refresh_token: %s\n", h.RefreshToken())
				}
				return nil
			})
		},
	}
}

func newAuthorizeURLCommand(a *app) *cobra.Command {
	var (
		scopes    []string
		permanent bool
		state     string
	)

	cmd := &cobra.Command{
		Use:   "authorize-url",
		Args:  cobra.NoArgs,
		Short: "Print the consent page URL for the authorization code flow",
		Long: `Print the URL a user visits to authorize the application, and the state it carries.

Reddit redirects to REDDIT_REDIRECT_URI with ?code=...&state=...; set the code as
REDDIT_CODE and run "graw token".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			if s.ClientID == "" || s.RedirectURI == "" {
				return fmt.Errorf("authorize-url needs REDDIT_CLIENT_ID and REDDIT_REDIRECT_URI")
			}

			duration := auth.DurationTemporary
			if permanent {
				duration = auth.DurationPermanent
			}
			u, st := auth.AuthorizationURL(auth.AuthorizationRequest{
				ClientID:    s.ClientID,
				RedirectURI: s.RedirectURI,
				Scopes:      scopes,
				State:       state,
				Duration:    duration,
				BaseURL:     s.AuthURL,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, u)
			fmt.Fprintf(out, "state: %s\n", st)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"identity", "read"}, "OAuth scopes to request")
	cmd.Flags().BoolVar(&permanent, "permanent", false, "also request a refresh token")
	cmd.Flags().StringVar(&state, "state", "", "state to round trip; random when empty")
	return cmd
}
