// Package commands implements the graw command line tool.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/auth"
	"github.com/jamesprial/graw/pkg/types"
	"github.com/jamesprial/graw/pkg/validation"
)

type app struct {
	v          *viper.Viper
	configPath string
	verbose    bool
	logout     bool
	check      bool
}

// NewRootCmd creates the root command. Credentials come from REDDIT_*
// environment variables or the file named by --config.
func NewRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	rootCmd := &cobra.Command{
		Use:           "graw",
		Short:         "Query Reddit from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `graw logs in to Reddit with the credentials it finds and runs one request.

The grant is picked from what is set: REDDIT_REFRESH_TOKEN, then REDDIT_CODE
with REDDIT_REDIRECT_URI, then REDDIT_USERNAME with REDDIT_PASSWORD. With none
of them requests are anonymous. Every grant needs REDDIT_CLIENT_ID and
REDDIT_CLIENT_SECRET.`,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (yaml, json or toml) with the same keys as the environment, e.g. client_id")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests and token lifecycle to stderr")
	flags.BoolVar(&a.logout, "logout", false, "revoke the session tokens before exiting")
	flags.BoolVar(&a.check, "check", false, "warn about malformed fields in what Reddit returns")
	flags.String("user-agent", "", "User-Agent header sent to Reddit")
	_ = a.v.BindPFlag(keyUserAgent, flags.Lookup("user-agent"))

	rootCmd.AddCommand(
		newTokenCommand(a),
		newSubredditCommand(a),
		newUserCommand(a),
		newCommentsCommand(a),
		newSavedCommand(a),
		newInboxCommand(a),
		newAuthorizeURLCommand(a),
	)

	return rootCmd
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (a *app) settings() (*settings, error) {
	return loadSettings(a.v, a.configPath)
}

// session is a logged in client and the authenticator behind it.
type session struct {
	client  *graw.Client
	auth    auth.Authenticator
	logger  *slog.Logger
	checker *validation.Checker // nil without --check
}

// inspect logs a warning for each thing that fails validation.
func (s *session) inspect(things ...*types.Thing) {
	if s.checker == nil {
		return
	}
	for _, t := range things {
		if err := s.checker.Thing(t); err != nil {
			s.logger.Warn("malformed object", "kind", t.Kind, "error", err)
		}
	}
}

// withSession logs in, runs fn and, with --logout, revokes the tokens.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	logger := a.logger(cmd)
	authenticator, err := s.authenticator(logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := graw.Login(ctx, authenticator, s.config(logger))
	if err != nil {
		return err
	}
	logger.Debug("logged in", "auth", authenticator.String())

	sess := &session{client: client, auth: authenticator, logger: logger}
	if a.check {
		sess.checker = &validation.Checker{}
	}
	runErr := fn(ctx, sess)
	if a.logout {
		if err := client.Logout(ctx); err != nil {
			logger.Warn("failed to revoke tokens", "error", err)
		}
	}
	return runErr
}
