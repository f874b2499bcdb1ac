package commands

import (
	"context"

	"github.com/spf13/cobra"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// requireLogin rejects anonymous sessions before an OAuth-only call.
func requireLogin(s *session, op string) error {
	if s.client.SupportsOAuth() {
		return nil
	}
	return pkgerrs.Domain(op, pkgerrs.ErrOAuthUnsupported, "set REDDIT_USERNAME and REDDIT_PASSWORD or another grant")
}

func newSavedCommand(a *app) *cobra.Command {
	var feed feedFlags

	cmd := &cobra.Command{
		Use:   "saved",
		Args:  cobra.NoArgs,
		Short: "List what the logged in user saved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := requireLogin(s, "saved"); err != nil {
					return err
				}
				me, err := s.client.Me(ctx)
				if err != nil {
					return err
				}
				saved, err := s.client.Saved(ctx, me.Name, feed.options())
				if err != nil {
					return err
				}
				s.inspect(&types.Thing{Kind: types.KindListing, Data: saved})
				printListing(cmd.OutOrStdout(), saved)
				return nil
			})
		},
	}

	feed.register(cmd)
	return cmd
}

func newInboxCommand(a *app) *cobra.Command {
	var (
		feed   feedFlags
		folder string
	)

	cmd := &cobra.Command{
		Use:   "inbox",
		Args:  cobra.NoArgs,
		Short: "List private messages and comment replies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := requireLogin(s, "inbox"); err != nil {
					return err
				}
				listing, err := s.client.Messages(ctx, types.MessageFolder(folder), feed.options())
				if err != nil {
					return err
				}
				s.inspect(&types.Thing{Kind: types.KindListing, Data: listing})
				printListing(cmd.OutOrStdout(), listing)
				return nil
			})
		},
	}

	feed.register(cmd)
	cmd.Flags().StringVar(&folder, "folder", string(types.FolderInbox), "inbox, unread or sent")
	return cmd
}
