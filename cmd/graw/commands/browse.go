package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/types"
)

type feedFlags struct {
	limit  int
	after  string
	period string
}

func (f *feedFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 10, "number of items, at most 100")
	cmd.Flags().StringVar(&f.after, "after", "", "full name to continue after, e.g. t3_abc123")
	cmd.Flags().StringVar(&f.period, "period", "", "time window for top and controversial: now, day, week, month, year, all")
}

func (f *feedFlags) options() *types.FeedOptions {
	return &types.FeedOptions{Limit: f.limit, After: f.after, Period: types.TimePeriod(f.period)}
}

func newSubredditCommand(a *app) *cobra.Command {
	var (
		feed  feedFlags
		sort  string
		about bool
	)

	cmd := &cobra.Command{
		Use:   "subreddit <name>",
		Args:  cobra.ExactArgs(1),
		Short: "List the links of a subreddit feed",
		Example: `  graw subreddit golang
  graw subreddit golang --sort top --period week -n 5
  graw subreddit golang --about`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				sub := s.client.Subreddit(args[0])
				out := cmd.OutOrStdout()

				if about {
					info, err := sub.About(ctx)
					if err != nil {
						return err
					}
					s.inspect(&types.Thing{Kind: types.KindSubreddit, Data: info})
					fmt.Fprintf(out, "%s (%s)\n", info.DisplayNamePrefixed, info.Name)
					fmt.Fprintf(out, "subscribers: %d\n", info.Subscribers)
					fmt.Fprintf(out, "%s\n", info.PublicDescription)
					return nil
				}

				resp, err := sub.Links(ctx, graw.Sort(sort), feed.options())
				if err != nil {
					return err
				}
				for _, link := range resp.Links {
					s.inspect(&types.Thing{Kind: types.KindLink, Data: link})
					printLink(out, link)
				}
				if resp.After != "" {
					fmt.Fprintf(out, "next: --after %s\n", resp.After)
				}
				return nil
			})
		},
	}

	feed.register(cmd)
	cmd.Flags().StringVar(&sort, "sort", string(graw.SortHot), "hot, new, top, rising or controversial")
	cmd.Flags().BoolVar(&about, "about", false, "print subreddit information instead of links")
	return cmd
}

func newUserCommand(a *app) *cobra.Command {
	var feed feedFlags

	cmd := &cobra.Command{
		Use:   "user <name>",
		Args:  cobra.ExactArgs(1),
		Short: "Show a user's karma and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				user := s.client.User(args[0])
				account, err := user.About(ctx)
				if err != nil {
					return err
				}
				overview, err := user.Overview(ctx, feed.options())
				if err != nil {
					return err
				}

				s.inspect(
					&types.Thing{Kind: types.KindAccount, Data: account},
					&types.Thing{Kind: types.KindListing, Data: overview},
				)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "u/%s  link karma %d  comment karma %d\n", account.Name, account.LinkKarma, account.CommentKarma)
				printListing(out, overview)
				return nil
			})
		},
	}

	feed.register(cmd)
	return cmd
}

func newCommentsCommand(a *app) *cobra.Command {
	var opts graw.CommentsOptions

	cmd := &cobra.Command{
		Use:   "comments <link-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Print a link and its comment tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				page, err := s.client.Comments(ctx, args[0], &opts)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if page.Link != nil {
					s.inspect(&types.Thing{Kind: types.KindLink, Data: page.Link})
					printLink(out, page.Link)
				}
				for _, c := range page.Comments {
					s.inspect(&types.Thing{Kind: types.KindComment, Data: c})
				}
				it := graw.NewCommentIterator(page.Comments, nil)
				for it.HasNext() {
					c, err := it.Next()
					if err != nil {
						break
					}
					fmt.Fprintf(out, "%s%s (%d): %s\n", indent(c), c.Author, c.Score, firstLine(c.Body))
				}
				if len(page.MoreIDs) > 0 {
					fmt.Fprintf(out, "%d more comments not loaded\n", len(page.MoreIDs))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "", "confidence, top, new, controversial, old or qa")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "maximum reply depth")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of comments")
	return cmd
}

func printLink(out io.Writer, link *types.Link) {
	fmt.Fprintf(out, "%6d  %s  [%s]  %s\n", link.Score, link.Name, link.Subreddit, link.Title)
}

func printListing(out io.Writer, listing *types.Listing) {
	for _, child := range listing.Children {
		if child == nil {
			continue
		}
		switch data := child.Data.(type) {
		case *types.Link:
			printLink(out, data)
		case *types.Comment:
			fmt.Fprintf(out, "%6d  %s  comment: %s\n", data.Score, data.Name, firstLine(data.Body))
		case *types.Message:
			fmt.Fprintf(out, "        %s  from %s: %s\n", data.Name, data.Author, data.Subject)
		}
	}
	if listing.After != "" {
		fmt.Fprintf(out, "next: --after %s\n", listing.After)
	}
}

// indent shifts replies one level right. Top-level comments have a t3 parent.
func indent(c *types.Comment) string {
	if strings.HasPrefix(c.ParentID, "t1_") {
		return "  "
	}
	return ""
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	const maxLen = 80
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
