package graw

import (
	"context"
	"net/url"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Me returns the account the session is logged in as.
// /api/v1/me answers with a bare account object rather than a t2 thing.
//
// This method requires an OAuth capable authenticator with the "identity" scope.
func (c *Client) Me(ctx context.Context) (*types.Account, error) {
	var account types.Account
	if err := c.GetJSON(ctx, "api/v1/me", true, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Saved retrieves what username saved. It is shorthand for User(username).Saved.
func (c *Client) Saved(ctx context.Context, username string, opts *types.FeedOptions) (*types.Listing, error) {
	return c.User(username).Saved(ctx, opts)
}

// Upvoted retrieves what username upvoted.
func (c *Client) Upvoted(ctx context.Context, username string, opts *types.FeedOptions) (*types.Listing, error) {
	return c.User(username).Upvoted(ctx, opts)
}

// Downvoted retrieves what username downvoted.
func (c *Client) Downvoted(ctx context.Context, username string, opts *types.FeedOptions) (*types.Listing, error) {
	return c.User(username).Downvoted(ctx, opts)
}

// SearchSubreddits finds subreddits whose name or description matches query.
func (c *Client) SearchSubreddits(ctx context.Context, query string, opts *types.FeedOptions) ([]*types.Subreddit, error) {
	listing, err := c.search(ctx, "subreddits", query, opts)
	if err != nil {
		return nil, err
	}
	return listing.Subreddits(), nil
}

// SearchUsers finds accounts whose name matches query.
func (c *Client) SearchUsers(ctx context.Context, query string, opts *types.FeedOptions) ([]*types.Account, error) {
	listing, err := c.search(ctx, "users", query, opts)
	if err != nil {
		return nil, err
	}
	return listing.Accounts(), nil
}

func (c *Client) search(ctx context.Context, what, query string, opts *types.FeedOptions) (*types.Listing, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrs.Domain("search "+what, pkgerrs.ErrInvalidArgument, "query cannot be empty")
	}
	return c.listing(ctx, what+"/search?q="+url.QueryEscape(query), false, opts)
}

// Messages retrieves one page of a mailbox. Inbox and unread pages mix t4
// messages with t1 comment replies.
func (c *Client) Messages(ctx context.Context, folder types.MessageFolder, opts *types.FeedOptions) (*types.Listing, error) {
	switch folder {
	case types.FolderInbox, types.FolderUnread, types.FolderSent:
	default:
		return nil, pkgerrs.Domain("messages", pkgerrs.ErrInvalidArgument, "unknown folder "+string(folder))
	}
	return c.listing(ctx, "message/"+string(folder), true, opts)
}

// Compose sends a private message to the user named by to.
//
// Returns an error if:
//   - to is not a valid username, or subject is empty
//   - Reddit rejects the message, e.g. the user does not exist (ErrAPI)
func (c *Client) Compose(ctx context.Context, to, subject, body string) error {
	if err := c.validator.ValidateUsername(to); err != nil {
		return err
	}
	if subject == "" {
		return pkgerrs.Domain("compose", pkgerrs.ErrInvalidArgument, "subject cannot be empty")
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", body)

	var resp apiResponse
	if err := c.PostJSON(ctx, "api/compose", true, form, &resp); err != nil {
		return err
	}
	return resp.err("compose")
}

// BlockAuthor blocks the author of the message or comment named by id.
func (c *Client) BlockAuthor(ctx context.Context, id types.FullName) error {
	switch id.Kind {
	case types.KindComment, types.KindMessage:
	default:
		return pkgerrs.Domain("block author", pkgerrs.ErrInvalidArgument, "can only block the author of a comment or message, got "+id.String())
	}

	form := url.Values{}
	form.Set("id", id.String())
	return c.PostJSON(ctx, "api/block", true, form, nil)
}
