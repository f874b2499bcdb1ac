package graw

import (
	"context"

	"github.com/jamesprial/graw/pkg/types"
)

// UserRef addresses one Reddit account.
type UserRef struct {
	client *Client
	name   string
}

// User returns a reference to u/name. No request is made.
func (c *Client) User(name string) *UserRef {
	return &UserRef{client: c, name: name}
}

// Name returns the username without the "u/" prefix.
func (u *UserRef) Name() string {
	return u.name
}

// About retrieves the public profile of the user.
func (u *UserRef) About(ctx context.Context) (*types.Account, error) {
	if err := u.client.validator.ValidateUsername(u.name); err != nil {
		return nil, err
	}

	var thing types.Thing
	if err := u.client.GetJSON(ctx, "user/"+u.name+"/about", false, &thing); err != nil {
		return nil, err
	}
	return u.client.parser.ParseAccount(&thing)
}

// Overview retrieves the user's links and comments interleaved, newest first.
// Use Listing.Links and Listing.Comments to split them.
func (u *UserRef) Overview(ctx context.Context, opts *types.FeedOptions) (*types.Listing, error) {
	return u.history(ctx, "overview", false, opts)
}

// Comments retrieves the user's comments.
func (u *UserRef) Comments(ctx context.Context, opts *types.FeedOptions) ([]*types.Comment, error) {
	listing, err := u.history(ctx, "comments", false, opts)
	if err != nil {
		return nil, err
	}
	return listing.Comments(), nil
}

// Submitted retrieves the user's links.
func (u *UserRef) Submitted(ctx context.Context, opts *types.FeedOptions) ([]*types.Link, error) {
	listing, err := u.history(ctx, "submitted", false, opts)
	if err != nil {
		return nil, err
	}
	return listing.Links(), nil
}

// Saved retrieves what the user saved. Reddit only shows this to the user
// themselves, so it needs an OAuth capable authenticator.
func (u *UserRef) Saved(ctx context.Context, opts *types.FeedOptions) (*types.Listing, error) {
	return u.history(ctx, "saved", true, opts)
}

// Upvoted retrieves what the user upvoted. Like Saved, it needs OAuth.
func (u *UserRef) Upvoted(ctx context.Context, opts *types.FeedOptions) (*types.Listing, error) {
	return u.history(ctx, "upvoted", true, opts)
}

// Downvoted retrieves what the user downvoted. Like Saved, it needs OAuth.
func (u *UserRef) Downvoted(ctx context.Context, opts *types.FeedOptions) (*types.Listing, error) {
	return u.history(ctx, "downvoted", true, opts)
}

func (u *UserRef) history(ctx context.Context, where string, oauthRequired bool, opts *types.FeedOptions) (*types.Listing, error) {
	if err := u.client.validator.ValidateUsername(u.name); err != nil {
		return nil, err
	}
	return u.client.listing(ctx, "user/"+u.name+"/"+where, oauthRequired, opts)
}
