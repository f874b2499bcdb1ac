package graw

import (
	"context"
	"net/url"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Sort selects a subreddit feed.
type Sort string

const (
	SortHot           Sort = "hot"
	SortNew           Sort = "new"
	SortTop           Sort = "top"
	SortRising        Sort = "rising"
	SortControversial Sort = "controversial"
)

// SubredditRef addresses one subreddit. An empty name addresses the front page,
// which only supports the feed methods.
type SubredditRef struct {
	client *Client
	name   string
}

// Subreddit returns a reference to r/name. No request is made.
func (c *Client) Subreddit(name string) *SubredditRef {
	return &SubredditRef{client: c, name: name}
}

// Name returns the subreddit name without the "r/" prefix.
func (s *SubredditRef) Name() string {
	return s.name
}

func (s *SubredditRef) validate() error {
	return s.client.validator.ValidateSubredditName(s.name)
}

// About retrieves information about the subreddit.
// This includes subscriber count, description, and other metadata.
//
// Returns an error if:
//   - The name is not a valid subreddit name
//   - The subreddit doesn't exist (ErrNotFound) or is private/banned
//   - The response is not a t5 thing
//
// This method works with every authenticator, including Anonymous.
func (s *SubredditRef) About(ctx context.Context) (*types.Subreddit, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var thing types.Thing
	if err := s.client.GetJSON(ctx, "r/"+s.name+"/about", false, &thing); err != nil {
		return nil, err
	}
	return s.client.parser.ParseSubreddit(&thing)
}

func (s *SubredditRef) feedPath(sort Sort) (string, error) {
	switch sort {
	case SortHot, SortNew, SortTop, SortRising, SortControversial:
	default:
		return "", pkgerrs.Domain("subreddit feed", pkgerrs.ErrInvalidArgument, "unknown sort "+string(sort))
	}
	if s.name == "" {
		return string(sort), nil
	}
	if err := s.validate(); err != nil {
		return "", err
	}
	return "r/" + s.name + "/" + string(sort), nil
}

// Links retrieves one page of the subreddit feed for sort. opts may be nil.
//
// The returned LinksResponse carries the After and Before cursors; pass After
// back in FeedOptions to fetch the next page, or use Iterator.
func (s *SubredditRef) Links(ctx context.Context, sort Sort, opts *types.FeedOptions) (*LinksResponse, error) {
	path, err := s.feedPath(sort)
	if err != nil {
		return nil, err
	}
	listing, err := s.client.listing(ctx, path, false, opts)
	if err != nil {
		return nil, err
	}
	return &LinksResponse{Links: listing.Links(), After: listing.After, Before: listing.Before}, nil
}

// Hot retrieves hot links, ranked by Reddit on recent activity and votes.
func (s *SubredditRef) Hot(ctx context.Context, opts *types.FeedOptions) (*LinksResponse, error) {
	return s.Links(ctx, SortHot, opts)
}

// New retrieves links sorted by submission time, most recent first.
func (s *SubredditRef) New(ctx context.Context, opts *types.FeedOptions) (*LinksResponse, error) {
	return s.Links(ctx, SortNew, opts)
}

// Top retrieves the highest scoring links within opts.Period.
func (s *SubredditRef) Top(ctx context.Context, opts *types.FeedOptions) (*LinksResponse, error) {
	return s.Links(ctx, SortTop, opts)
}

// Rising retrieves links that are gaining votes quickly.
func (s *SubredditRef) Rising(ctx context.Context, opts *types.FeedOptions) (*LinksResponse, error) {
	return s.Links(ctx, SortRising, opts)
}

// Iterator walks the feed for sort across pages, starting from opts.
func (s *SubredditRef) Iterator(ctx context.Context, sort Sort, opts *types.FeedOptions) *ListingIterator {
	path, err := s.feedPath(sort)
	if err != nil {
		return failedIterator(ctx, err)
	}
	return s.client.NewListingIterator(ctx, path, false, opts)
}

// Moderators lists the subreddit's moderators. It requires an OAuth capable
// authenticator.
func (s *SubredditRef) Moderators(ctx context.Context) ([]Moderator, error) {
	return fetchUserList[Moderator](ctx, s, "moderators", nil)
}

// Contributors lists the subreddit's approved submitters. opts may be nil.
// Like Moderators, it requires an OAuth capable authenticator.
func (s *SubredditRef) Contributors(ctx context.Context, opts *types.FeedOptions) ([]Contributor, error) {
	return fetchUserList[Contributor](ctx, s, "contributors", opts)
}

func fetchUserList[T any](ctx context.Context, s *SubredditRef, which string, opts *types.FeedOptions) ([]T, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := s.client.validator.ValidateFeedOptions(opts); err != nil {
		return nil, err
	}
	target, err := opts.Extend("r/" + s.name + "/about/" + which)
	if err != nil {
		return nil, pkgerrs.Domain("encode feed options", pkgerrs.ErrInvalidArgument, err.Error())
	}

	var list userList[T]
	if err := s.client.GetJSON(ctx, target, true, &list); err != nil {
		return nil, err
	}
	if list.Kind != "UserList" {
		return nil, pkgerrs.Decode(which, pkgerrs.ErrUnknownKind)
	}
	return list.Data.Children, nil
}

// AddFriend gives username the relationship typ with the subreddit, e.g.
// FriendContributor approves them as a submitter. The session must moderate
// the subreddit.
//
// Returns an error if:
//   - The subreddit or username is invalid, or typ is empty
//   - Reddit rejects the change, e.g. the user does not exist (ErrAPI)
func (s *SubredditRef) AddFriend(ctx context.Context, username string, typ FriendType) error {
	return s.friend(ctx, "api/friend", username, typ)
}

// RemoveFriend undoes AddFriend for the same username and typ.
func (s *SubredditRef) RemoveFriend(ctx context.Context, username string, typ FriendType) error {
	return s.friend(ctx, "api/unfriend", username, typ)
}

func (s *SubredditRef) friend(ctx context.Context, endpoint, username string, typ FriendType) error {
	op := "subreddit " + endpoint
	if err := s.validate(); err != nil {
		return err
	}
	if err := s.client.validator.ValidateUsername(username); err != nil {
		return err
	}
	if typ == "" {
		return pkgerrs.Domain(op, pkgerrs.ErrInvalidArgument, "relationship type cannot be empty")
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("name", username)
	form.Set("type", string(typ))

	var resp apiResponse
	if err := s.client.PostJSON(ctx, "r/"+s.name+"/"+endpoint, true, form, &resp); err != nil {
		return err
	}
	return resp.err(op)
}

// listing fetches path as a Listing thing.
func (c *Client) listing(ctx context.Context, path string, oauthRequired bool, opts *types.FeedOptions) (*types.Listing, error) {
	if err := c.validator.ValidateFeedOptions(opts); err != nil {
		return nil, err
	}
	target, err := opts.Extend(path)
	if err != nil {
		return nil, pkgerrs.Domain("encode feed options", pkgerrs.ErrInvalidArgument, err.Error())
	}

	var thing types.Thing
	if err := c.GetJSON(ctx, target, oauthRequired, &thing); err != nil {
		return nil, err
	}
	return c.parser.ParseListing(&thing)
}
