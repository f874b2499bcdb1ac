package graw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/sync/errgroup"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// CommentsOptions tune a comment page request. The zero value uses Reddit's defaults.
type CommentsOptions struct {
	// Sort is one of confidence, top, new, controversial, old, qa.
	Sort string `url:"sort,omitempty"`
	// Limit caps the number of comments returned.
	Limit int `url:"limit,omitempty"`
	// Depth caps how deep the reply tree goes.
	Depth int `url:"depth,omitempty"`
}

// Comments retrieves a link and its comment tree in one request.
//
// linkID may be a bare id ("abc123") or a t3 full name ("t3_abc123").
//
// Reddit may truncate the comment tree if there are too many comments. The
// MoreIDs field of the response holds the ids that MoreComments can load.
//
// Returns an error if:
//   - linkID is malformed
//   - The link doesn't exist (ErrNotFound) or is in a private subreddit
//   - The body is not a [Listing, Listing] pair or a single comment Listing
func (c *Client) Comments(ctx context.Context, linkID string, opts *CommentsOptions) (*CommentsResponse, error) {
	fn, err := c.validator.ValidateLinkID(linkID)
	if err != nil {
		return nil, err
	}

	path := "comments/" + fn.ID
	if opts != nil {
		values, err := query.Values(opts)
		if err != nil {
			return nil, pkgerrs.Domain("comments", pkgerrs.ErrInvalidArgument, err.Error())
		}
		if len(values) > 0 {
			path += "?" + values.Encode()
		}
	}

	var raw json.RawMessage
	if err := c.GetJSON(ctx, path, false, &raw); err != nil {
		return nil, err
	}

	things, err := decodeCommentPage(raw)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("decoded comment page", "link", fn.String(), "listings", len(things))

	link, comments, moreIDs, err := c.parser.ExtractLinkAndComments(things)
	if err != nil {
		return nil, err
	}
	return &CommentsResponse{Link: link, Comments: comments, MoreIDs: moreIDs}, nil
}

// decodeCommentPage accepts the usual [link, comments] array as well as a bare
// comments Listing, which some endpoints return.
func decodeCommentPage(raw []byte) ([]*types.Thing, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, pkgerrs.Decode("decode comment page", fmt.Errorf("empty response"))
	}
	if raw[0] == '[' {
		return types.DecodeListingArray(raw)
	}

	thing, err := types.DecodeThing(raw)
	if err != nil {
		return nil, err
	}
	if thing.Kind != types.KindListing {
		return nil, pkgerrs.Decode("decode comment page", fmt.Errorf("unexpected response kind: %s", thing.Kind))
	}
	return []*types.Thing{thing}, nil
}

// CommentsMultiple loads the comment pages of several links concurrently.
// Results are in the order of linkIDs. The first failure cancels the
// remaining requests and is returned.
func (c *Client) CommentsMultiple(ctx context.Context, linkIDs []string, opts *CommentsOptions) ([]*CommentsResponse, error) {
	results := make([]*CommentsResponse, len(linkIDs))
	if len(linkIDs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range linkIDs {
		g.Go(func() error {
			resp, err := c.Comments(gctx, id, opts)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MoreCommentsOptions tune a /api/morechildren request.
type MoreCommentsOptions struct {
	Sort  string
	Depth int
	// Limit sets limit_children.
	Limit int
}

// MoreComments loads comments that Reddit truncated from a comment page,
// typically the MoreIDs of a CommentsResponse. At most 100 ids can be
// requested at once. The returned comments are in Reddit's order, not
// necessarily the order of ids.
func (c *Client) MoreComments(ctx context.Context, linkID string, ids []string, opts *MoreCommentsOptions) ([]*types.Comment, error) {
	fn, err := c.validator.ValidateLinkID(linkID)
	if err != nil {
		return nil, err
	}
	if err := c.validator.ValidateCommentIDs(ids); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("link_id", fn.String())
	form.Set("children", strings.Join(ids, ","))
	if opts != nil {
		if opts.Sort != "" {
			form.Set("sort", opts.Sort)
		}
		if opts.Depth > 0 {
			form.Set("depth", strconv.Itoa(opts.Depth))
		}
		if opts.Limit > 0 {
			form.Set("limit_children", strconv.Itoa(opts.Limit))
		}
	}

	var resp apiResponse
	if err := c.PostJSON(ctx, "api/morechildren", false, form, &resp); err != nil {
		return nil, err
	}
	if err := resp.err("more comments"); err != nil {
		return nil, err
	}

	var comments []*types.Comment
	for _, thing := range resp.JSON.Data.Things {
		if thing == nil {
			continue
		}
		if comment, ok := thing.Comment(); ok {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}
