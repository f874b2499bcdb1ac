package internal

import (
	"fmt"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// Parser pulls typed values out of decoded Things.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseListing returns the Listing payload of thing.
func (p *Parser) ParseListing(thing *types.Thing) (*types.Listing, error) {
	if thing == nil {
		return nil, pkgerrs.Decode("parse listing", fmt.Errorf("thing is nil"))
	}
	listing, ok := thing.Listing()
	if !ok {
		return nil, pkgerrs.Decode("parse listing", fmt.Errorf("expected Listing, got %s", thing.Kind))
	}
	return listing, nil
}

// ParseAccount returns the Account payload of thing.
func (p *Parser) ParseAccount(thing *types.Thing) (*types.Account, error) {
	if thing == nil {
		return nil, pkgerrs.Decode("parse account", fmt.Errorf("thing is nil"))
	}
	account, ok := thing.Account()
	if !ok {
		return nil, pkgerrs.Decode("parse account", fmt.Errorf("expected t2 (Account), got %s", thing.Kind))
	}
	return account, nil
}

// ParseSubreddit returns the Subreddit payload of thing.
func (p *Parser) ParseSubreddit(thing *types.Thing) (*types.Subreddit, error) {
	if thing == nil {
		return nil, pkgerrs.Decode("parse subreddit", fmt.Errorf("thing is nil"))
	}
	sub, ok := thing.Subreddit()
	if !ok {
		return nil, pkgerrs.Decode("parse subreddit", fmt.Errorf("expected t5 (Subreddit), got %s", thing.Kind))
	}
	return sub, nil
}

// ExtractLinks returns the links of a listing, skipping other kinds.
func (p *Parser) ExtractLinks(listing *types.Thing) ([]*types.Link, error) {
	l, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}
	return l.Links(), nil
}

// ExtractComments returns the top-level comments of a listing, with their
// replies left in place, and the ids of any "more" stubs at that level.
// A bare t1 is treated as a one-element listing.
func (p *Parser) ExtractComments(thing *types.Thing) ([]*types.Comment, []string, error) {
	if thing == nil {
		return nil, nil, pkgerrs.Decode("extract comments", fmt.Errorf("thing is nil"))
	}
	if c, ok := thing.Comment(); ok {
		return []*types.Comment{c}, nil, nil
	}

	l, err := p.ParseListing(thing)
	if err != nil {
		return nil, nil, err
	}
	return l.Comments(), l.MoreIDs(), nil
}

// ExtractLinkAndComments splits a comment page, which Reddit returns as
// [link_listing, comments_listing]. A single listing holds only comments.
func (p *Parser) ExtractLinkAndComments(response []*types.Thing) (*types.Link, []*types.Comment, []string, error) {
	if len(response) == 0 {
		return nil, nil, nil, pkgerrs.Decode("extract link and comments", fmt.Errorf("empty response"))
	}

	if len(response) == 1 {
		comments, moreIDs, err := p.ExtractComments(response[0])
		return nil, comments, moreIDs, err
	}

	links, err := p.ExtractLinks(response[0])
	if err != nil {
		return nil, nil, nil, err
	}
	var link *types.Link
	if len(links) > 0 {
		link = links[0]
	}

	comments, moreIDs, err := p.ExtractComments(response[1])
	if err != nil {
		return link, nil, nil, err
	}
	return link, comments, moreIDs, nil
}
