package graw

import (
	"context"
	"errors"

	"github.com/jamesprial/graw/internal"
	"github.com/jamesprial/graw/pkg/types"
)

// ErrIteratorDone is returned by Next once there is nothing left.
var ErrIteratorDone = internal.ErrIteratorDone

// ListingIterator paginates through a listing endpoint following Reddit's
// "after" cursor. Children are returned as Things, so mixed listings such as
// a user overview keep their order.
type ListingIterator struct {
	pager *internal.Pager
}

// NewListingIterator iterates over path, which must answer with a Listing.
// opts sets the page size and period; its After is the starting cursor.
func (c *Client) NewListingIterator(ctx context.Context, path string, oauthRequired bool, opts *types.FeedOptions) *ListingIterator {
	base := types.FeedOptions{Limit: 100}
	if opts != nil {
		base = *opts
	}
	start := base.After

	fetch := func(ctx context.Context, after string) (*types.Listing, error) {
		page := base
		page.Before = ""
		page.After = after
		if after == "" {
			page.After = start
		}
		return c.listing(ctx, path, oauthRequired, &page)
	}
	return &ListingIterator{pager: internal.NewPager(ctx, fetch)}
}

// failedIterator returns an iterator whose first Next reports err.
func failedIterator(ctx context.Context, err error) *ListingIterator {
	return &ListingIterator{pager: internal.NewPager(ctx, func(context.Context, string) (*types.Listing, error) {
		return nil, err
	})}
}

// HasNext returns true if there may be more items.
func (it *ListingIterator) HasNext() bool {
	return it.pager.HasNext()
}

// Next returns the next child, fetching another page when needed.
func (it *ListingIterator) Next() (*types.Thing, error) {
	return it.pager.Next()
}

// NextLink skips non-link children and returns the next link.
func (it *ListingIterator) NextLink() (*types.Link, error) {
	for {
		thing, err := it.pager.Next()
		if err != nil {
			return nil, err
		}
		if link, ok := thing.Link(); ok {
			return link, nil
		}
	}
}

// Err returns any error encountered during iteration.
func (it *ListingIterator) Err() error {
	return it.pager.Err()
}

// Reset restarts iteration from the first page.
func (it *ListingIterator) Reset() {
	it.pager.Reset()
}

// Collect fetches all remaining items up to a maximum limit. A limit of zero
// or less means no limit.
func (it *ListingIterator) Collect(maxItems int) ([]*types.Thing, error) {
	var things []*types.Thing
	for it.HasNext() && (maxItems <= 0 || len(things) < maxItems) {
		thing, err := it.Next()
		if errors.Is(err, ErrIteratorDone) {
			break
		}
		if err != nil {
			return things, err
		}
		things = append(things, thing)
	}
	return things, nil
}
