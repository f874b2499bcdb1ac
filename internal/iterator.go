package internal

import (
	"context"
	"errors"

	"github.com/jamesprial/graw/pkg/types"
)

// ErrIteratorDone is returned by Next once an iterator is exhausted.
var ErrIteratorDone = errors.New("no more items available")

// PageFunc fetches the listing page that follows after. An empty after asks
// for the first page.
type PageFunc func(ctx context.Context, after string) (*types.Listing, error)

// Pager walks a listing endpoint page by page following the "after" cursor.
type Pager struct {
	ctx       context.Context
	fetch     PageFunc
	buffer    []*types.Thing
	bufferIdx int
	after     string
	hasMore   bool
	err       error
}

// NewPager creates a pager starting at the first page.
func NewPager(ctx context.Context, fetch PageFunc) *Pager {
	return &Pager{ctx: ctx, fetch: fetch, hasMore: true}
}

// HasNext returns true if there may be more items. A page can turn out empty,
// in which case Next returns ErrIteratorDone.
func (p *Pager) HasNext() bool {
	if p.err != nil {
		return false
	}
	return p.bufferIdx < len(p.buffer) || p.hasMore
}

// Next returns the next child, fetching a new page when the buffer runs out.
func (p *Pager) Next() (*types.Thing, error) {
	for {
		if p.err != nil {
			return nil, p.err
		}

		if p.bufferIdx >= len(p.buffer) {
			if !p.hasMore {
				return nil, ErrIteratorDone
			}
			if err := p.fill(); err != nil {
				return nil, err
			}
			continue
		}

		thing := p.buffer[p.bufferIdx]
		p.bufferIdx++
		if thing != nil {
			return thing, nil
		}
	}
}

func (p *Pager) fill() error {
	listing, err := p.fetch(p.ctx, p.after)
	if err != nil {
		p.err = err
		return err
	}
	if listing == nil {
		listing = &types.Listing{}
	}

	p.buffer = listing.Children
	p.bufferIdx = 0
	p.after = listing.After
	if len(p.buffer) == 0 || listing.After == "" {
		p.hasMore = false
	}
	return nil
}

// Err returns the error that stopped iteration, if any.
func (p *Pager) Err() error {
	return p.err
}

// After returns the cursor of the next page to fetch.
func (p *Pager) After() string {
	return p.after
}

// Reset restarts iteration from the first page.
func (p *Pager) Reset() {
	p.buffer = nil
	p.bufferIdx = 0
	p.after = ""
	p.hasMore = true
	p.err = nil
}

// CommentIterator walks a comment tree without recursion.
type CommentIterator struct {
	stack      []*types.Comment
	depths     map[*types.Comment]int
	depthFirst bool
	filterFunc func(*types.Comment) bool
	maxDepth   int
}

// CommentIteratorOptions provides options for comment iteration.
type CommentIteratorOptions struct {
	// BreadthFirst visits a whole level before the next one.
	BreadthFirst bool
	// FilterFunc drops a comment and its replies when it returns false.
	FilterFunc func(*types.Comment) bool
	// MaxDepth limits descent; top-level comments are depth 0. Zero means unlimited.
	MaxDepth int
}

// NewCommentIterator creates a new iterator for traversing a comment tree.
func NewCommentIterator(comments []*types.Comment, opts *CommentIteratorOptions) *CommentIterator {
	if opts == nil {
		opts = &CommentIteratorOptions{}
	}

	it := &CommentIterator{
		depths:     make(map[*types.Comment]int),
		depthFirst: !opts.BreadthFirst,
		filterFunc: opts.FilterFunc,
		maxDepth:   opts.MaxDepth,
	}
	for _, c := range comments {
		if c != nil {
			it.stack = append(it.stack, c)
			it.depths[c] = 0
		}
	}

	if it.depthFirst {
		reverse(it.stack)
	}
	return it
}

// HasNext returns true if there may be more comments. Filtered comments can
// still make Next return ErrIteratorDone.
func (it *CommentIterator) HasNext() bool {
	return len(it.stack) > 0
}

// Next returns the next comment in the iteration.
func (it *CommentIterator) Next() (*types.Comment, error) {
	for len(it.stack) > 0 {
		var comment *types.Comment
		if it.depthFirst {
			comment = it.stack[len(it.stack)-1]
			it.stack = it.stack[:len(it.stack)-1]
		} else {
			comment = it.stack[0]
			it.stack = it.stack[1:]
		}

		depth := it.depths[comment]
		delete(it.depths, comment)

		if it.filterFunc != nil && !it.filterFunc(comment) {
			continue
		}

		if it.maxDepth == 0 || depth < it.maxDepth {
			replies := Replies(comment)
			for _, reply := range replies {
				it.depths[reply] = depth + 1
			}
			if it.depthFirst {
				start := len(it.stack)
				it.stack = append(it.stack, replies...)
				reverse(it.stack[start:])
			} else {
				it.stack = append(it.stack, replies...)
			}
		}
		return comment, nil
	}
	return nil, ErrIteratorDone
}

func reverse(s []*types.Comment) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
