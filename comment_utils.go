package graw

import (
	"github.com/jamesprial/graw/internal"
	"github.com/jamesprial/graw/pkg/types"
)

// CommentTree provides utility methods for working with comment trees.
type CommentTree interface {
	Flatten() []*types.Comment
	Filter(func(*types.Comment) bool) []*types.Comment
	Find(func(*types.Comment) bool) *types.Comment
	GetByID(string) *types.Comment
	GetByAuthor(string) []*types.Comment
	GetTopLevel() []*types.Comment
	GetDepth() int
	Count() int
	Walk(func(*types.Comment))
}

// NewCommentTree creates a new CommentTree from a slice of top-level comments.
func NewCommentTree(comments []*types.Comment) CommentTree {
	return internal.NewCommentTree(comments)
}

// CommentIterator walks a comment tree one comment at a time.
type CommentIterator = internal.CommentIterator

// CommentIteratorOptions controls traversal order, filtering and depth.
type CommentIteratorOptions = internal.CommentIteratorOptions

// NewCommentIterator creates a new iterator over comments and their replies.
// A nil opts walks depth-first with no filter or depth limit.
func NewCommentIterator(comments []*types.Comment, opts *CommentIteratorOptions) *CommentIterator {
	return internal.NewCommentIterator(comments, opts)
}
