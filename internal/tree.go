package internal

import "github.com/jamesprial/graw/pkg/types"

// CommentTree provides utility methods for working with comment trees.
type CommentTree struct {
	Comments []*types.Comment
}

// NewCommentTree creates a new CommentTree from a slice of top-level comments.
func NewCommentTree(comments []*types.Comment) *CommentTree {
	return &CommentTree{Comments: comments}
}

// Flatten returns all comments in the tree, parents before their replies.
func (ct *CommentTree) Flatten() []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		result = append(result, c)
	})
	return result
}

// Filter returns comments that match the given filter function.
func (ct *CommentTree) Filter(filterFunc func(*types.Comment) bool) []*types.Comment {
	var result []*types.Comment
	ct.Walk(func(c *types.Comment) {
		if filterFunc(c) {
			result = append(result, c)
		}
	})
	return result
}

// Find returns the first comment, in walk order, that matches the given condition.
func (ct *CommentTree) Find(condition func(*types.Comment) bool) *types.Comment {
	return ct.findRecursive(ct.Comments, condition)
}

func (ct *CommentTree) findRecursive(comments []*types.Comment, condition func(*types.Comment) bool) *types.Comment {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if condition(comment) {
			return comment
		}
		if found := ct.findRecursive(Replies(comment), condition); found != nil {
			return found
		}
	}
	return nil
}

// GetByID returns a comment by its ID.
func (ct *CommentTree) GetByID(id string) *types.Comment {
	return ct.Find(func(c *types.Comment) bool {
		return c.ID == id
	})
}

// GetByAuthor returns all comments by a specific author.
func (ct *CommentTree) GetByAuthor(author string) []*types.Comment {
	return ct.Filter(func(c *types.Comment) bool {
		return c.Author == author
	})
}

// GetTopLevel returns only the top-level comments.
func (ct *CommentTree) GetTopLevel() []*types.Comment {
	return ct.Comments
}

// GetDepth returns the number of reply levels below the top level.
func (ct *CommentTree) GetDepth() int {
	return ct.getDepthRecursive(ct.Comments, 0)
}

func (ct *CommentTree) getDepthRecursive(comments []*types.Comment, currentDepth int) int {
	maxDepth := currentDepth
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		if replies := Replies(comment); len(replies) > 0 {
			if depth := ct.getDepthRecursive(replies, currentDepth+1); depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth
}

// Count returns the total number of comments in the tree.
func (ct *CommentTree) Count() int {
	n := 0
	ct.Walk(func(*types.Comment) { n++ })
	return n
}

// Walk applies fn to each comment in the tree, depth first.
func (ct *CommentTree) Walk(fn func(*types.Comment)) {
	ct.walkRecursive(ct.Comments, fn)
}

func (ct *CommentTree) walkRecursive(comments []*types.Comment, fn func(*types.Comment)) {
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		fn(comment)
		ct.walkRecursive(Replies(comment), fn)
	}
}

// Replies returns the direct reply comments of comment.
func Replies(comment *types.Comment) []*types.Comment {
	if comment == nil {
		return nil
	}
	return comment.Replies.Comments()
}
