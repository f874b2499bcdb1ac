package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/graw/pkg/types"
)

func newTestTree(t *testing.T) *CommentTree {
	t.Helper()
	_, comments, _, err := NewParser().ExtractLinkAndComments(decodeCommentPage(t))
	require.NoError(t, err)
	return NewCommentTree(comments)
}

func TestCommentTree(t *testing.T) {
	tree := newTestTree(t)

	ids := func(cs []*types.Comment) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"comment1", "comment2", "reply1", "reply2"}, ids(tree.Flatten()))
	assert.Equal(t, 4, tree.Count())
	assert.Equal(t, 2, tree.GetDepth())
	assert.Len(t, tree.GetTopLevel(), 2)
	assert.Equal(t, []string{"comment1", "reply2"}, ids(tree.GetByAuthor("commenter1")))
	assert.Equal(t, "Deep", tree.GetByID("reply2").Body)
	assert.Nil(t, tree.GetByID("missing"))
	assert.Equal(t, []string{"reply2"}, ids(tree.Filter(func(c *types.Comment) bool { return c.Score < 0 })))
}

func TestCommentTree_Empty(t *testing.T) {
	tree := NewCommentTree(nil)
	assert.Empty(t, tree.Flatten())
	assert.Zero(t, tree.Count())
	assert.Zero(t, tree.GetDepth())
	assert.Empty(t, Replies(nil))
}
