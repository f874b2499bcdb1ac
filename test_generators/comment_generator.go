// Package test_generators builds Reddit payloads for tests. Generated values
// marshal to the same kind-tagged JSON Reddit sends, so they can be served by
// a fake server and decoded back through the client.
package test_generators

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/jamesprial/graw/pkg/types"
)

// CommentGenerator generates Reddit comments for testing. IDs are sequential,
// so they are unique within one generator and valid base36.
type CommentGenerator struct {
	rand    *rand.Rand
	next    int64
	linkID  string
	bodies  []string
	users   []string
	created float64
}

// NewCommentGenerator creates a generator for comments on link t3_<linkID>.
// A zero seed uses the current time.
func NewCommentGenerator(seed int64, linkID string) *CommentGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &CommentGenerator{
		rand:   rand.New(rand.NewSource(seed)),
		next:   1000,
		linkID: "t3_" + linkID,
		bodies: []string{
			"I completely agree. This is exactly what I was thinking.",
			"Actually, that is not entirely accurate. Let me explain...",
			"Great point! I've had a similar experience.",
			"Can someone elaborate? I'm not sure I understand.",
			"Counterpoint: what about the edge cases?",
			"Thanks for explaining!",
			"I respectfully disagree.",
		},
		users: []string{
			"thoughtful_commenter", "expert_analyst", "casual_observer", "debate_enthusiast",
			"helpful_explainer", "skeptic_user", "critical_thinker",
		},
		created: 1_700_000_000,
	}
}

// GenerateComment creates a comment replying to parentID.
func (cg *CommentGenerator) GenerateComment(parentID string) *types.Comment {
	cg.next++
	id := strconv.FormatInt(cg.next, 36)
	cg.created += float64(cg.rand.Intn(600))

	score := cg.rand.Intn(50) - 10
	return &types.Comment{
		ThingData: types.ThingData{ID: id, Name: "t1_" + id},
		Votable:   types.Votable{Ups: score},
		Created:   types.Created{Created: cg.created, CreatedUTC: cg.created},
		Author:    cg.users[cg.rand.Intn(len(cg.users))],
		Body:      cg.bodies[cg.rand.Intn(len(cg.bodies))],
		LinkID:    cg.linkID,
		ParentID:  parentID,
		Score:     score,
		Subreddit: "golang",
	}
}

// GenerateThread creates breadth top-level comments, each with breadth replies,
// down to depth levels. depth 1 is a flat list.
func (cg *CommentGenerator) GenerateThread(depth, breadth int) []*types.Comment {
	return cg.generateLevel(cg.linkID, depth, breadth)
}

func (cg *CommentGenerator) generateLevel(parentID string, depth, breadth int) []*types.Comment {
	if depth <= 0 || breadth <= 0 {
		return nil
	}
	comments := make([]*types.Comment, 0, breadth)
	for i := 0; i < breadth; i++ {
		c := cg.GenerateComment(parentID)
		if replies := cg.generateLevel(c.Name, depth-1, breadth); len(replies) > 0 {
			c.Replies = types.Replies{Listing: CommentListing(replies)}
		}
		comments = append(comments, c)
	}
	return comments
}

// CommentListing wraps comments, followed by a "more" stub when moreIDs is
// not empty, as Reddit does for truncated threads.
func CommentListing(comments []*types.Comment, moreIDs ...string) *types.Listing {
	listing := &types.Listing{Children: make([]*types.Thing, 0, len(comments)+1)}
	for _, c := range comments {
		listing.Children = append(listing.Children, &types.Thing{Kind: types.KindComment, Data: c})
	}
	if len(moreIDs) > 0 {
		more := &types.More{
			ThingData: types.ThingData{ID: moreIDs[0], Name: "t1_" + moreIDs[0]},
			Count:     len(moreIDs),
			Children:  moreIDs,
		}
		listing.Children = append(listing.Children, &types.Thing{Kind: types.KindMore, Data: more})
	}
	return listing
}

// CountComments counts comments including nested replies.
func CountComments(comments []*types.Comment) int {
	count := 0
	for _, c := range comments {
		count++
		count += CountComments(c.Replies.Comments())
	}
	return count
}

// GetMaxDepth returns the number of levels in the tree.
func GetMaxDepth(comments []*types.Comment) int {
	maxDepth := 0
	for _, c := range comments {
		if d := 1 + GetMaxDepth(c.Replies.Comments()); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// MustJSON marshals v or panics.
func MustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal %T: %v", v, err))
	}
	return string(b)
}
