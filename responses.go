package graw

import (
	"fmt"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// LinksResponse is one page of a subreddit feed.
type LinksResponse struct {
	Links  []*types.Link
	After  string // For pagination
	Before string // For pagination
}

// CommentsResponse represents a link with its comments
type CommentsResponse struct {
	// Link is nil when Reddit returned only the comment listing.
	Link     *types.Link
	Comments []*types.Comment
	MoreIDs  []string // IDs of additional comments that can be loaded
}

// Tree wraps the comments for traversal.
func (r *CommentsResponse) Tree() CommentTree {
	if r == nil {
		return NewCommentTree(nil)
	}
	return NewCommentTree(r.Comments)
}

// Moderator is one entry of a subreddit's moderator list.
type Moderator struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Date        float64  `json:"date"`
	Permissions []string `json:"mod_permissions"`
	AuthorFlair *string  `json:"author_flair_text"`
}

// Contributor is one entry of a subreddit's approved submitter list.
type Contributor struct {
	Name  string  `json:"name"`
	ID    string  `json:"id"`
	RelID string  `json:"rel_id"`
	Date  float64 `json:"date"`
}

// FriendType names a relationship between a user and a subreddit.
type FriendType string

const (
	FriendContributor     FriendType = "contributor"
	FriendModeratorInvite FriendType = "moderator_invite"
	FriendModerator       FriendType = "moderator"
	FriendBanned          FriendType = "banned"
	FriendMuted           FriendType = "muted"
	FriendWikiContributor FriendType = "wikicontributor"
	FriendWikiBanned      FriendType = "wikibanned"
)

// userList is the "UserList" envelope returned by moderator and contributor lists.
type userList[T any] struct {
	Kind string `json:"kind"`
	Data struct {
		Children []T `json:"children"`
	} `json:"data"`
}

// apiResponse is the {"json": {...}} envelope of api_type=json endpoints.
type apiResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []*types.Thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// err reports the first entry of json.errors, e.g. ["USER_DOESNT_EXIST", "that user doesn't exist", "to"].
func (r *apiResponse) err(op string) error {
	if len(r.JSON.Errors) == 0 {
		return nil
	}
	first := r.JSON.Errors[0]
	msg := fmt.Sprint(first...)
	if len(first) >= 2 {
		msg = fmt.Sprintf("%v: %v", first[0], first[1])
	}
	return pkgerrs.Domain(op, pkgerrs.ErrAPI, msg)
}
