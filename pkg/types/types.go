// Package types holds the typed payloads of Reddit API responses and the
// kind-tagged envelope that selects between them.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// ThingData holds the fields every addressable object carries.
type ThingData struct {
	ID   string `json:"id"`   // ID (without prefix)
	Name string `json:"name"` // Full name (e.g., "t3_abc123")
}

// GetID returns the object's ID.
func (td ThingData) GetID() string {
	return td.ID
}

// FullName parses Name. Objects without a well-formed name report an error.
func (td ThingData) FullName() (FullName, error) {
	return ParseFullName(td.Name)
}

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int `json:"ups"`
	Downs int `json:"downs"`
	// Likes indicates the user's vote: true for upvote, false for downvote, null for no vote.
	Likes *bool `json:"likes"`
}

// Created is an embeddable struct for things that have a creation time.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited is false, true (old edits) or an edit timestamp on the wire.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON accepts a boolean, a float timestamp, or null.
func (e *Edited) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "false", "null":
		*e = Edited{}
		return nil
	case "true":
		*e = Edited{IsEdited: true}
		return nil
	}

	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err != nil {
		return fmt.Errorf("unrecognized type for 'edited' field: %s", data)
	}
	*e = Edited{IsEdited: true, Timestamp: timestamp}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (e Edited) MarshalJSON() ([]byte, error) {
	if e.IsEdited && e.Timestamp != 0 {
		return json.Marshal(e.Timestamp)
	}
	return json.Marshal(e.IsEdited)
}

// Replies is the "replies" field of comments and messages: either an empty
// string or a Listing.
type Replies struct {
	*Listing
}

func (r *Replies) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`""`)) || bytes.Equal(data, []byte("null")) {
		r.Listing = nil
		return nil
	}

	var t Thing
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	listing, ok := t.Listing()
	if !ok {
		return fmt.Errorf("replies: expected Listing, got %s", t.Kind)
	}
	r.Listing = listing
	return nil
}

func (r Replies) MarshalJSON() ([]byte, error) {
	if r.Listing == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(Thing{Kind: KindListing, Data: r.Listing})
}

// Listing is a page of Things. Children may mix kinds; their order is the
// order Reddit returned.
type Listing struct {
	Before   string   `json:"before"`
	After    string   `json:"after"`
	Modhash  string   `json:"modhash"`
	Dist     *int     `json:"dist"`
	Children []*Thing `json:"children"`
}

func (*Listing) thingKind() Kind { return KindListing }

// UnmarshalJSON rejects null children so every decoded child is a Thing.
func (l *Listing) UnmarshalJSON(b []byte) error {
	type plain Listing
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	for i, child := range p.Children {
		if child == nil {
			return &pkgerrs.Error{
				Kind:    pkgerrs.KindDecode,
				Op:      "decode Listing data",
				Message: fmt.Sprintf("child %d is null", i),
				Err:     pkgerrs.ErrMissingKind,
			}
		}
	}
	*l = Listing(p)
	return nil
}

// Comments returns the comment children in order.
func (l *Listing) Comments() []*Comment {
	if l == nil {
		return nil
	}
	var out []*Comment
	for _, child := range l.Children {
		if c, ok := child.Comment(); ok {
			out = append(out, c)
		}
	}
	return out
}

// Links returns the link children in order.
func (l *Listing) Links() []*Link {
	if l == nil {
		return nil
	}
	var out []*Link
	for _, child := range l.Children {
		if p, ok := child.Link(); ok {
			out = append(out, p)
		}
	}
	return out
}

// Messages returns the message children in order.
func (l *Listing) Messages() []*Message {
	if l == nil {
		return nil
	}
	var out []*Message
	for _, child := range l.Children {
		if m, ok := child.Message(); ok {
			out = append(out, m)
		}
	}
	return out
}

// Subreddits returns the subreddit children in order.
func (l *Listing) Subreddits() []*Subreddit {
	if l == nil {
		return nil
	}
	var out []*Subreddit
	for _, child := range l.Children {
		if s, ok := child.Subreddit(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Accounts returns the account children in order.
func (l *Listing) Accounts() []*Account {
	if l == nil {
		return nil
	}
	var out []*Account
	for _, child := range l.Children {
		if a, ok := child.Account(); ok {
			out = append(out, a)
		}
	}
	return out
}

// MoreIDs collects the ids of every "more" child.
func (l *Listing) MoreIDs() []string {
	if l == nil {
		return nil
	}
	var out []string
	for _, child := range l.Children {
		if child == nil {
			continue
		}
		if m, ok := child.Data.(*More); ok {
			out = append(out, m.Children...)
		}
	}
	return out
}

// Comment (t1).
type Comment struct {
	ThingData
	Votable
	Created
	ApprovedBy          *string `json:"approved_by"`
	Author              string  `json:"author"`
	AuthorFullname      string  `json:"author_fullname"`
	AuthorFlairCSSClass *string `json:"author_flair_css_class"`
	AuthorFlairText     *string `json:"author_flair_text"`
	BannedBy            *string `json:"banned_by"`
	Body                string  `json:"body"`
	BodyHTML            string  `json:"body_html"`
	Edited              Edited  `json:"edited"`
	Gilded              int     `json:"gilded"`
	LinkAuthor          string  `json:"link_author,omitempty"`
	LinkID              string  `json:"link_id"`
	LinkTitle           string  `json:"link_title,omitempty"`
	LinkURL             string  `json:"link_url,omitempty"`
	NumReports          *int    `json:"num_reports"`
	ParentID            string  `json:"parent_id"`
	Permalink           string  `json:"permalink"`
	Replies             Replies `json:"replies"`
	Saved               bool    `json:"saved"`
	Score               int     `json:"score"`
	ScoreHidden         bool    `json:"score_hidden"`
	Stickied            bool    `json:"stickied"`
	Subreddit           string  `json:"subreddit"`
	SubredditID         string  `json:"subreddit_id"`
	Distinguished       *string `json:"distinguished"`
}

func (*Comment) thingKind() Kind { return KindComment }

// Account (t2).
type Account struct {
	ThingData
	Created
	CommentKarma     int    `json:"comment_karma"`
	LinkKarma        int    `json:"link_karma"`
	TotalKarma       int    `json:"total_karma"`
	AwardeeKarma     int    `json:"awardee_karma"`
	AwarderKarma     int    `json:"awarder_karma"`
	HasMail          *bool  `json:"has_mail"`
	HasModMail       *bool  `json:"has_mod_mail"`
	HasVerifiedEmail *bool  `json:"has_verified_email"`
	IconImg          string `json:"icon_img"`
	SnoovatarImg     string `json:"snoovatar_img"`
	InboxCount       int    `json:"inbox_count,omitempty"`
	IsEmployee       bool   `json:"is_employee"`
	IsFriend         bool   `json:"is_friend"`
	IsGold           bool   `json:"is_gold"`
	IsMod            bool   `json:"is_mod"`
	IsSuspended      bool   `json:"is_suspended"`
	Verified         bool   `json:"verified"`
	Over18           bool   `json:"over_18"`
}

func (*Account) thingKind() Kind { return KindAccount }

// Link (t3) is a submission.
type Link struct {
	ThingData
	Votable
	Created
	Author              string          `json:"author"`
	AuthorFlairCSSClass *string         `json:"author_flair_css_class"`
	AuthorFlairText     *string         `json:"author_flair_text"`
	Clicked             bool            `json:"clicked"`
	Domain              string          `json:"domain"`
	Hidden              bool            `json:"hidden"`
	IsSelf              bool            `json:"is_self"`
	LinkFlairCSSClass   *string         `json:"link_flair_css_class"`
	LinkFlairText       *string         `json:"link_flair_text"`
	Locked              bool            `json:"locked"`
	Media               json.RawMessage `json:"media"`
	NumComments         int             `json:"num_comments"`
	Over18              bool            `json:"over_18"`
	Permalink           string          `json:"permalink"`
	Saved               bool            `json:"saved"`
	Score               int             `json:"score"`
	SelfText            string          `json:"selftext"`
	SelfTextHTML        *string         `json:"selftext_html"`
	Subreddit           string          `json:"subreddit"`
	SubredditID         string          `json:"subreddit_id"`
	Thumbnail           string          `json:"thumbnail"`
	Title               string          `json:"title"`
	URL                 string          `json:"url"`
	Edited              Edited          `json:"edited"`
	Distinguished       *string         `json:"distinguished"`
	Stickied            bool            `json:"stickied"`
}

func (*Link) thingKind() Kind { return KindLink }

// Message (t4) is a private message or comment reply in the inbox.
type Message struct {
	ThingData
	Created
	Author           string  `json:"author"`
	Body             string  `json:"body"`
	BodyHTML         string  `json:"body_html"`
	Context          string  `json:"context"`
	Dest             string  `json:"dest"`
	Distinguished    *string `json:"distinguished"`
	FirstMessage     *int64  `json:"first_message"`
	FirstMessageName *string `json:"first_message_name"`
	Likes            *bool   `json:"likes"`
	LinkTitle        string  `json:"link_title"`
	New              bool    `json:"new"`
	ParentID         *string `json:"parent_id"`
	Replies          Replies `json:"replies"`
	Subject          string  `json:"subject"`
	Subreddit        *string `json:"subreddit"`
	Type             string  `json:"type"`
	WasComment       bool    `json:"was_comment"`
}

func (*Message) thingKind() Kind { return KindMessage }

// Subreddit (t5).
type Subreddit struct {
	ThingData
	Created
	AccountsActive      int     `json:"accounts_active"`
	ActiveUserCount     int     `json:"active_user_count"`
	CommunityIcon       string  `json:"community_icon"`
	Description         string  `json:"description"`
	DescriptionHTML     string  `json:"description_html"`
	DisplayName         string  `json:"display_name"`
	DisplayNamePrefixed string  `json:"display_name_prefixed"`
	HeaderImg           *string `json:"header_img"`
	Over18              bool    `json:"over18"`
	PublicDescription   string  `json:"public_description"`
	Subscribers         int64   `json:"subscribers"`
	SubmissionType      string  `json:"submission_type"`
	SubredditType       string  `json:"subreddit_type"`
	Title               string  `json:"title"`
	URL                 string  `json:"url"`
	UserIsBanned        *bool   `json:"user_is_banned"`
	UserIsContributor   *bool   `json:"user_is_contributor"`
	UserIsModerator     *bool   `json:"user_is_moderator"`
	UserIsSubscriber    *bool   `json:"user_is_subscriber"`
}

func (*Subreddit) thingKind() Kind { return KindSubreddit }

// Award (t6) carries no payload.
type Award struct{}

func (*Award) thingKind() Kind { return KindAward }

// More stands in for comments Reddit truncated from a tree.
type More struct {
	ThingData
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	ParentID string   `json:"parent_id"`
	Children []string `json:"children"`
}

func (*More) thingKind() Kind { return KindMore }
