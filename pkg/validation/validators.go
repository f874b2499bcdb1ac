// Package validation checks decoded Reddit objects for values Reddit should
// never send: malformed ids, impossible timestamps, negative counts. Decoding
// only enforces the fields a kind cannot work without; these checks are for
// callers that want to notice drift in the rest of the payload.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jamesprial/graw/pkg/types"
)

// Regular expressions for validating Reddit data formats
var (
	// base36Regex matches base36 encoded IDs (0-9, a-z)
	base36Regex = regexp.MustCompile(`^[0-9a-z]+$`)

	// subredditRegex matches subreddit names as they appear on objects. Some
	// old subreddits have two-letter names.
	subredditRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{2,21}$`)

	// usernameRegex matches valid Reddit usernames (3-20 chars, alphanumeric + underscore + hyphen)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

	// fullnameRegex matches Reddit fullname IDs (type prefix + base36 ID)
	fullnameRegex = regexp.MustCompile(`^t[1-6]_[0-9a-z]+$`)

	// permalinkRegex matches /r/{subreddit}/comments/{link_id}/ with an
	// optional title slug and comment id.
	permalinkRegex = regexp.MustCompile(`^/r/[a-zA-Z0-9_]{2,21}/comments/[0-9a-z]+/([^/]+/)?([0-9a-z]+/?)?$`)
)

// Reddit went live in June 2005; nothing was created before it.
var redditFounded = time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC)

// Clock skew tolerated for creation times in the future.
const maxClockSkew = time.Hour

// Length limits Reddit enforces on submissions.
const (
	maxTitleLength       = 300
	maxCommentBodyLength = 10000
)

const deletedAuthor = "[deleted]"

// IsValidBase36 checks if a string is a valid base36 encoded ID
func IsValidBase36(s string) bool {
	return base36Regex.MatchString(s)
}

// IsValidSubreddit checks if a string is a valid subreddit name
func IsValidSubreddit(s string) bool {
	return subredditRegex.MatchString(s)
}

// IsValidUsername checks if a string is a valid Reddit username
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsValidFullname checks if a string is a valid Reddit fullname ID
func IsValidFullname(s string) bool {
	return fullnameRegex.MatchString(s)
}

// IsValidPermalink checks if a string is a valid Reddit permalink
func IsValidPermalink(s string) bool {
	return permalinkRegex.MatchString(s)
}

// Checker validates decoded objects. The zero value is ready to use and
// judges timestamps against the system clock.
type Checker struct {
	// Now reports the current time. nil means time.Now.
	Now func() time.Time
}

// Check validates a Thing's payload with the zero Checker.
func Check(t *types.Thing) error {
	var c Checker
	return c.Thing(t)
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Thing validates t's payload according to its kind. Listings are checked
// child by child. Kinds without checks are accepted.
func (c *Checker) Thing(t *types.Thing) error {
	if t == nil {
		return errors.New("thing is nil")
	}

	switch data := t.Data.(type) {
	case *types.Comment:
		return c.Comment(data)
	case *types.Account:
		return c.Account(data)
	case *types.Link:
		return c.Link(data)
	case *types.Message:
		return c.Message(data)
	case *types.Subreddit:
		return c.Subreddit(data)
	case *types.More:
		return c.More(data)
	case *types.Listing:
		return c.Listing(data)
	}
	return nil
}

// Listing validates every child, reporting each failure with its index.
func (c *Checker) Listing(l *types.Listing) error {
	if l == nil {
		return errors.New("listing is nil")
	}

	var errs []error
	for i, child := range l.Children {
		if err := c.Thing(child); err != nil {
			errs = append(errs, fmt.Errorf("child %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// thingData checks the id and, when present, the full name.
func thingData(td types.ThingData) []error {
	var errs []error
	if td.ID == "" {
		errs = append(errs, errors.New("ID is required"))
	} else if !IsValidBase36(td.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", td.ID))
	}
	if td.Name != "" && !IsValidFullname(td.Name) {
		errs = append(errs, fmt.Errorf("Name has invalid fullname format: %s", td.Name))
	}
	return errs
}

func (c *Checker) created(cr types.Created) []error {
	var errs []error
	if cr.CreatedUTC <= 0 {
		return append(errs, fmt.Errorf("CreatedUTC must be positive, got %f", cr.CreatedUTC))
	}

	created := time.Unix(int64(cr.CreatedUTC), 0)
	if created.After(c.now().Add(maxClockSkew)) {
		errs = append(errs, fmt.Errorf("CreatedUTC is in the future: %f", cr.CreatedUTC))
	}
	if created.Before(redditFounded) {
		errs = append(errs, fmt.Errorf("CreatedUTC is before Reddit existed: %f", cr.CreatedUTC))
	}
	return errs
}

func author(name string) error {
	switch {
	case name == "":
		return errors.New("Author is required")
	case name != deletedAuthor && !IsValidUsername(name):
		return fmt.Errorf("Author has invalid username format: %s", name)
	}
	return nil
}

func subreddit(name, id string) []error {
	var errs []error
	if name == "" {
		errs = append(errs, errors.New("Subreddit is required"))
	} else if !IsValidSubreddit(name) {
		errs = append(errs, fmt.Errorf("Subreddit has invalid format: %s", name))
	}
	if id != "" && !IsValidFullname(id) {
		errs = append(errs, fmt.Errorf("SubredditID has invalid fullname format: %s", id))
	}
	return errs
}

// wrap joins errs under a label naming the object, or returns nil.
func wrap(label, name string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if name != "" {
		label += " " + name
	}
	return fmt.Errorf("%s: %w", label, errors.Join(errs...))
}

// Link validates a submission.
func (c *Checker) Link(l *types.Link) error {
	if l == nil {
		return errors.New("link is nil")
	}

	errs := thingData(l.ThingData)
	errs = append(errs, c.created(l.Created)...)
	errs = append(errs, subreddit(l.Subreddit, l.SubredditID)...)
	if err := author(l.Author); err != nil {
		errs = append(errs, err)
	}

	if l.Title == "" {
		errs = append(errs, errors.New("Title is required"))
	} else if len(l.Title) > maxTitleLength {
		errs = append(errs, fmt.Errorf("Title exceeds %d character limit (%d chars)", maxTitleLength, len(l.Title)))
	}

	if l.Permalink == "" {
		errs = append(errs, errors.New("Permalink is required"))
	} else if !IsValidPermalink(l.Permalink) {
		errs = append(errs, fmt.Errorf("Permalink has invalid format: %s", l.Permalink))
	}

	if l.URL == "" {
		errs = append(errs, errors.New("URL is required"))
	}
	if l.NumComments < 0 {
		errs = append(errs, fmt.Errorf("NumComments cannot be negative, got %d", l.NumComments))
	}
	// Downs is always 0 (deprecated by Reddit)
	if l.Downs != 0 {
		errs = append(errs, fmt.Errorf("Downs should be 0, got %d", l.Downs))
	}

	return wrap("link", l.Name, errs)
}

// Comment validates a comment and, recursively, its loaded replies.
func (c *Checker) Comment(cm *types.Comment) error {
	if cm == nil {
		return errors.New("comment is nil")
	}

	errs := thingData(cm.ThingData)
	errs = append(errs, c.created(cm.Created)...)
	errs = append(errs, subreddit(cm.Subreddit, cm.SubredditID)...)
	if err := author(cm.Author); err != nil {
		errs = append(errs, err)
	}

	if len(cm.Body) > maxCommentBodyLength {
		errs = append(errs, fmt.Errorf("Body exceeds %d character limit (%d chars)", maxCommentBodyLength, len(cm.Body)))
	}

	if cm.ParentID == "" {
		errs = append(errs, errors.New("ParentID is required"))
	} else if !IsValidFullname(cm.ParentID) {
		errs = append(errs, fmt.Errorf("ParentID has invalid fullname format: %s", cm.ParentID))
	}

	if cm.LinkID == "" {
		errs = append(errs, errors.New("LinkID is required"))
	} else if !IsValidFullname(cm.LinkID) {
		errs = append(errs, fmt.Errorf("LinkID has invalid fullname format: %s", cm.LinkID))
	}

	if cm.Replies.Listing != nil {
		if err := c.Listing(cm.Replies.Listing); err != nil {
			errs = append(errs, fmt.Errorf("replies: %w", err))
		}
	}

	return wrap("comment", cm.Name, errs)
}

// Subreddit validates a subreddit's about data.
func (c *Checker) Subreddit(s *types.Subreddit) error {
	if s == nil {
		return errors.New("subreddit is nil")
	}

	errs := thingData(s.ThingData)
	if s.DisplayName == "" {
		errs = append(errs, errors.New("DisplayName is required"))
	} else if !IsValidSubreddit(s.DisplayName) {
		errs = append(errs, fmt.Errorf("DisplayName has invalid format: %s", s.DisplayName))
	}
	if s.Subscribers < 0 {
		errs = append(errs, fmt.Errorf("Subscribers cannot be negative, got %d", s.Subscribers))
	}

	return wrap("subreddit", s.Name, errs)
}

// Message validates a private message or inbox reply.
func (c *Checker) Message(m *types.Message) error {
	if m == nil {
		return errors.New("message is nil")
	}

	errs := thingData(m.ThingData)
	errs = append(errs, c.created(m.Created)...)
	if err := author(m.Author); err != nil {
		errs = append(errs, err)
	}
	if m.Subject == "" {
		errs = append(errs, errors.New("Subject is required"))
	}
	if m.ParentID != nil && *m.ParentID != "" && !IsValidFullname(*m.ParentID) {
		errs = append(errs, fmt.Errorf("ParentID has invalid fullname format: %s", *m.ParentID))
	}

	return wrap("message", m.Name, errs)
}

// Account validates a user's about data. Accounts carry their bare name in
// Name, not a full name.
func (c *Checker) Account(a *types.Account) error {
	if a == nil {
		return errors.New("account is nil")
	}

	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("ID is required"))
	} else if !IsValidBase36(a.ID) {
		errs = append(errs, fmt.Errorf("ID has invalid format: %s", a.ID))
	}
	if !IsValidUsername(a.Name) {
		errs = append(errs, fmt.Errorf("Name has invalid username format: %s", a.Name))
	}
	errs = append(errs, c.created(a.Created)...)

	return wrap("account", a.Name, errs)
}

// More validates a truncated-comments placeholder.
func (c *Checker) More(m *types.More) error {
	if m == nil {
		return errors.New("more is nil")
	}

	var errs []error
	for i, childID := range m.Children {
		if !IsValidBase36(childID) {
			errs = append(errs, fmt.Errorf("Child ID at index %d has invalid format: %s", i, childID))
		}
	}
	if m.Count < 0 {
		errs = append(errs, fmt.Errorf("Count cannot be negative, got %d", m.Count))
	}

	return wrap("more", m.Name, errs)
}
