package internal

import (
	"fmt"
	"strings"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

const (
	// Subreddit name constraints
	minSubredditLength = 3
	maxSubredditLength = 21

	// Username constraints
	minUsernameLength = 3
	maxUsernameLength = 20

	// Pagination constraints
	maxPaginationLimit = 100

	// Comment ID constraints
	maxCommentIDs = 100
	maxIDLength   = 100

	// User agent constraints
	maxUserAgentLength = 256
)

// Validator provides validation operations for Reddit API parameters.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

func invalid(field, format string, args ...any) error {
	return pkgerrs.Domain("validate "+field, pkgerrs.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ValidateSubredditName checks if a subreddit name is valid according to Reddit's naming rules.
func (v *Validator) ValidateSubredditName(name string) error {
	if name == "" {
		return invalid("subreddit", "subreddit name cannot be empty")
	}
	if len(name) < minSubredditLength {
		return invalid("subreddit", "subreddit name must be at least %d characters", minSubredditLength)
	}
	if len(name) > maxSubredditLength {
		return invalid("subreddit", "subreddit name cannot exceed %d characters", maxSubredditLength)
	}
	if name[0] == '_' || name[len(name)-1] == '_' {
		return invalid("subreddit", "subreddit name cannot start or end with underscore")
	}
	prevWasUnderscore := false
	for i, ch := range name {
		if !isAlnum(ch) && ch != '_' {
			return invalid("subreddit", "subreddit name contains invalid character '%c' at position %d", ch, i)
		}
		if ch == '_' && prevWasUnderscore {
			return invalid("subreddit", "subreddit name cannot contain consecutive underscores")
		}
		prevWasUnderscore = ch == '_'
	}
	return nil
}

// ValidateUsername checks a Reddit username: 3-20 letters, digits, '_' or '-'.
func (v *Validator) ValidateUsername(name string) error {
	if len(name) < minUsernameLength || len(name) > maxUsernameLength {
		return invalid("username", "username must be %d to %d characters", minUsernameLength, maxUsernameLength)
	}
	for i, ch := range name {
		if !isAlnum(ch) && ch != '_' && ch != '-' {
			return invalid("username", "username contains invalid character '%c' at position %d", ch, i)
		}
	}
	return nil
}

// ValidateFeedOptions checks pagination parameters. nil is valid.
func (v *Validator) ValidateFeedOptions(opts *types.FeedOptions) error {
	if opts == nil {
		return nil
	}
	// Reddit API doesn't allow both After and Before to be set
	if opts.After != "" && opts.Before != "" {
		return invalid("feed options", "cannot set both After and Before pagination parameters")
	}
	if opts.Limit < 0 {
		return invalid("feed options", "limit cannot be negative")
	}
	if opts.Limit > maxPaginationLimit {
		return invalid("feed options", "limit cannot exceed %d", maxPaginationLimit)
	}
	if opts.Count < 0 {
		return invalid("feed options", "count cannot be negative")
	}
	if !opts.Period.Valid() {
		return invalid("feed options", "unknown time period %q", opts.Period)
	}
	return nil
}

// ValidateCommentIDs checks a /api/morechildren id batch.
func (v *Validator) ValidateCommentIDs(ids []string) error {
	if len(ids) == 0 {
		return invalid("comment ids", "at least one comment ID is required")
	}
	if len(ids) > maxCommentIDs {
		return invalid("comment ids", "cannot request more than %d comment IDs at once (got %d)", maxCommentIDs, len(ids))
	}
	for i, id := range ids {
		if id == "" {
			return invalid("comment ids", "comment ID at index %d is empty", i)
		}
		if err := validateID(id); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUserAgent validates the User-Agent string to prevent header injection attacks.
func (v *Validator) ValidateUserAgent(ua string) error {
	if len(ua) == 0 {
		return invalid("user agent", "user agent cannot be empty")
	}
	if strings.ContainsAny(ua, "\r\n") {
		return invalid("user agent", "user agent cannot contain newline characters")
	}
	if len(ua) > maxUserAgentLength {
		return invalid("user agent", "user agent too long (max %d characters)", maxUserAgentLength)
	}
	return nil
}

// ValidateLinkID accepts a bare base36 id or a t3 full name and returns the full name.
func (v *Validator) ValidateLinkID(linkID string) (types.FullName, error) {
	if linkID == "" {
		return types.FullName{}, invalid("link id", "link ID is required")
	}
	if !strings.Contains(linkID, "_") {
		if err := validateID(linkID); err != nil {
			return types.FullName{}, err
		}
		return types.FullName{Kind: types.KindLink, ID: linkID}, nil
	}

	fn, err := types.ParseFullName(linkID)
	if err != nil {
		return types.FullName{}, err
	}
	if fn.Kind != types.KindLink {
		return types.FullName{}, invalid("link id", "wrong type prefix %q, expected t3", fn.Kind)
	}
	if err := validateID(fn.ID); err != nil {
		return types.FullName{}, err
	}
	return fn, nil
}

// validateID checks a base36 object id.
func validateID(id string) error {
	if len(id) > maxIDLength {
		return invalid("id", "ID too long (max %d characters)", maxIDLength)
	}
	for _, ch := range id {
		if !isAlnum(ch) {
			return invalid("id", "ID contains invalid character: %c (only alphanumeric allowed)", ch)
		}
	}
	return nil
}

func isAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}
