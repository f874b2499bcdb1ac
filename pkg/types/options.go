package types

import (
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// TimePeriod is the "t" window used by top/controversial feeds.
type TimePeriod string

const (
	PeriodNow     TimePeriod = "now"
	PeriodToday   TimePeriod = "day"
	PeriodWeek    TimePeriod = "week"
	PeriodMonth   TimePeriod = "month"
	PeriodYear    TimePeriod = "year"
	PeriodAllTime TimePeriod = "all"
)

// Valid reports whether p is empty or one of the known periods.
func (p TimePeriod) Valid() bool {
	switch p {
	case "", PeriodNow, PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAllTime:
		return true
	}
	return false
}

// FeedOptions are the pagination parameters shared by listing endpoints.
// Reddit paginates with FullNames: After/Before name the last/first item seen.
type FeedOptions struct {
	After  string     `url:"after,omitempty"`
	Before string     `url:"before,omitempty"`
	Count  int        `url:"count,omitempty"`
	Limit  int        `url:"limit,omitempty"`
	Period TimePeriod `url:"t,omitempty"`
}

// Values encodes the options as query parameters. A nil receiver encodes nothing.
func (o *FeedOptions) Values() (url.Values, error) {
	if o == nil {
		return url.Values{}, nil
	}
	return query.Values(o)
}

// Extend appends the encoded options to path, joining with '?' or '&' as needed.
func (o *FeedOptions) Extend(path string) (string, error) {
	values, err := o.Values()
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return path, nil
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode(), nil
}

// MessageFolder selects a mailbox for the messages endpoint.
type MessageFolder string

const (
	FolderInbox  MessageFolder = "inbox"
	FolderUnread MessageFolder = "unread"
	FolderSent   MessageFolder = "sent"
)
