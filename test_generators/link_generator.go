package test_generators

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jamesprial/graw/pkg/types"
)

// LinkGenerator generates Reddit links (submissions) for testing.
type LinkGenerator struct {
	rand      *rand.Rand
	next      int64
	subreddit string
	titles    []string
	users     []string
}

// NewLinkGenerator creates a generator for links in r/subreddit. A zero seed
// uses the current time.
func NewLinkGenerator(seed int64, subreddit string) *LinkGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &LinkGenerator{
		rand:      rand.New(rand.NewSource(seed)),
		next:      5000,
		subreddit: subreddit,
		titles: []string{
			"Ask %s: how do you structure large projects?",
			"[Discussion] %s in production",
			"PSA: %s has a breaking change",
			"TIL about %s",
			"Analysis: %s under load",
		},
		users: []string{
			"tech_enthusiast", "casual_redditor", "curious_mind",
			"seasoned_veteran", "newbie_user", "power_user",
		},
	}
}

// GenerateLink creates one link.
func (lg *LinkGenerator) GenerateLink() *types.Link {
	lg.next++
	id := strconv.FormatInt(lg.next, 36)
	title := strings.Replace(lg.titles[lg.rand.Intn(len(lg.titles))], "%s", lg.subreddit, 1)
	score := lg.rand.Intn(1000)

	return &types.Link{
		ThingData:   types.ThingData{ID: id, Name: "t3_" + id},
		Votable:     types.Votable{Ups: score},
		Created:     types.Created{Created: 1_700_000_000, CreatedUTC: 1_700_000_000},
		Author:      lg.users[lg.rand.Intn(len(lg.users))],
		Domain:      "self." + lg.subreddit,
		IsSelf:      true,
		NumComments: lg.rand.Intn(200),
		Permalink:   "/r/" + lg.subreddit + "/comments/" + id + "/",
		Score:       score,
		Subreddit:   lg.subreddit,
		Title:       title,
		URL:         "https://www.reddit.com/r/" + lg.subreddit + "/comments/" + id + "/",
	}
}

// GenerateLinks creates count links.
func (lg *LinkGenerator) GenerateLinks(count int) []*types.Link {
	links := make([]*types.Link, count)
	for i := range links {
		links[i] = lg.GenerateLink()
	}
	return links
}

// LinkListing wraps links in a Listing page. after is the next-page cursor.
func LinkListing(links []*types.Link, after string) *types.Listing {
	listing := &types.Listing{After: after, Children: make([]*types.Thing, 0, len(links))}
	for _, l := range links {
		listing.Children = append(listing.Children, &types.Thing{Kind: types.KindLink, Data: l})
	}
	return listing
}

// ListingJSON renders listing as the tagged JSON Reddit sends.
func ListingJSON(listing *types.Listing) string {
	return MustJSON(types.Thing{Kind: types.KindListing, Data: listing})
}

// CommentPageJSON renders the [link listing, comment listing] pair returned by
// /comments/{id}.
func CommentPageJSON(link *types.Link, comments []*types.Comment, moreIDs ...string) string {
	return MustJSON([]types.Thing{
		{Kind: types.KindListing, Data: LinkListing([]*types.Link{link}, "")},
		{Kind: types.KindListing, Data: CommentListing(comments, moreIDs...)},
	})
}
