package adversarial_tests

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/adversarial_tests/helpers"
	"github.com/jamesprial/graw/pkg/auth"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
	"github.com/jamesprial/graw/test_helpers"
)

// requireRejected asserts err is an invalid argument and that nothing reached
// the server.
func requireRejected(t *testing.T, ms *test_helpers.MockServer, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, pkgerrs.KindDomain, pkgerrs.KindOf(err), err.Error())
	assert.Empty(t, ms.GetRequestLog())
}

// TestSubredditNameFuzzing tests subreddit name validation against injection attacks
func TestSubredditNameFuzzing(t *testing.T) {
	t.Parallel()

	fuzzer := helpers.NewFuzzer(42)
	for _, name := range fuzzer.FuzzSubredditName() {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			t.Parallel()
			ms := test_helpers.NewMockServer(t)
			client := newAnonymousClient(t, ms)
			sub := client.Subreddit(name)

			_, err := sub.About(context.Background())
			requireRejected(t, ms, err)
			assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)

			_, err = sub.Hot(context.Background(), nil)
			requireRejected(t, ms, err)

			it := sub.Iterator(context.Background(), graw.SortNew, nil)
			_, err = it.Next()
			requireRejected(t, ms, err)
			assert.False(t, it.HasNext())
			assert.ErrorIs(t, it.Err(), pkgerrs.ErrInvalidArgument)
		})
	}
}

func TestSubredditNameBoundaries(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)
	fuzzer := helpers.NewFuzzer(42)

	for _, name := range fuzzer.ValidSubredditNames() {
		ms.SetJSON("/r/"+name+"/about", fmt.Sprintf(`{"kind":"t5","data":{"id":"x","name":"t5_x","display_name":%q}}`, name))

		sub, err := client.Subreddit(name).About(context.Background())
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.DisplayName)
	}
	assert.Len(t, ms.GetRequestLog(), len(fuzzer.ValidSubredditNames()))
}

func TestUsernameFuzzing(t *testing.T) {
	t.Parallel()

	fuzzer := helpers.NewFuzzer(7)
	for _, name := range fuzzer.FuzzUsername() {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			t.Parallel()
			ms := test_helpers.NewMockServer(t)
			client := newAnonymousClient(t, ms)

			_, err := client.User(name).About(context.Background())
			requireRejected(t, ms, err)

			_, err = client.User(name).Submitted(context.Background(), nil)
			requireRejected(t, ms, err)

			err = client.Compose(context.Background(), name, "hi", "body")
			requireRejected(t, ms, err)
		})
	}
}

// TestCommentIDFuzzing tests comment ID validation against malicious input
func TestCommentIDFuzzing(t *testing.T) {
	t.Parallel()

	fuzzer := helpers.NewFuzzer(42)
	for _, id := range fuzzer.FuzzCommentID() {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			ms := test_helpers.NewMockServer(t)
			client := newAnonymousClient(t, ms)

			_, err := client.MoreComments(context.Background(), "abc", []string{"good1", id}, nil)
			requireRejected(t, ms, err)
		})
	}
}

func TestCommentIDBatchLimits(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)

	_, err := client.MoreComments(context.Background(), "abc", nil, nil)
	requireRejected(t, ms, err)

	ids := make([]string, 101)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%d", i)
	}
	_, err = client.MoreComments(context.Background(), "abc", ids, nil)
	requireRejected(t, ms, err)
	assert.Contains(t, err.Error(), "101")
}

func TestLinkIDFuzzing(t *testing.T) {
	t.Parallel()

	fuzzer := helpers.NewFuzzer(42)
	for _, id := range fuzzer.FuzzLinkID() {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			ms := test_helpers.NewMockServer(t)
			client := newAnonymousClient(t, ms)

			_, err := client.Comments(context.Background(), id, nil)
			requireRejected(t, ms, err)

			_, err = client.MoreComments(context.Background(), id, []string{"c1"}, nil)
			requireRejected(t, ms, err)

			_, err = client.CommentsMultiple(context.Background(), []string{id}, nil)
			requireRejected(t, ms, err)
		})
	}
}

func TestUserAgentFuzzing(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	fuzzer := helpers.NewFuzzer(1)

	for _, ua := range fuzzer.FuzzUserAgent() {
		cfg := testConfig(ms, nil)
		cfg.UserAgent = ua

		client, err := graw.Login(context.Background(), auth.NewAnonymous(), cfg)
		require.Error(t, err, "%q", ua)
		assert.Nil(t, client)
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
	}
	assert.Empty(t, ms.Grants())
}

func TestFullNameFuzzing(t *testing.T) {
	t.Parallel()

	fuzzer := helpers.NewFuzzer(3)
	for _, s := range fuzzer.FuzzFullName() {
		_, err := types.ParseFullName(s)
		require.Error(t, err, "%q", s)
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidFullName)

		if s != "" {
			var fn types.FullName
			assert.Error(t, fn.UnmarshalText([]byte(s)))
		}
	}
}

// TestRandomIdentifiers throws random strings at every validated entry point.
// Whatever the validator accepts must be safe to put in a path.
func TestRandomIdentifiers(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)
	fuzzer := helpers.NewFuzzer(2024)

	for i := 0; i < 500; i++ {
		s := fuzzer.RandomString(1+i%30, i%2 == 0)

		_, err := client.Subreddit(s).About(context.Background())
		if pkgerrs.KindOf(err) != pkgerrs.KindDomain {
			assert.False(t, strings.ContainsAny(s, "/?#&%\r\n\t\x00 .'\"<>\\-"), "accepted subreddit %q", s)
		}

		_, err = client.User(s).About(context.Background())
		if pkgerrs.KindOf(err) != pkgerrs.KindDomain {
			assert.False(t, strings.ContainsAny(s, "/?#&%\r\n\t\x00 .'\"<>\\"), "accepted username %q", s)
		}
	}

	for _, entry := range ms.GetRequestLog() {
		assert.Equal(t, 3, strings.Count(entry.Path, "/"), entry.Path)
	}
}

func TestFeedOptionsFuzzing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts *types.FeedOptions
	}{
		{"negative limit", &types.FeedOptions{Limit: -1}},
		{"limit over max", &types.FeedOptions{Limit: 101}},
		{"huge limit", &types.FeedOptions{Limit: 1 << 30}},
		{"negative count", &types.FeedOptions{Count: -5}},
		{"both cursors", &types.FeedOptions{After: "t3_a", Before: "t3_b"}},
		{"unknown period", &types.FeedOptions{Period: "decade"}},
		{"period injection", &types.FeedOptions{Period: "week&limit=1000"}},
	}

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Subreddit("golang").Top(context.Background(), tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
		})
	}
	assert.Empty(t, ms.GetRequestLog())
}

func TestCursorIsEscaped(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/r/golang/new", `{"kind":"Listing","data":{"children":[]}}`)
	client := newAnonymousClient(t, ms)

	_, err := client.Subreddit("golang").New(context.Background(), &types.FeedOptions{After: "t3_a&limit=1000"})
	require.NoError(t, err)

	last, err := ms.GetLastRequest("/r/golang/new")
	require.NoError(t, err)
	assert.Equal(t, "t3_a&limit=1000", last.Query.Get("after"))
	assert.Empty(t, last.Query.Get("limit"))
}

func TestBlockAuthorRejectsKinds(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newPasswordClient(t, ms, &fakeClock{})

	for _, fn := range []types.FullName{
		{},
		{Kind: types.KindLink, ID: "abc"},
		{Kind: types.KindAccount, ID: "abc"},
		{Kind: types.KindSubreddit, ID: "abc"},
	} {
		err := client.BlockAuthor(context.Background(), fn)
		require.Error(t, err, fn.String())
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
	}
	assert.Empty(t, ms.GetRequestLog())
}
