package graw

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jamesprial/graw/pkg/auth"
	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
	"github.com/jamesprial/graw/test_helpers"
)

// fakeClock is a settable epoch-millisecond clock.
type fakeClock struct{ millis atomic.Int64 }

func (c *fakeClock) Now() time.Time   { return time.UnixMilli(c.millis.Load()) }
func (c *fakeClock) Set(millis int64) { c.millis.Store(millis) }

func testConfig(ms *test_helpers.MockServer) *Config {
	return &Config{
		UserAgent:  test_helpers.UserAgent,
		OAuthURL:   ms.OAuthURL(),
		PublicURL:  ms.PublicURL(),
		AuthURL:    ms.AuthURL(),
		HTTPClient: ms.HTTPClient(),
	}
}

func newPasswordClient(t *testing.T, ms *test_helpers.MockServer, clock *fakeClock) *Client {
	t.Helper()
	a := auth.NewPassword(test_helpers.ClientID, test_helpers.ClientSecret, "alice", "hunter2", auth.WithClock(clock.Now))
	client, err := Login(context.Background(), a, testConfig(ms))
	require.NoError(t, err)
	return client
}

func newAnonymousClient(t *testing.T, ms *test_helpers.MockServer) *Client {
	t.Helper()
	client, err := Login(context.Background(), auth.NewAnonymous(), testConfig(ms))
	require.NoError(t, err)
	return client
}

func get(t *testing.T, c *Client, path string) {
	t.Helper()
	resp, err := c.Get(context.Background(), path, false)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
}

func TestLogin_RefreshesOncePerExpiredRequest(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/api/v1/me", `{"id":"u1","name":"alice"}`)
	clock := &fakeClock{}
	client := newPasswordClient(t, ms, clock)
	require.Len(t, ms.Grants(), 1)

	get(t, client, "api/v1/me")
	require.Len(t, ms.Grants(), 1)
	last, err := ms.GetLastRequest("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-1", last.Headers.Get("Authorization"))
	assert.Equal(t, test_helpers.UserAgent, last.Headers.Get("User-Agent"))

	clock.Set(3_600_000)
	assert.True(t, client.NeedsRefresh())
	get(t, client, "api/v1/me")
	require.Len(t, ms.Grants(), 2)
	assert.Equal(t, "password", ms.Grants()[1].Get("grant_type"))
	last, err = ms.GetLastRequest("/api/v1/me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-2", last.Headers.Get("Authorization"))

	get(t, client, "api/v1/me")
	assert.Len(t, ms.Grants(), 2)
	assert.False(t, client.NeedsRefresh())
}

func TestLogin_Errors(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ctx := context.Background()

	t.Run("nil authenticator", func(t *testing.T) {
		_, err := Login(ctx, nil, testConfig(ms))
		require.Error(t, err)
		assert.Equal(t, pkgerrs.KindDomain, pkgerrs.KindOf(err))
	})

	t.Run("relative url", func(t *testing.T) {
		cfg := testConfig(ms)
		cfg.OAuthURL = "oauth.reddit.com"
		_, err := Login(ctx, auth.NewAnonymous(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "OAuthURL")
	})

	t.Run("user agent injection", func(t *testing.T) {
		cfg := testConfig(ms)
		cfg.UserAgent = "bot/1.0\r\nX-Evil: 1"
		_, err := Login(ctx, auth.NewAnonymous(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
	})

	t.Run("negative rate limit", func(t *testing.T) {
		cfg := testConfig(ms)
		cfg.RateLimit = &RateLimitConfig{RequestsPerMinute: -1}
		_, err := Login(ctx, auth.NewAnonymous(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrs.ErrInvalidArgument)
	})
}

func TestLogin_GrantRejected(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetGrantStatus(http.StatusUnauthorized)

	a := auth.NewPassword(test_helpers.ClientID, test_helpers.ClientSecret, "alice", "wrong")
	_, err := Login(context.Background(), a, testConfig(ms))
	require.Error(t, err)
	assert.Equal(t, pkgerrs.KindHTTP, pkgerrs.KindOf(err))
	assert.Equal(t, http.StatusUnauthorized, pkgerrs.StatusCode(err))
}

func TestLogin_DoesNotModifyConfig(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	cfg := &Config{OAuthURL: ms.OAuthURL(), PublicURL: ms.PublicURL(), AuthURL: ms.AuthURL()}
	_, err := Login(context.Background(), auth.NewAnonymous(), cfg)
	require.NoError(t, err)
	assert.Empty(t, cfg.UserAgent)
	assert.Nil(t, cfg.HTTPClient)
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	anon := newAnonymousClient(t, ms)
	user := newPasswordClient(t, ms, &fakeClock{})

	assert.Equal(t, ms.PublicURL()+"/r/golang/about", anon.BuildURL("r/golang/about", false))
	assert.Equal(t, ms.PublicURL()+"/r/golang/about", anon.BuildURL("/r/golang/about", false))
	assert.Equal(t, ms.OAuthURL()+"/r/golang/about", user.BuildURL("r/golang/about", false))
	assert.Equal(t, ms.OAuthURL()+"/api/v1/me", user.BuildURL("api/v1/me", true))

	assert.Panics(t, func() { anon.BuildURL("api/v1/me", true) })
	assert.Panics(t, func() { _, _ = anon.Get(context.Background(), "api/v1/me", true) })
}

func TestBuildURL_DefaultHosts(t *testing.T) {
	t.Parallel()

	c := &Client{oauthURL: DefaultOAuthURL, publicURL: DefaultPublicURL}
	assert.Equal(t, "https://api.reddit.com/r/golang/hot", c.BuildURL("r/golang/hot", false))
	c.supportsOAuth = true
	assert.Equal(t, "https://oauth.reddit.com/r/golang/hot", c.BuildURL("r/golang/hot", false))
}

func TestAnonymous_SendsNoAuthorization(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/r/golang/about", `{"kind":"t5","data":{"id":"2rc7j","name":"t5_2rc7j","display_name":"golang"}}`)
	client := newAnonymousClient(t, ms)

	get(t, client, "r/golang/about")
	last, err := ms.GetLastRequest("/r/golang/about")
	require.NoError(t, err)
	assert.Equal(t, test_helpers.HostPublic, last.Host)
	assert.Empty(t, last.Headers.Get("Authorization"))
	assert.Empty(t, ms.Grants())
	assert.False(t, client.SupportsOAuth())
}

func TestGetJSON_Errors(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/unknown-kind", `{"kind":"t9","data":{}}`)
	ms.SetJSON("/garbage", `<html>`)
	ms.SetJSON("/missing-field", `{"kind":"t3","data":{"id":"a","name":"t3_a"}}`)
	ms.SetResponse("/forbidden", &test_helpers.MockResponse{Status: http.StatusForbidden, Body: `{"reason":"private"}`})
	client := newPasswordClient(t, ms, &fakeClock{})
	ctx := context.Background()

	var thing struct{}
	err := client.GetJSON(ctx, "nope", false, &thing)
	require.Error(t, err)
	assert.True(t, pkgerrs.IsNotFound(err))
	assert.Equal(t, pkgerrs.KindHTTP, pkgerrs.KindOf(err))
	assert.Equal(t, http.StatusNotFound, pkgerrs.StatusCode(err))

	err = client.GetJSON(ctx, "forbidden", false, &thing)
	require.Error(t, err)
	assert.False(t, pkgerrs.IsNotFound(err))
	assert.Equal(t, http.StatusForbidden, pkgerrs.StatusCode(err))
	var apiErr *pkgerrs.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Body, "private")

	tests := []struct {
		path   string
		target error
	}{
		{"unknown-kind", pkgerrs.ErrUnknownKind},
		{"missing-field", pkgerrs.ErrMissingField},
		{"garbage", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var v types.Thing
			err := client.GetJSON(ctx, tt.path, false, &v)
			require.Error(t, err)
			assert.Equal(t, pkgerrs.KindDecode, pkgerrs.KindOf(err))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestGet_TransportError(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)
	ms.Close()

	_, err := client.Get(context.Background(), "r/golang/about", false)
	require.Error(t, err)
	assert.Equal(t, pkgerrs.KindTransport, pkgerrs.KindOf(err))
}

func TestGet_ContextCanceled(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "r/golang/about", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPost_SendsForm(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/api/echo", `{}`)
	client := newPasswordClient(t, ms, &fakeClock{})

	form := url.Values{"text": {"hello world"}}
	require.NoError(t, client.PostJSON(context.Background(), "api/echo", true, form, nil))

	last, err := ms.GetLastRequest("/api/echo")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "hello world", last.Form.Get("text"))
	assert.True(t, strings.HasPrefix(last.Headers.Get("Content-Type"), "application/x-www-form-urlencoded"))
}

func TestRefreshFailure_IsReturned(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	clock := &fakeClock{}
	client := newPasswordClient(t, ms, clock)

	clock.Set(3_600_000)
	ms.SetGrantStatus(http.StatusServiceUnavailable)
	_, err := client.Get(context.Background(), "api/v1/me", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, pkgerrs.StatusCode(err))
	assert.Equal(t, 0, ms.GetCallCount("/api/v1/me"))
	assert.True(t, client.NeedsRefresh())
}

func TestSharedStore_ConcurrentRefresh(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetJSON("/api/v1/me", `{"id":"u1","name":"alice"}`)
	ms.SetGrantDelay(20 * time.Millisecond)
	clock := &fakeClock{}
	client := newPasswordClient(t, ms, clock)
	clock.Set(3_600_000)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		handle := client.Clone()
		g.Go(func() error {
			resp, err := handle.Get(ctx, "api/v1/me", false)
			if err != nil {
				return err
			}
			return resp.Body.Close()
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, ms.Grants(), 2)
	for _, entry := range ms.GetRequestLog() {
		assert.Equal(t, "Bearer access-2", entry.Headers.Get("Authorization"))
	}
}

func TestClone_SharesCredentials(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	clock := &fakeClock{}
	client := newPasswordClient(t, ms, clock)
	clone := client.Clone()
	require.Same(t, client.creds, clone.creds)

	clock.Set(3_600_000)
	_, err := clone.AccessToken(context.Background())
	require.NoError(t, err)
	assert.False(t, client.NeedsRefresh())

	require.NoError(t, clone.Logout(context.Background()))
	require.Len(t, ms.Revokes(), 1)
	assert.Equal(t, "access_token", ms.Revokes()[0].Get("token_type_hint"))
	assert.Equal(t, "access-2", ms.Revokes()[0].Get("token"))
	tok, _ := client.creds.snapshot()
	assert.Nil(t, tok)
}

func TestAccessToken(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		_, err := newAnonymousClient(t, ms).AccessToken(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrs.ErrOAuthUnsupported)
	})

	t.Run("expired without refresh", func(t *testing.T) {
		clock := &fakeClock{}
		a := auth.NewCode(test_helpers.ClientID, test_helpers.ClientSecret, "code#_", "http://localhost/cb", auth.WithClock(clock.Now))
		client, err := Login(ctx, a, testConfig(ms))
		require.NoError(t, err)

		token, err := client.AccessToken(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		clock.Set(3_600_000)
		_, err = client.AccessToken(ctx)
		require.Error(t, err)
		assert.True(t, pkgerrs.IsExpired(err))
		assert.Equal(t, pkgerrs.KindExpired, pkgerrs.KindOf(err))
	})

	t.Run("refreshes when possible", func(t *testing.T) {
		clock := &fakeClock{}
		client := newPasswordClient(t, ms, clock)
		first, err := client.AccessToken(ctx)
		require.NoError(t, err)

		clock.Set(3_600_000)
		second, err := client.AccessToken(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestTokenSource(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	clock := &fakeClock{}
	clock.Set(1_000)
	client := newPasswordClient(t, ms, clock)

	tok, err := client.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, time.UnixMilli(3_601_000), tok.Expiry)
}

func TestLogout_AnonymousIsNoop(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	client := newAnonymousClient(t, ms)
	require.NoError(t, client.Logout(context.Background()))
	assert.Empty(t, ms.Revokes())
}

func TestRateLimit_HonorsRetryAfter(t *testing.T) {
	t.Parallel()

	ms := test_helpers.NewMockServer(t)
	ms.SetResponse("/slow", &test_helpers.MockResponse{
		Status:  http.StatusOK,
		Body:    `{}`,
		Headers: map[string]string{"Retry-After": "0.2"},
	})
	cfg := testConfig(ms)
	cfg.RateLimit = &RateLimitConfig{RequestsPerMinute: 6000, Burst: 10}
	client, err := Login(context.Background(), auth.NewAnonymous(), cfg)
	require.NoError(t, err)

	get(t, client, "slow")
	start := time.Now()
	get(t, client, "slow")
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
