package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// fakeClock is a settable epoch-millisecond clock.
type fakeClock struct{ millis atomic.Int64 }

func (c *fakeClock) Now() time.Time   { return time.UnixMilli(c.millis.Load()) }
func (c *fakeClock) Set(millis int64) { c.millis.Store(millis) }

// tokenServer records grant and revoke requests and answers grants with
// increasing access tokens.
type tokenServer struct {
	t *testing.T

	mu        sync.Mutex
	grants    []url.Values
	revokes   []url.Values
	expiresIn int64
	refresh   string
	grantCode int
	issued    int
}

func (s *tokenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != "client" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.t.Errorf("parse form: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/access_token":
		s.grants = append(s.grants, r.PostForm)
		if s.grantCode != 0 {
			w.WriteHeader(s.grantCode)
			return
		}
		s.issued++
		fmt.Fprintf(w, `{"access_token":"access-%d","token_type":"bearer","expires_in":%d,"scope":"*","refresh_token":%q}`,
			s.issued, s.expiresIn, s.refresh)
	case "/api/v1/revoke_token":
		s.revokes = append(s.revokes, r.PostForm)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *tokenServer) lastGrant() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grants[len(s.grants)-1]
}

func newTokenServer(t *testing.T, expiresIn int64, refresh string) (*tokenServer, Endpoint) {
	t.Helper()
	srv := &tokenServer{t: t, expiresIn: expiresIn, refresh: refresh}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, Endpoint{HTTPClient: ts.Client(), UserAgent: "graw-test/1.0", BaseURL: ts.URL}
}

func TestPassword_ExpiryScenario(t *testing.T) {
	t.Parallel()

	srv, ep := newTokenServer(t, 3600, "")
	clock := &fakeClock{}
	a := NewPassword("client", "secret", "alice", "hunter2", WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx, ep))
	require.NotNil(t, a.Token())
	assert.EqualValues(t, 3_600_000, a.Token().ExpiresAt)

	grant := srv.lastGrant()
	assert.Equal(t, "password", grant.Get("grant_type"))
	assert.Equal(t, "alice", grant.Get("username"))
	assert.Equal(t, "hunter2", grant.Get("password"))

	clock.Set(3_599_999)
	assert.False(t, a.NeedsRefresh())
	clock.Set(3_600_000)
	assert.True(t, a.NeedsRefresh())

	require.NoError(t, a.Refresh(ctx, ep))
	assert.EqualValues(t, 7_200_000, a.Token().ExpiresAt)
	assert.False(t, a.NeedsRefresh())
}

func TestExpiryMonotonicity(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 60, "")
	clock := &fakeClock{}
	clock.Set(1_000_000)
	a := NewPassword("client", "secret", "alice", "pw", WithClock(clock.Now))
	require.NoError(t, a.Login(context.Background(), ep))

	for ms := int64(1_000_000); ms < 1_060_000; ms += 997 {
		clock.Set(ms)
		require.False(t, a.NeedsRefresh(), "at %d", ms)
	}
	for ms := int64(1_060_000); ms < 1_200_000; ms += 1009 {
		clock.Set(ms)
		require.True(t, a.NeedsRefresh(), "at %d", ms)
	}
}

func TestRefreshTwiceInSuccession(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 3600, "r-token")
	clock := &fakeClock{}
	a := NewToken("client", "secret", "r-token", WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, a.Refresh(ctx, ep))
		tok := a.Token()
		require.NotNil(t, tok)
		assert.NotEmpty(t, tok.AccessToken)
		assert.False(t, tok.ExpiredAt(clock.Now().UnixMilli()))
		assert.False(t, a.NeedsRefresh())
	}
	assert.Equal(t, "access-2", a.Token().AccessToken)
}

func TestAnonymous(t *testing.T) {
	t.Parallel()

	a := NewAnonymous()
	ctx := context.Background()
	ep := Endpoint{BaseURL: "http://127.0.0.1:1"}

	for i := 0; i < 3; i++ {
		assert.NoError(t, a.Login(ctx, ep))
		assert.False(t, a.NeedsRefresh())
		assert.NoError(t, a.Logout(ctx, ep))
	}
	assert.False(t, a.SupportsOAuth())
	assert.Nil(t, a.Token())

	h := http.Header{}
	a.SetHeaders(h)
	assert.Empty(t, h)

	err := a.Refresh(ctx, ep)
	assert.ErrorIs(t, err, pkgerrs.ErrRefreshUnsupported)
	assert.Equal(t, pkgerrs.KindDomain, pkgerrs.KindOf(err))
}

func TestLogout_AccessTokenOnly(t *testing.T) {
	t.Parallel()

	srv, ep := newTokenServer(t, 3600, "")
	a := NewPassword("client", "secret", "alice", "pw")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, ep))

	require.NoError(t, a.Logout(ctx, ep))
	require.Len(t, srv.revokes, 1)
	assert.Equal(t, "access_token", srv.revokes[0].Get("token_type_hint"))
	assert.Equal(t, "access-1", srv.revokes[0].Get("token"))
	assert.Nil(t, a.Token())

	// Nothing left to revoke.
	require.NoError(t, a.Logout(ctx, ep))
	assert.Len(t, srv.revokes, 1)
}

func TestCode_LoginRefreshLogout(t *testing.T) {
	t.Parallel()

	srv, ep := newTokenServer(t, 3600, "r-token")
	clock := &fakeClock{}
	a := NewCode("client", "secret", "abc123#_", "http://localhost/cb", WithClock(clock.Now))
	ctx := context.Background()

	assert.False(t, a.NeedsRefresh(), "no refresh token before login")
	require.NoError(t, a.Login(ctx, ep))

	grant := srv.lastGrant()
	assert.Equal(t, "authorization_code", grant.Get("grant_type"))
	assert.Equal(t, "abc123", grant.Get("code"))
	assert.Equal(t, "http://localhost/cb", grant.Get("redirect_uri"))
	assert.Equal(t, "r-token", a.RefreshToken())

	clock.Set(3_600_000)
	require.True(t, a.NeedsRefresh())
	require.NoError(t, a.Refresh(ctx, ep))
	grant = srv.lastGrant()
	assert.Equal(t, "refresh_token", grant.Get("grant_type"))
	assert.Equal(t, "r-token", grant.Get("refresh_token"))

	require.NoError(t, a.Logout(ctx, ep))
	require.Len(t, srv.revokes, 1)
	assert.Equal(t, "refresh_token", srv.revokes[0].Get("token_type_hint"))
	assert.Equal(t, "r-token", srv.revokes[0].Get("token"))
	assert.Nil(t, a.Token())
	assert.Empty(t, a.RefreshToken())
	assert.False(t, a.NeedsRefresh())
}

func TestCode_TemporaryAuthorizationCannotRefresh(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 3600, "")
	clock := &fakeClock{}
	a := NewCode("client", "secret", "abc", "http://localhost/cb", WithClock(clock.Now))
	ctx := context.Background()
	assert.True(t, a.Expired())
	require.NoError(t, a.Login(ctx, ep))
	assert.False(t, a.Expired())

	clock.Set(10_000_000)
	assert.True(t, a.Expired())
	assert.False(t, a.NeedsRefresh())
	assert.ErrorIs(t, a.Refresh(ctx, ep), pkgerrs.ErrRefreshUnsupported)

	_, err := a.ToTokenAuthenticator()
	assert.ErrorIs(t, err, pkgerrs.ErrNoRefreshToken)
}

func TestCode_ToTokenAuthenticator(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 3600, "r-token")
	a := NewCode("client", "secret", "abc", "http://localhost/cb")
	require.NoError(t, a.Login(context.Background(), ep))

	tok, err := a.ToTokenAuthenticator()
	require.NoError(t, err)
	assert.Equal(t, "r-token", tok.RefreshToken())
	assert.Equal(t, a.Token(), tok.Token())

	// The converted authenticator owns its own state.
	require.NoError(t, tok.Refresh(context.Background(), ep))
	assert.NotEqual(t, a.Token().AccessToken, tok.Token().AccessToken)
}

func TestToken_Login(t *testing.T) {
	t.Parallel()

	srv, ep := newTokenServer(t, 3600, "")
	a := NewToken("client", "secret", "r-token")
	require.NoError(t, a.Login(context.Background(), ep))

	grant := srv.lastGrant()
	assert.Equal(t, "refresh_token", grant.Get("grant_type"))
	assert.Equal(t, "r-token", grant.Get("refresh_token"))
	assert.Equal(t, "r-token", a.RefreshToken(), "kept when the response carries none")

	empty := NewToken("client", "secret", "")
	err := empty.Login(context.Background(), ep)
	assert.ErrorIs(t, err, pkgerrs.ErrNoRefreshToken)
	assert.False(t, empty.NeedsRefresh())
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	srv, ep := newTokenServer(t, 3600, "")
	a := NewPassword("client", "secret", "alice", "pw")
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, ep))
	before := a.Token()

	srv.mu.Lock()
	srv.grantCode = http.StatusNotFound
	srv.mu.Unlock()

	err := a.Refresh(ctx, ep)
	require.Error(t, err)
	assert.True(t, pkgerrs.IsNotFound(err))
	assert.Equal(t, before, a.Token())

	srv.mu.Lock()
	srv.grantCode = http.StatusForbidden
	srv.mu.Unlock()

	err = a.Refresh(ctx, ep)
	assert.Equal(t, http.StatusForbidden, pkgerrs.StatusCode(err))
	assert.False(t, pkgerrs.IsNotFound(err))
}

func TestPassword_WithoutCredentialsNeverRefreshes(t *testing.T) {
	t.Parallel()

	a := NewPassword("client", "secret", "", "")
	assert.False(t, a.NeedsRefresh())
	assert.ErrorIs(t, a.Refresh(context.Background(), Endpoint{}), pkgerrs.ErrRefreshUnsupported)
	assert.True(t, a.SupportsOAuth())
}

func TestSetHeaders(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 3600, "")
	a := NewPassword("client", "secret", "alice", "pw")

	h := http.Header{}
	a.SetHeaders(h)
	assert.Empty(t, h.Get("Authorization"), "no token yet")

	require.NoError(t, a.Login(context.Background(), ep))
	a.SetHeaders(h)
	assert.Equal(t, "Bearer access-1", h.Get("Authorization"))
}

func TestString_HidesSecrets(t *testing.T) {
	t.Parallel()

	_, ep := newTokenServer(t, 3600, "r-token")
	auths := []Authenticator{
		NewPassword("client", "secret", "alice", "hunter2"),
		NewCode("client", "secret", "the-code", "http://localhost/cb"),
		NewToken("client", "secret", "r-token"),
		NewAnonymous(),
	}

	for _, a := range auths {
		require.NoError(t, a.Login(context.Background(), ep))
		s := a.String()
		for _, secret := range []string{"secret", "hunter2", "the-code", "r-token", "access-"} {
			assert.NotContains(t, s, secret)
		}
	}
}

func TestAuthorizationURL(t *testing.T) {
	t.Parallel()

	raw, state := AuthorizationURL(AuthorizationRequest{
		ClientID:    "client",
		RedirectURI: "http://localhost/cb",
		Scopes:      []string{"identity", "read"},
		Duration:    DurationPermanent,
	})
	require.NotEmpty(t, state)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.reddit.com", u.Host)
	assert.Equal(t, "/api/v1/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "http://localhost/cb", q.Get("redirect_uri"))
	assert.Equal(t, "permanent", q.Get("duration"))
	assert.Equal(t, "identity read", q.Get("scope"))

	_, fixed := AuthorizationURL(AuthorizationRequest{ClientID: "client", State: "xyz"})
	assert.Equal(t, "xyz", fixed)
}
