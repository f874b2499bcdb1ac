package adversarial_tests

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/auth"
	"github.com/jamesprial/graw/test_helpers"
)

type fakeClock struct{ millis atomic.Int64 }

func (c *fakeClock) Now() time.Time   { return time.UnixMilli(c.millis.Load()) }
func (c *fakeClock) Set(millis int64) { c.millis.Store(millis) }

// testConfig points a client at ms. A non-nil httpClient replaces the
// server's own client, e.g. to put a ChaosTransport in the path.
func testConfig(ms *test_helpers.MockServer, httpClient *http.Client) *graw.Config {
	if httpClient == nil {
		httpClient = ms.HTTPClient()
	}
	return &graw.Config{
		UserAgent:  test_helpers.UserAgent,
		OAuthURL:   ms.OAuthURL(),
		PublicURL:  ms.PublicURL(),
		AuthURL:    ms.AuthURL(),
		HTTPClient: httpClient,
	}
}

func newAnonymousClient(t *testing.T, ms *test_helpers.MockServer) *graw.Client {
	t.Helper()
	client, err := graw.Login(context.Background(), auth.NewAnonymous(), testConfig(ms, nil))
	require.NoError(t, err)
	return client
}

func newPasswordClient(t *testing.T, ms *test_helpers.MockServer, clock *fakeClock) *graw.Client {
	t.Helper()
	a := auth.NewPassword(test_helpers.ClientID, test_helpers.ClientSecret, "alice", "hunter2", auth.WithClock(clock.Now))
	client, err := graw.Login(context.Background(), a, testConfig(ms, nil))
	require.NoError(t, err)
	return client
}
