package graw

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jamesprial/graw/pkg/auth"
	"github.com/jamesprial/graw/pkg/types"
)

// credentials guards the one Authenticator shared by a Client and its clones.
// Header injection and expiry checks take the read lock; login, refresh and
// logout take the write lock.
type credentials struct {
	mu     sync.RWMutex
	auth   auth.Authenticator
	flight singleflight.Group
}

func newCredentials(a auth.Authenticator) *credentials {
	return &credentials{auth: a}
}

func (c *credentials) needsRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.NeedsRefresh()
}

// ensureFresh refreshes the token if, and only if, it has expired. Concurrent
// callers that all see an expired token share a single refresh.
func (c *credentials) ensureFresh(ctx context.Context, ep auth.Endpoint) error {
	if !c.needsRefresh() {
		return nil
	}

	_, err, _ := c.flight.Do("refresh", func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Another caller may have refreshed between the read and the write lock.
		if !c.auth.NeedsRefresh() {
			return nil, nil
		}
		return nil, c.auth.Refresh(ctx, ep)
	})
	return err
}

func (c *credentials) setHeaders(h http.Header) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.auth.SetHeaders(h)
}

// snapshot returns a copy of the token and whether it has expired.
func (c *credentials) snapshot() (*types.Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.Token(), c.auth.Expired()
}

func (c *credentials) login(ctx context.Context, ep auth.Endpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth.Login(ctx, ep)
}

func (c *credentials) logout(ctx context.Context, ep auth.Endpoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auth.Logout(ctx, ep)
}

func (c *credentials) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.String()
}
