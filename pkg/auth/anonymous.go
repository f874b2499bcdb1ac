package auth

import (
	"context"
	"net/http"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
	"github.com/jamesprial/graw/pkg/types"
)

// AnonymousAuthenticator makes unauthenticated requests against the public API
// host. It holds no token and is always valid.
type AnonymousAuthenticator struct{}

// NewAnonymous returns an AnonymousAuthenticator.
func NewAnonymous() *AnonymousAuthenticator {
	return &AnonymousAuthenticator{}
}

func (*AnonymousAuthenticator) Login(context.Context, Endpoint) error { return nil }
func (*AnonymousAuthenticator) Logout(context.Context, Endpoint) error { return nil }

func (*AnonymousAuthenticator) Refresh(context.Context, Endpoint) error {
	return pkgerrs.Domain("refresh", pkgerrs.ErrRefreshUnsupported, "anonymous authenticator")
}

func (*AnonymousAuthenticator) NeedsRefresh() bool { return false }
func (*AnonymousAuthenticator) Expired() bool { return false }
func (*AnonymousAuthenticator) SetHeaders(http.Header) {}
func (*AnonymousAuthenticator) SupportsOAuth() bool { return false }
func (*AnonymousAuthenticator) Token() *types.Token { return nil }
func (*AnonymousAuthenticator) String() string { return "AnonymousAuthenticator{}" }
func (*AnonymousAuthenticator) sealed() {}
