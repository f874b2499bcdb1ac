// Package test_helpers provides a fake Reddit server for tests.
//
// One httptest server plays all three Reddit hosts: the token endpoints live at
// the root (AuthURL), OAuth requests arrive under /oauth (OAuthURL) and
// anonymous requests under /public (PublicURL). Canned responses are keyed by
// the path without that host prefix, e.g. "/r/golang/about".
package test_helpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	ClientID     = "test_client_id"
	ClientSecret = "test_client_secret"
	UserAgent    = "graw-test/1.0"

	HostOAuth  = "oauth"
	HostPublic = "public"
	HostAuth   = "auth"

	accessTokenPath = "/api/v1/access_token"
	revokeTokenPath = "/api/v1/revoke_token"
)

// MockServer is a configurable fake Reddit.
type MockServer struct {
	server *httptest.Server

	mu         sync.Mutex
	responses  map[string]*MockResponse
	handlers   map[string]http.HandlerFunc
	requestLog []RequestEntry
	callCount  map[string]int

	grants       []url.Values
	revokes      []url.Values
	expiresIn    int64
	refreshToken string
	grantStatus  int
	grantDelay   time.Duration
	issued       int
}

// RequestEntry logs one incoming request.
type RequestEntry struct {
	Method  string
	Host    string
	Path    string
	Query   url.Values
	Form    url.Values
	Headers http.Header
}

// MockResponse defines a canned API response.
type MockResponse struct {
	Status  int
	Body    string
	Headers map[string]string
}

// NewMockServer starts a server that is closed when t ends. Tokens are valid
// for an hour by default.
func NewMockServer(t testing.TB) *MockServer {
	t.Helper()
	ms := &MockServer{
		responses: make(map[string]*MockResponse),
		handlers:  make(map[string]http.HandlerFunc),
		callCount: make(map[string]int),
		expiresIn: 3600,
	}
	ms.server = httptest.NewServer(ms)
	t.Cleanup(ms.server.Close)
	return ms
}

// AuthURL hosts the token endpoints.
func (ms *MockServer) AuthURL() string { return ms.server.URL }

// OAuthURL stands in for oauth.reddit.com.
func (ms *MockServer) OAuthURL() string { return ms.server.URL + "/" + HostOAuth }

// PublicURL stands in for api.reddit.com.
func (ms *MockServer) PublicURL() string { return ms.server.URL + "/" + HostPublic }

// HTTPClient returns a client wired to the server.
func (ms *MockServer) HTTPClient() *http.Client { return ms.server.Client() }

// Close shuts down the server before the test ends.
func (ms *MockServer) Close() { ms.server.Close() }

// SetTokenLifetime sets expires_in for issued tokens.
func (ms *MockServer) SetTokenLifetime(seconds int64) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.expiresIn = seconds
}

// SetRefreshToken makes grants return refresh_token. Empty omits it.
func (ms *MockServer) SetRefreshToken(token string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.refreshToken = token
}

// SetGrantStatus makes the token endpoint answer with status. Zero restores success.
func (ms *MockServer) SetGrantStatus(status int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.grantStatus = status
}

// SetGrantDelay slows every grant down by d.
func (ms *MockServer) SetGrantDelay(d time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.grantDelay = d
}

// SetResponse configures a response for a specific path
func (ms *MockServer) SetResponse(path string, response *MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// SetJSON answers path with 200 and body.
func (ms *MockServer) SetJSON(path, body string) {
	ms.SetResponse(path, &MockResponse{
		Status:  http.StatusOK,
		Body:    body,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
}

// HandleFunc routes path to h, taking precedence over canned responses.
func (ms *MockServer) HandleFunc(path string, h http.HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[path] = h
}

// Grants returns the forms posted to the token endpoint.
func (ms *MockServer) Grants() []url.Values {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]url.Values(nil), ms.grants...)
}

// Revokes returns the forms posted to the revoke endpoint.
func (ms *MockServer) Revokes() []url.Values {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]url.Values(nil), ms.revokes...)
}

// GetRequestLog returns the resource requests seen so far.
func (ms *MockServer) GetRequestLog() []RequestEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]RequestEntry(nil), ms.requestLog...)
}

// GetCallCount returns the call count for a path
func (ms *MockServer) GetCallCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.callCount[path]
}

// GetLastRequest returns the last request made to a specific path
func (ms *MockServer) GetLastRequest(path string) (*RequestEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for i := len(ms.requestLog) - 1; i >= 0; i-- {
		if ms.requestLog[i].Path == path {
			entry := ms.requestLog[i]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("no requests found for path: %s", path)
}

// ServeHTTP implements http.Handler
func (ms *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case accessTokenPath:
		ms.serveGrant(w, r)
		return
	case revokeTokenPath:
		ms.serveRevoke(w, r)
		return
	}

	host, path := splitHost(r.URL.Path)
	_ = r.ParseForm()

	ms.mu.Lock()
	ms.callCount[path]++
	ms.requestLog = append(ms.requestLog, RequestEntry{
		Method:  r.Method,
		Host:    host,
		Path:    path,
		Query:   r.URL.Query(),
		Form:    r.PostForm,
		Headers: r.Header.Clone(),
	})
	handler := ms.handlers[path]
	response, exists := ms.responses[path]
	ms.mu.Unlock()

	if handler != nil {
		handler(w, r)
		return
	}
	if !exists {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found", "error": 404}`))
		return
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	status := response.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(response.Body))
}

func (ms *MockServer) serveGrant(w http.ResponseWriter, r *http.Request) {
	if !checkClient(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_ = r.ParseForm()

	ms.mu.Lock()
	ms.grants = append(ms.grants, r.PostForm)
	status, delay := ms.grantStatus, ms.grantDelay
	ms.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
		return
	}

	ms.mu.Lock()
	ms.issued++
	body := fmt.Sprintf(`{"access_token":"access-%d","token_type":"bearer","expires_in":%d,"scope":"*"`, ms.issued, ms.expiresIn)
	if ms.refreshToken != "" {
		body += fmt.Sprintf(`,"refresh_token":%q`, ms.refreshToken)
	}
	ms.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body + "}"))
}

func (ms *MockServer) serveRevoke(w http.ResponseWriter, r *http.Request) {
	if !checkClient(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_ = r.ParseForm()

	ms.mu.Lock()
	ms.revokes = append(ms.revokes, r.PostForm)
	ms.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func checkClient(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	return ok && user == ClientID && pass == ClientSecret
}

// splitHost separates the host prefix from the API path.
func splitHost(p string) (string, string) {
	for _, host := range []string{HostOAuth, HostPublic} {
		prefix := "/" + host
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return host, strings.TrimPrefix(p, prefix)
		}
	}
	return HostAuth, p
}
