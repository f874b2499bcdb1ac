// Package helpers provides hostile inputs and a fault injecting transport for
// the adversarial tests.
package helpers

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ChaosMode defines the type of fault to inject.
type ChaosMode int

const (
	// ChaosNone passes requests through untouched.
	ChaosNone ChaosMode = iota

	// ChaosConnectionReset fails the round trip before anything is sent.
	ChaosConnectionReset

	// ChaosPartialRead cuts the response body halfway with a read error.
	ChaosPartialRead

	// ChaosEmptyBody answers 200 with no body.
	ChaosEmptyBody

	// ChaosInvalidJSON answers 200 with a body that is not JSON.
	ChaosInvalidJSON

	// ChaosServerError answers 503 with an HTML page.
	ChaosServerError

	// ChaosIntermittent picks one of the faults above for a FailureRate share of requests.
	ChaosIntermittent
)

// ErrConnectionReset is returned by ChaosConnectionReset round trips.
var ErrConnectionReset = errors.New("connection reset by peer")

// ErrReadReset is returned mid-body by ChaosPartialRead responses.
var ErrReadReset = errors.New("connection reset during read")

// ChaosConfig configures the chaos transport.
type ChaosConfig struct {
	Mode ChaosMode

	// FailureRate is the share of failing requests in ChaosIntermittent mode, 0.0 to 1.0.
	FailureRate float64

	// Seed makes ChaosIntermittent reproducible. Zero uses the current time.
	Seed int64

	// Delay is added before every round trip.
	Delay time.Duration

	// OnlyPaths restricts faults to URLs whose path contains one of these.
	OnlyPaths []string
}

// ChaosTransport wraps a RoundTripper and injects failures. It is safe for
// concurrent use; set it as the Transport of the http.Client handed to the
// library.
type ChaosTransport struct {
	base   http.RoundTripper
	config ChaosConfig

	requests atomic.Uint64
	faults   atomic.Uint64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewChaosTransport wraps base. A nil base uses http.DefaultTransport.
func NewChaosTransport(base http.RoundTripper, config ChaosConfig) *ChaosTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ChaosTransport{base: base, config: config, rnd: rand.New(rand.NewSource(seed))}
}

// Client returns an http.Client using the transport.
func (c *ChaosTransport) Client() *http.Client {
	return &http.Client{Transport: c, Timeout: 10 * time.Second}
}

// Requests returns the number of round trips attempted.
func (c *ChaosTransport) Requests() uint64 { return c.requests.Load() }

// Faults returns the number of round trips that had a fault injected.
func (c *ChaosTransport) Faults() uint64 { return c.faults.Load() }

// RoundTrip implements http.RoundTripper.
func (c *ChaosTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)

	if c.config.Delay > 0 {
		select {
		case <-time.After(c.config.Delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	mode := c.pickMode(req)
	if mode != ChaosNone {
		c.faults.Add(1)
	}

	switch mode {
	case ChaosConnectionReset:
		return nil, ErrConnectionReset

	case ChaosPartialRead:
		resp, err := c.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = &partialReadCloser{reader: bytes.NewReader(body[:len(body)/2])}
		resp.ContentLength = -1
		return resp, nil

	case ChaosEmptyBody:
		return stubResponse(req, http.StatusOK, ""), nil

	case ChaosInvalidJSON:
		return stubResponse(req, http.StatusOK, "This is not JSON\x00\x01\x02"), nil

	case ChaosServerError:
		return stubResponse(req, http.StatusServiceUnavailable, "<html><body>upstream overloaded</body></html>"), nil

	default:
		return c.base.RoundTrip(req)
	}
}

func (c *ChaosTransport) pickMode(req *http.Request) ChaosMode {
	if len(c.config.OnlyPaths) > 0 {
		matched := false
		for _, p := range c.config.OnlyPaths {
			if strings.Contains(req.URL.Path, p) {
				matched = true
				break
			}
		}
		if !matched {
			return ChaosNone
		}
	}

	if c.config.Mode != ChaosIntermittent {
		return c.config.Mode
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rnd.Float64() >= c.config.FailureRate {
		return ChaosNone
	}
	modes := []ChaosMode{ChaosConnectionReset, ChaosPartialRead, ChaosEmptyBody, ChaosInvalidJSON, ChaosServerError}
	return modes[c.rnd.Intn(len(modes))]
}

func stubResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
		Header:        make(http.Header),
	}
}

// partialReadCloser returns what it holds, then ErrReadReset instead of io.EOF.
type partialReadCloser struct {
	reader io.Reader
}

func (p *partialReadCloser) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if errors.Is(err, io.EOF) {
		return n, ErrReadReset
	}
	return n, err
}

func (p *partialReadCloser) Close() error {
	return nil
}
