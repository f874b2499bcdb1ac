package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	pkgerrs "github.com/jamesprial/graw/pkg/errors"
)

// Transport executes API requests. Throttling is off unless a RateLimitConfig
// is supplied.
type Transport struct {
	client Doer
	logger *slog.Logger

	limiter        *rate.Limiter
	mu             sync.Mutex
	forceWaitUntil time.Time
}

// RateLimitConfig enables client-side throttling. When set, Retry-After and
// X-Ratelimit-* response headers also pause later requests.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64 `validate:"gte=0"`
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int `validate:"gte=0"`
}

// Limiter settings used when RateLimitConfig leaves a field at zero.
const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
)

const (
	secondsPerMinute = 60.0

	// maxErrorBody bounds how much of a failed response is kept on the error.
	maxErrorBody = 4096
)

// NewTransport returns a Transport. A nil httpClient uses http.DefaultClient;
// a nil rateCfg disables throttling.
func NewTransport(httpClient Doer, rateCfg *RateLimitConfig, logger *slog.Logger) *Transport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Transport{client: httpClient, logger: logger}
	if rateCfg != nil {
		t.limiter = buildLimiter(*rateCfg)
	}
	return t
}

// Send executes req. Only transport failures are errors; any status is returned
// to the caller with the body unread.
func (t *Transport) Send(req *http.Request) (*http.Response, error) {
	op := req.Method + " " + req.URL.Path

	if err := t.waitForRateLimit(req.Context()); err != nil {
		return nil, pkgerrs.Transport(op, err)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, pkgerrs.Transport(op, err)
	}
	t.logger.Debug("api request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if t.limiter != nil {
		t.applyRateHeaders(resp)
	}
	return resp, nil
}

// CheckResponse turns a non-2xx response into an HTTP error and closes its body.
func CheckResponse(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return pkgerrs.HTTPStatus(op, resp.StatusCode, string(body))
}

// DecodeResponse checks the status of resp, decodes its body into v and closes it.
func DecodeResponse(op string, resp *http.Response, v any) error {
	if err := CheckResponse(op, resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrs.Transport(op, fmt.Errorf("failed to read response body: %w", err))
	}
	if err := json.Unmarshal(body, v); err != nil {
		// A Thing reports its own decode error.
		if pkgerrs.KindOf(err) == pkgerrs.KindDecode {
			return err
		}
		return pkgerrs.Decode(op, err)
	}
	return nil
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

func (t *Transport) waitForRateLimit(ctx context.Context) error {
	if t.limiter == nil {
		return ctx.Err()
	}
	if err := t.waitForForcedDelay(ctx); err != nil {
		return err
	}
	return t.limiter.Wait(ctx)
}

func (t *Transport) waitForForcedDelay(ctx context.Context) error {
	for {
		t.mu.Lock()
		waitUntil := t.forceWaitUntil
		t.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			t.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			t.clearForcedDelay(waitUntil)
		}
	}
}

func (t *Transport) clearForcedDelay(previous time.Time) {
	t.mu.Lock()
	if previous.Equal(t.forceWaitUntil) {
		t.forceWaitUntil = time.Time{}
	}
	t.mu.Unlock()
}

func (t *Transport) applyRateHeaders(resp *http.Response) {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil && seconds > 0 {
			t.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	remainingHeader := resp.Header.Get("X-Ratelimit-Remaining")
	resetHeader := resp.Header.Get("X-Ratelimit-Reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, 64)
	resetSeconds, errReset := strconv.ParseFloat(resetHeader, 64)
	if errRemaining != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	if remaining <= 1 {
		t.deferRequests(time.Duration(resetSeconds * float64(time.Second)))
	}
}

func (t *Transport) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	t.mu.Lock()
	if until.After(t.forceWaitUntil) {
		t.forceWaitUntil = until
		t.logger.Debug("deferring requests", "until", until)
	}
	t.mu.Unlock()
}
