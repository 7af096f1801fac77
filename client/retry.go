package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseBackoff = 200 * time.Millisecond
	defaultMaxBackoff  = 2 * time.Second
)

// retryTransport retries transient failures (timeouts, 408/429/5xx) with
// exponential backoff and full jitter, honoring Retry-After. Requests with a
// body and no GetBody cannot be replayed and are attempted once.
type retryTransport struct {
	base http.RoundTripper

	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	sleep       func(time.Duration)
	randInt63n  func(int64) int64
	now         func() time.Time
}

func newRetryTransport(base http.RoundTripper) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:        base,
		maxAttempts: defaultMaxAttempts,
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
		sleep:       time.Sleep,
		randInt63n:  rand.Int63n,
		now:         time.Now,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	maxAttempts := t.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if req.Body != nil && req.GetBody == nil {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptReq := req
		if attempt > 1 {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("replaying request body: %w", err)
				}
				attemptReq.Body = body
			}
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts && isRetryableTransportError(err) {
				t.sleepWithBackoff(attempt, "")
				continue
			}
			return nil, err
		}

		if attempt < maxAttempts && shouldRetryStatus(resp.StatusCode) {
			retryAfter := resp.Header.Get("Retry-After")
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			t.sleepWithBackoff(attempt, retryAfter)
			continue
		}

		return resp, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("request failed after %d attempt(s): %w", maxAttempts, lastErr)
	}
	return nil, fmt.Errorf("request failed after %d attempt(s)", maxAttempts)
}

func isRetryableTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func shouldRetryStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func (t *retryTransport) sleepWithBackoff(attempt int, retryAfterHeader string) {
	if d, ok := t.parseRetryAfter(retryAfterHeader); ok {
		t.sleep(d)
		return
	}

	base := t.baseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay <= 0 {
			delay = defaultMaxBackoff
			break
		}
	}

	maxBackoff := t.maxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	if delay > maxBackoff {
		delay = maxBackoff
	}
	if delay <= 0 {
		return
	}

	// Full jitter in [0, delay).
	if t.randInt63n != nil {
		delay = time.Duration(t.randInt63n(int64(delay)))
	}
	t.sleep(delay)
}

func (t *retryTransport) parseRetryAfter(headerValue string) (time.Duration, bool) {
	v := strings.TrimSpace(headerValue)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if ts, err := http.ParseTime(v); err == nil {
		now := time.Now
		if t.now != nil {
			now = t.now
		}
		d := ts.Sub(now())
		if d > 0 {
			return d, true
		}
	}
	return 0, false
}
