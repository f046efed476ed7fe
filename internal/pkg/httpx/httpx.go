package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError is implemented by client errors that carry the upstream HTTP
// status, so retry classification never has to match on error strings.
type StatusError interface {
	HTTPStatusCode() int
}

// IsRetryableStatus reports whether an upstream status is transient: request
// timeout, rate limiting, or any server-side failure.
func IsRetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code < 600
}

// IsRetryableError classifies a failed attempt against the document store or
// an upstream API. Timeouts and transient statuses are retryable; everything
// else (including a canceled context) is terminal.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var se StatusError
	if errors.As(err, &se) {
		return IsRetryableStatus(se.HTTPStatusCode())
	}
	return false
}

// BackoffDuration picks the next retry sleep: the server's Retry-After when
// the response carries one, otherwise the caller's current backoff. The
// result is capped at max and jittered by up to ±20% so concurrent retries
// spread out instead of stampeding.
func BackoffDuration(resp *http.Response, backoff, max time.Duration) time.Duration {
	d := backoff
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				d = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && d > max {
		d = max
	}
	if d <= 0 {
		return 0
	}
	spread := 0.2 * d.Seconds()
	secs := d.Seconds() - spread + rand.Float64()*2*spread
	return time.Duration(secs * float64(time.Second))
}
