package llm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// statusCloudflareTimeout is returned by proxies in front of some providers.
const statusCloudflareTimeout = 524

// retryPolicy is a fixed attempt budget with linear backoff.
type retryPolicy struct {
	attempts int
	step     time.Duration
	sleeper  func(time.Duration)
}

func (p retryPolicy) maxAttempts() int {
	if p.attempts <= 0 {
		return 1
	}
	return p.attempts
}

// delay is linear: attempt 1 waits step, attempt 2 waits 2*step.
func (p retryPolicy) delay(attempt int) time.Duration {
	if p.step <= 0 || attempt <= 0 {
		return 0
	}
	return time.Duration(attempt) * p.step
}

func (p retryPolicy) wait(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}
	if p.sleeper != nil {
		p.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetriable reports whether err is a timeout-class failure: a network
// timeout, a refused, reset or unresolvable connection, or an HTTP status
// that signals a gateway or request timeout. Context cancellation never
// retries.
func IsRetriable(ctx context.Context, err error) bool {
	if err == nil || (ctx != nil && ctx.Err() != nil) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusGatewayTimeout, statusCloudflareTimeout:
			return true
		}
		return false
	}

	// http.Client timeouts surface as DeadlineExceeded wrapped in a net.Error.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	return isConnectionFailure(urlErr.Err)
}

// isConnectionFailure matches failures to reach the endpoint or to read its
// reply. Bad schemes, unparsable URLs and TLS verification errors are not
// connection failures and never retry.
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
