package client

import (
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
)

// newRetryTransport wraps an http.RoundTripper with a retry policy for
// transient failures: connection errors, 429 and 5xx responses. Delays honor
// Retry-After when the site sends one, with exponential backoff otherwise.
//
// maxAttempts counts the initial request, so a value of 1 or less disables
// retries and returns the base transport unchanged.
func newRetryTransport(base http.RoundTripper, maxAttempts int) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxAttempts <= 1 {
		return base
	}

	retryPolicy := failsafehttp.RetryPolicyBuilder().
		WithMaxRetries(maxAttempts - 1).
		WithBackoff(500*time.Millisecond, 5*time.Second).
		Build()

	return failsafehttp.NewRoundTripper(base, retryPolicy)
}
