// Package clients provides the resilient HTTP client used to reach the
// upstream forum service.
package clients

import "errors"

// Transport-layer failures. The ACL translates these into domain
// unavailable errors before they reach the services.
var (
	// ErrCircuitOpen is returned while the breaker is blocking requests
	// to an unhealthy upstream.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once the retry
	// budget is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
