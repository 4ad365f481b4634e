package readerview

import "context"

// Fetcher retrieves raw bytes from URLs.
type Fetcher interface {
	// Fetch performs an HTTP GET and returns the response body.
	// The context controls timeout and cancellation.
	// Returns EFETCH for network failures and non-success status codes,
	// ETIMEOUT when the deadline is exceeded.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
