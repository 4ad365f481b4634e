package mock

import (
	"context"

	"github.com/readerview/readerview"
)

var _ readerview.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of readerview.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}
