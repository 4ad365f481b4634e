package mock

import (
	"context"

	"github.com/readerview/readerview"
)

var _ readerview.PageLimiter = (*PageLimiter)(nil)

// PageLimiter is a mock implementation of readerview.PageLimiter.
type PageLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *PageLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
