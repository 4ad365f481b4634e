package mock

import "github.com/readerview/readerview"

var _ readerview.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of readerview.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) string
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}
