package readerview

import "time"

// Format controls how extracted content is rendered.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Valid reports whether f is a recognized output format.
func (f Format) Valid() bool {
	switch f {
	case FormatHTML, FormatMarkdown, FormatText:
		return true
	}
	return false
}

// Default settings applied by DefaultOptions.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "readerview/1.0"
	DefaultPageLimit = 5
)

// Options configure an extraction run.
type Options struct {
	// Format selects the rendering of Result.Content.
	Format Format

	// Timeout bounds each network fetch.
	Timeout time.Duration

	// UserAgent sent with outgoing requests.
	UserAgent string

	// FollowNext enables multi-page article assembly.
	FollowNext bool

	// PageLimit caps the number of pages fetched when FollowNext is set.
	PageLimit int

	// ExplicitFromSource propagates a feed source's explicit flag onto items
	// that carry no per-item flag of their own.
	ExplicitFromSource bool

	// Headers are extra request headers applied to every fetch.
	Headers map[string]string
}

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{
		Format:    FormatHTML,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		PageLimit: DefaultPageLimit,
	}
}

// Validate checks invariants and returns EINVALID on violation.
func (o Options) Validate() error {
	if !o.Format.Valid() {
		return Errorf(EINVALID, "unknown output format %q", o.Format)
	}
	if o.Timeout < 0 {
		return Errorf(EINVALID, "timeout must not be negative")
	}
	if o.PageLimit < 1 {
		return Errorf(EINVALID, "page limit must be at least 1")
	}
	return nil
}
