package readerview

import "context"

// Extractor turns a fetched HTML document into an extraction Result.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL and returns the
	// article content and metadata. Boilerplate (navigation, footers,
	// sidebars, ads) is removed; Content is rendered per opts.Format.
	// Returns EPARSE when no content candidate can be found.
	Extract(html []byte, pageURL string, opts Options) (*Result, error)

	// ExtractMetadata returns document metadata without running content
	// scoring. Cheaper than Extract when only metadata is needed.
	ExtractMetadata(html []byte, pageURL string) (*Metadata, error)
}

// PageLimiter throttles successive fetches against the same domain.
type PageLimiter interface {
	// Wait blocks until a request to domain is permitted or ctx is done.
	Wait(ctx context.Context, domain string) error
}
