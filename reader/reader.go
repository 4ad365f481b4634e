// Package reader orchestrates fetching, extraction, pagination, and feed
// parsing behind a single front door. It owns the page-follow loop; the
// injected collaborators stay I/O-free or extraction-free respectively.
package reader

import (
	"context"
	"net/url"

	"github.com/readerview/readerview"
)

// Reader combines a Fetcher with an Extractor and optional FeedParser
// and PageLimiter. Each call operates on exclusively owned data, so a
// single Reader is safe for concurrent use.
type Reader struct {
	fetcher    readerview.Fetcher
	extractor  readerview.Extractor
	feedParser readerview.FeedParser
	limiter    readerview.PageLimiter
	opts       readerview.Options
}

// Option configures a Reader.
type Option func(*Reader)

// WithFeedParser enables the feed entry points.
func WithFeedParser(p readerview.FeedParser) Option {
	return func(r *Reader) { r.feedParser = p }
}

// WithPageLimiter throttles follow-up page fetches per domain.
func WithPageLimiter(l readerview.PageLimiter) Option {
	return func(r *Reader) { r.limiter = l }
}

// WithOptions replaces the default extraction options.
func WithOptions(opts readerview.Options) Option {
	return func(r *Reader) { r.opts = opts }
}

// New creates a Reader.
func New(fetcher readerview.Fetcher, extractor readerview.Extractor, opts ...Option) *Reader {
	r := &Reader{
		fetcher:   fetcher,
		extractor: extractor,
		opts:      readerview.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extract fetches url and extracts its article view. When FollowNext is
// set, discovered next-page links are fetched and merged up to
// PageLimit pages. A first-page failure is fatal; a failure on any
// later page stops pagination, keeps the content merged so far, and
// marks the result as partially paginated.
func (r *Reader) Extract(ctx context.Context, pageURL string) (*readerview.Result, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	if pageURL == "" {
		return nil, readerview.Errorf(readerview.EINVALID, "url is required")
	}

	body, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := r.extractor.Extract(body, pageURL, r.opts)
	if err != nil {
		return nil, err
	}
	if result.RenderedPages == 0 {
		result.TotalPages = 1
		result.RenderedPages = 1
	}

	if r.opts.FollowNext {
		r.followPages(ctx, result)
	}
	return result, nil
}

// followPages runs the pagination loop, appending each follow-up page's
// content into result. The next-page link reported to the caller is the
// one discovered on the second page, so a bounded client can resume
// where this loop stopped.
func (r *Reader) followPages(ctx context.Context, result *readerview.Result) {
	visited := map[string]bool{result.URL: true}
	next := result.NextPageURL

	for next != "" && !visited[next] && result.RenderedPages < r.opts.PageLimit {
		visited[next] = true

		if err := r.waitForDomain(ctx, next); err != nil {
			result.PartialPagination = true
			break
		}
		body, err := r.fetcher.Fetch(ctx, next)
		if err != nil {
			result.PartialPagination = true
			break
		}
		page, err := r.extractor.Extract(body, next, r.opts)
		if err != nil {
			result.PartialPagination = true
			break
		}

		mergePage(result, page)
		if result.RenderedPages == 2 {
			result.NextPageURL = page.NextPageURL
		}
		next = page.NextPageURL
	}
}

func (r *Reader) waitForDomain(ctx context.Context, pageURL string) error {
	if r.limiter == nil {
		return ctx.Err()
	}
	return r.limiter.Wait(ctx, domainOf(pageURL))
}

func mergePage(result, page *readerview.Result) {
	if page.Content != "" {
		if result.Content != "" {
			result.Content += "\n\n"
		}
		result.Content += page.Content
	}
	result.WordCount += page.WordCount
	result.TotalPages++
	result.RenderedPages++
}

// ExtractFromHTML runs the extraction pipeline over HTML the caller
// already holds. No fetching or pagination happens.
func (r *Reader) ExtractFromHTML(html []byte, pageURL string) (*readerview.Result, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	return r.extractor.Extract(html, pageURL, r.opts)
}

// ExtractMetadata returns page metadata without content scoring.
func (r *Reader) ExtractMetadata(html []byte, baseURL string) (*readerview.Metadata, error) {
	return r.extractor.ExtractMetadata(html, baseURL)
}

// ParseFeed parses feed bytes. Requires a FeedParser.
func (r *Reader) ParseFeed(data []byte, feedURL string) (*readerview.Feed, error) {
	if r.feedParser == nil {
		return nil, readerview.Errorf(readerview.EINVALID, "no feed parser configured")
	}
	return r.feedParser.ParseFeed(data, feedURL)
}

// FetchFeed fetches and parses the feed at feedURL.
func (r *Reader) FetchFeed(ctx context.Context, feedURL string) (*readerview.Feed, error) {
	if r.feedParser == nil {
		return nil, readerview.Errorf(readerview.EINVALID, "no feed parser configured")
	}
	data, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return r.feedParser.ParseFeed(data, feedURL)
}

func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	return u.Hostname()
}
