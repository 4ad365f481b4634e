package reader_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readerview/readerview"
	"github.com/readerview/readerview/mock"
	"github.com/readerview/readerview/reader"
)

// pageExtractor fakes extraction keyed by URL: content and the next-page
// link each page advertises.
func pageExtractor(pages map[string][2]string) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ []byte, pageURL string, _ readerview.Options) (*readerview.Result, error) {
			page, ok := pages[pageURL]
			if !ok {
				return nil, readerview.Errorf(readerview.EPARSE, "no content candidate in document")
			}
			return &readerview.Result{
				URL:           pageURL,
				Content:       page[0],
				WordCount:     readerview.CountWords(page[0]),
				NextPageURL:   page[1],
				TotalPages:    1,
				RenderedPages: 1,
			}, nil
		},
	}
}

func bodyFetcher(bodies map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) ([]byte, error) {
			body, ok := bodies[url]
			if !ok {
				return nil, readerview.Errorf(readerview.EFETCH, "HTTP 404 for %s", url)
			}
			return []byte(body), nil
		},
	}
}

func TestReader_Extract(t *testing.T) {
	t.Parallel()

	t.Run("single page", func(t *testing.T) {
		t.Parallel()

		fetcher := bodyFetcher(map[string]string{"https://example.com/a": "<html/>"})
		extractor := pageExtractor(map[string][2]string{
			"https://example.com/a": {"First page.", ""},
		})

		r := reader.New(fetcher, extractor)
		result, err := r.Extract(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "First page.", result.Content)
		assert.Equal(t, 1, result.TotalPages)
		assert.Equal(t, 1, result.RenderedPages)
		assert.False(t, result.PartialPagination)
	})

	t.Run("first page fetch failure is fatal", func(t *testing.T) {
		t.Parallel()

		r := reader.New(bodyFetcher(nil), pageExtractor(nil))
		_, err := r.Extract(context.Background(), "https://example.com/missing")
		require.Error(t, err)
		assert.Equal(t, readerview.EFETCH, readerview.ErrorCode(err))
	})

	t.Run("empty url is invalid", func(t *testing.T) {
		t.Parallel()

		r := reader.New(bodyFetcher(nil), pageExtractor(nil))
		_, err := r.Extract(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, readerview.EINVALID, readerview.ErrorCode(err))
	})

	t.Run("follows next pages and merges content", func(t *testing.T) {
		t.Parallel()

		fetcher := bodyFetcher(map[string]string{
			"https://example.com/a":   "<html/>",
			"https://example.com/a/2": "<html/>",
			"https://example.com/a/3": "<html/>",
		})
		extractor := pageExtractor(map[string][2]string{
			"https://example.com/a":   {"Page one.", "https://example.com/a/2"},
			"https://example.com/a/2": {"Page two.", "https://example.com/a/3"},
			"https://example.com/a/3": {"Page three.", ""},
		})

		opts := readerview.DefaultOptions()
		opts.FollowNext = true

		r := reader.New(fetcher, extractor, reader.WithOptions(opts))
		result, err := r.Extract(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "Page one.\n\nPage two.\n\nPage three.", result.Content)
		assert.Equal(t, 3, result.TotalPages)
		assert.Equal(t, 3, result.RenderedPages)
		assert.Equal(t, 6, result.WordCount)
		assert.False(t, result.PartialPagination)
		assert.Equal(t, "https://example.com/a/3", result.NextPageURL,
			"reports the link discovered on the second page")
	})

	t.Run("stops at page limit", func(t *testing.T) {
		t.Parallel()

		bodies := make(map[string]string)
		pages := make(map[string][2]string)
		for i := 1; i <= 10; i++ {
			url := fmt.Sprintf("https://example.com/p/%d", i)
			bodies[url] = "<html/>"
			pages[url] = [2]string{fmt.Sprintf("Part %d.", i), fmt.Sprintf("https://example.com/p/%d", i+1)}
		}

		opts := readerview.DefaultOptions()
		opts.FollowNext = true
		opts.PageLimit = 3

		r := reader.New(bodyFetcher(bodies), pageExtractor(pages), reader.WithOptions(opts))
		result, err := r.Extract(context.Background(), "https://example.com/p/1")
		require.NoError(t, err)

		assert.Equal(t, 3, result.RenderedPages)
		assert.Contains(t, result.Content, "Part 3.")
		assert.NotContains(t, result.Content, "Part 4.")
	})

	t.Run("later page failure keeps merged content", func(t *testing.T) {
		t.Parallel()

		fetcher := bodyFetcher(map[string]string{
			"https://example.com/a":   "<html/>",
			"https://example.com/a/2": "<html/>",
		})
		extractor := pageExtractor(map[string][2]string{
			"https://example.com/a":   {"Page one.", "https://example.com/a/2"},
			"https://example.com/a/2": {"Page two.", "https://example.com/a/3"},
		})

		opts := readerview.DefaultOptions()
		opts.FollowNext = true

		r := reader.New(fetcher, extractor, reader.WithOptions(opts))
		result, err := r.Extract(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "Page one.\n\nPage two.", result.Content)
		assert.Equal(t, 2, result.RenderedPages)
		assert.True(t, result.PartialPagination)
	})

	t.Run("does not revisit pages", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		fetched := map[string]int{}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) ([]byte, error) {
				mu.Lock()
				fetched[url]++
				mu.Unlock()
				return []byte("<html/>"), nil
			},
		}
		// Page two links back to page one.
		extractor := pageExtractor(map[string][2]string{
			"https://example.com/a":   {"Page one.", "https://example.com/a/2"},
			"https://example.com/a/2": {"Page two.", "https://example.com/a"},
		})

		opts := readerview.DefaultOptions()
		opts.FollowNext = true

		r := reader.New(fetcher, extractor, reader.WithOptions(opts))
		result, err := r.Extract(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, 2, result.RenderedPages)
		assert.Equal(t, 1, fetched["https://example.com/a"], "first page fetched once")
	})

	t.Run("rate limits follow-up fetches per domain", func(t *testing.T) {
		t.Parallel()

		var domains []string
		limiter := &mock.PageLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}
		fetcher := bodyFetcher(map[string]string{
			"https://example.com/a":   "<html/>",
			"https://example.com/a/2": "<html/>",
		})
		extractor := pageExtractor(map[string][2]string{
			"https://example.com/a":   {"Page one.", "https://example.com/a/2"},
			"https://example.com/a/2": {"Page two.", ""},
		})

		opts := readerview.DefaultOptions()
		opts.FollowNext = true

		r := reader.New(fetcher, extractor,
			reader.WithOptions(opts), reader.WithPageLimiter(limiter))
		_, err := r.Extract(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, []string{"example.com"}, domains,
			"limiter consulted for the follow-up fetch only")
	})

	t.Run("invalid options rejected up front", func(t *testing.T) {
		t.Parallel()

		opts := readerview.DefaultOptions()
		opts.Format = "pdf"

		r := reader.New(bodyFetcher(nil), pageExtractor(nil), reader.WithOptions(opts))
		_, err := r.Extract(context.Background(), "https://example.com/a")
		require.Error(t, err)
		assert.Equal(t, readerview.EINVALID, readerview.ErrorCode(err))
	})
}

func TestReader_ExtractFromHTML(t *testing.T) {
	t.Parallel()

	extractor := pageExtractor(map[string][2]string{
		"https://example.com/a": {"Inline page.", ""},
	})
	r := reader.New(bodyFetcher(nil), extractor)

	result, err := r.ExtractFromHTML([]byte("<html/>"), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "Inline page.", result.Content)
}

func TestReader_Feeds(t *testing.T) {
	t.Parallel()

	t.Run("requires a configured parser", func(t *testing.T) {
		t.Parallel()

		r := reader.New(bodyFetcher(nil), pageExtractor(nil))
		_, err := r.ParseFeed([]byte("<rss/>"), "https://example.com/feed")
		require.Error(t, err)
		assert.Equal(t, readerview.EINVALID, readerview.ErrorCode(err))
	})

	t.Run("fetches and parses", func(t *testing.T) {
		t.Parallel()

		fetcher := bodyFetcher(map[string]string{"https://example.com/feed": "<rss/>"})
		parser := &mock.FeedParser{
			ParseFeedFn: func(data []byte, feedURL string) (*readerview.Feed, error) {
				return &readerview.Feed{Title: "Parsed", FeedURL: feedURL}, nil
			},
		}

		r := reader.New(fetcher, pageExtractor(nil), reader.WithFeedParser(parser))
		feed, err := r.FetchFeed(context.Background(), "https://example.com/feed")
		require.NoError(t, err)
		assert.Equal(t, "Parsed", feed.Title)
		assert.Equal(t, "https://example.com/feed", feed.FeedURL)
	})
}
