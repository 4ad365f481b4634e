package goquery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rvq "github.com/readerview/readerview/goquery"
	"github.com/readerview/readerview/mock"
)

func passthroughExtractor() *rvq.Extractor {
	return rvq.NewExtractor(
		&mock.Sanitizer{SanitizeFn: func(html string) string { return html }},
		&mock.Converter{ConvertFn: func(html string) (string, error) { return html, nil }},
	)
}

func TestExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("reads standard meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html><html lang="en-US"><head>
			<title>Page Title</title>
			<meta name="author" content="Sam Writer">
			<meta property="og:description" content="A descriptive line.">
			<meta property="og:site_name" content="Example News">
			<meta property="og:image" content="/images/lead.jpg">
			<meta name="theme-color" content="#336699">
			<meta property="article:published_time" content="2024-03-01T12:00:00Z">
			<link rel="icon" href="/icon.png">
		</head><body><p>Body.</p></body></html>`

		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://news.example.com/story")
		require.NoError(t, err)

		assert.Equal(t, "Page Title", meta.Title)
		assert.Equal(t, "Sam Writer", meta.Author)
		assert.Equal(t, "A descriptive line.", meta.Description)
		assert.Equal(t, "Example News", meta.SiteName)
		assert.Equal(t, "en", meta.Language)
		assert.Equal(t, "#336699", meta.ThemeColor)
		assert.Equal(t, "https://news.example.com/images/lead.jpg", meta.ImageURL)
		assert.Equal(t, "https://news.example.com/icon.png", meta.Favicon)
		assert.Equal(t, "news.example.com", meta.Domain)

		want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
		assert.Equal(t, want, meta.PublishedMS)
	})

	t.Run("json-ld wins over meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<title>Meta Title</title>
			<meta name="author" content="Meta Author">
			<script type="application/ld+json">
			{"@context":"https://schema.org","@type":"NewsArticle",
			 "headline":"Structured Headline",
			 "author":{"@type":"Person","name":"Structured Author"},
			 "datePublished":"2024-06-15T08:30:00Z",
			 "image":"https://cdn.example.com/ld.jpg"}
			</script>
		</head><body><p>Body.</p></body></html>`

		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "Structured Headline", meta.Title)
		assert.Equal(t, "Structured Author", meta.Author)
		assert.Equal(t, "https://cdn.example.com/ld.jpg", meta.ImageURL)

		want := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC).UnixMilli()
		assert.Equal(t, want, meta.PublishedMS)
	})

	t.Run("json-ld graph form", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<script type="application/ld+json">
			{"@context":"https://schema.org","@graph":[
				{"@type":"WebSite","name":"irrelevant"},
				{"@type":"BlogPosting","headline":"Graph Headline","author":[{"name":"First Author"},{"name":"Second"}]}
			]}
			</script>
		</head><body><p>Body.</p></body></html>`

		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "Graph Headline", meta.Title)
		assert.Equal(t, "First Author", meta.Author)
	})

	t.Run("og title beats the document title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<title>Site Chrome | Example.com</title>
			<meta property="og:title" content="The Real Headline">
		</head><body><p>Body.</p></body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "The Real Headline", meta.Title)
	})

	t.Run("byline beats the author meta tag", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta name="author" content="Example Staff">
		</head><body>
			<div class="byline">Robin Chronicler</div>
			<p>Body.</p>
		</body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "Robin Chronicler", meta.Author)
	})

	t.Run("rel author link is recognized", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a rel="author" href="/people/ash">Ash Correspondent</a>
			<p>Body.</p>
		</body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "Ash Correspondent", meta.Author)
	})

	t.Run("content-language meta fills in for html lang", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<meta http-equiv="content-language" content="fr-FR">
		</head><body><p>Corps.</p></body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "fr", meta.Language)
	})

	t.Run("title falls back to headings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>  The Heading  </h1><p>Body.</p></body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "The Heading", meta.Title)
	})

	t.Run("author falls back to byline element", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="byline">By Casey Reporter</div><p>Body.</p></body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "By Casey Reporter", meta.Author)
	})

	t.Run("favicon defaults to the root icon", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Body.</p></body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/deep/path")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/favicon.ico", meta.Favicon)
	})

	t.Run("lead image falls back to first content image", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<img src="/1x1/pixel.gif" width="1" height="1">
			<img src="/photos/real.jpg" width="800" height="600">
			<p>Body.</p>
		</body></html>`
		meta, err := passthroughExtractor().ExtractMetadata([]byte(html), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/photos/real.jpg", meta.ImageURL)
	})

	t.Run("rejects unparseable input", func(t *testing.T) {
		t.Parallel()

		_, err := passthroughExtractor().ExtractMetadata([]byte("   "), "https://example.com/a")
		require.Error(t, err)
	})
}

func TestDirection(t *testing.T) {
	t.Parallel()

	t.Run("explicit dir attribute wins", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<html dir="rtl"><body><p>hello world entirely latin</p></body></html>`)
		assert.Equal(t, "rtl", rvq.Direction(doc, "hello world entirely latin"))
	})

	t.Run("hebrew text detected as rtl", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<html><body><p>x</p></body></html>`)
		assert.Equal(t, "rtl", rvq.Direction(doc, "שלום עולם זה טקסט בעברית"))
	})

	t.Run("arabic text detected as rtl", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<html><body><p>x</p></body></html>`)
		assert.Equal(t, "rtl", rvq.Direction(doc, "مرحبا بالعالم هذا نص عربي"))
	})

	t.Run("latin text is ltr", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<html><body><p>x</p></body></html>`)
		assert.Equal(t, "ltr", rvq.Direction(doc, "plain english text throughout"))
	})
}
