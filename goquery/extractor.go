package goquery

import (
	"net/url"
	"strings"

	"github.com/readerview/readerview"
)

// thinContentThreshold is the plain-text length below which the extractor
// falls back to a JSON-LD articleBody when one is present.
const thinContentThreshold = 500

// Extractor is the content extraction engine. Collaborators are injected so
// the pipeline runs without I/O.
type Extractor struct {
	registry  *Registry
	sanitizer readerview.Sanitizer
	markdown  readerview.Converter
	text      readerview.Converter
}

var _ readerview.Extractor = (*Extractor)(nil)

// NewExtractor returns an Extractor using the built-in site transform rules.
func NewExtractor(sanitizer readerview.Sanitizer, markdown readerview.Converter, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		registry:  DefaultRegistry(),
		sanitizer: sanitizer,
		markdown:  markdown,
		text:      NewTextConverter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRegistry replaces the built-in site transform rules.
func WithRegistry(r *Registry) ExtractorOption {
	return func(e *Extractor) { e.registry = r }
}

// Extract runs the full single-page pipeline: parse, metadata, site
// transforms, scoring, candidate selection, sibling merge, cleaning,
// sanitization, and output formatting.
func (e *Extractor) Extract(data []byte, pageURL string, opts readerview.Options) (*readerview.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	host := hostOf(pageURL)
	meta := extractMetadata(doc, pageURL)

	e.registry.Apply(doc, host)

	scores := ScoreContent(doc)
	candidate, topScore := FindTopCandidate(doc, scores)
	if candidate == nil {
		return nil, readerview.Errorf(readerview.EPARSE, "no content candidate in document")
	}

	merged := MergeSiblings(candidate, topScore, scores)
	cleaned := CleanArticle(merged, meta.Title)
	sanitized := e.sanitizer.Sanitize(cleaned)

	plain := Text(sanitized)
	if len(plain) < thinContentThreshold && len(meta.ArticleBody) > len(plain) {
		sanitized = e.sanitizer.Sanitize(articleBodyHTML(meta.ArticleBody))
		plain = Text(sanitized)
	}

	content, err := e.format(sanitized, plain, opts.Format)
	if err != nil {
		return nil, err
	}

	excerpt := Excerpt(sanitized)

	return &readerview.Result{
		URL:           pageURL,
		Domain:        host,
		Title:         meta.Title,
		Author:        meta.Author,
		Content:       content,
		Excerpt:       excerpt,
		Dek:           meta.Dek,
		Description:   meta.Description,
		SiteName:      meta.SiteName,
		SiteTitle:     meta.SiteTitle,
		SiteImage:     meta.SiteImage,
		Language:      meta.Language,
		Direction:     Direction(doc, meta.Title+" "+plain),
		ThemeColor:    meta.ThemeColor,
		Favicon:       meta.Favicon,
		LeadImageURL:  meta.LeadImageURL,
		PublishedMS:   meta.PublishedMS,
		WordCount:     readerview.CountWords(plain),
		TotalPages:    1,
		RenderedPages: 1,
		NextPageURL:   NextPageURL(doc, pageURL),
		VideoURL:      meta.VideoURL,
		VideoMetadata: meta.VideoMetadata,
	}, nil
}

// ExtractMetadata reads page metadata without running content scoring.
func (e *Extractor) ExtractMetadata(data []byte, pageURL string) (*readerview.Metadata, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	meta := extractMetadata(doc, pageURL)
	return &readerview.Metadata{
		URL:         pageURL,
		Domain:      hostOf(pageURL),
		Title:       meta.Title,
		Author:      meta.Author,
		Description: meta.Description,
		SiteName:    meta.SiteName,
		Language:    meta.Language,
		ImageURL:    meta.LeadImageURL,
		Favicon:     meta.Favicon,
		ThemeColor:  meta.ThemeColor,
		PublishedMS: meta.PublishedMS,
	}, nil
}

func (e *Extractor) format(sanitized, plain string, format readerview.Format) (string, error) {
	switch format {
	case readerview.FormatHTML:
		return sanitized, nil
	case readerview.FormatMarkdown:
		out, err := e.markdown.Convert(sanitized)
		if err != nil {
			return "", readerview.Errorf(readerview.EINTERNAL, "markdown conversion failed: %v", err)
		}
		return out, nil
	case readerview.FormatText:
		return plain, nil
	}
	return "", readerview.Errorf(readerview.EINVALID, "unknown output format %q", format)
}

// articleBodyHTML wraps a JSON-LD article body's paragraphs in markup so the
// fallback path feeds the same formatter as real content.
func articleBodyHTML(body string) string {
	var b strings.Builder
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(para)
		b.WriteString("</p>")
	}
	return b.String()
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
