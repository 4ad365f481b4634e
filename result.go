package readerview

import (
	"strings"
	"time"
)

// Result holds the extracted article view for one page (or one merged
// multi-page article).
type Result struct {
	URL     string `json:"url"`
	Domain  string `json:"domain"`
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content"`

	Excerpt     string `json:"excerpt,omitempty"`
	Dek         string `json:"dek,omitempty"`
	Description string `json:"description,omitempty"`

	SiteName  string `json:"siteName,omitempty"`
	SiteTitle string `json:"siteTitle,omitempty"`
	SiteImage string `json:"siteImage,omitempty"`

	Language   string `json:"language,omitempty"`
	Direction  string `json:"direction,omitempty"`
	ThemeColor string `json:"themeColor,omitempty"`
	Favicon    string `json:"favicon,omitempty"`

	LeadImageURL string `json:"leadImageUrl,omitempty"`

	// PublishedMS is the publication timestamp in milliseconds since the
	// Unix epoch; 0 means unknown.
	PublishedMS int64 `json:"publishedMs"`

	WordCount int `json:"wordCount"`

	TotalPages    int    `json:"totalPages"`
	RenderedPages int    `json:"renderedPages"`
	NextPageURL   string `json:"nextPageUrl,omitempty"`

	// PartialPagination is set when a page beyond the first failed to fetch
	// or parse; the content merged up to that point is still returned.
	PartialPagination bool `json:"partialPagination,omitempty"`

	VideoURL      string            `json:"videoUrl,omitempty"`
	VideoMetadata map[string]string `json:"videoMetadata,omitempty"`
}

// IsEmpty reports whether the result carries no meaningful content.
func (r *Result) IsEmpty() bool {
	return r.Title == "" && r.Content == ""
}

// HasAuthor reports whether an author was extracted.
func (r *Result) HasAuthor() bool { return r.Author != "" }

// HasImage reports whether a lead image was extracted.
func (r *Result) HasImage() bool { return r.LeadImageURL != "" }

// Published returns the publication time, or the zero time if unknown.
func (r *Result) Published() time.Time {
	if r.PublishedMS == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.PublishedMS).UTC()
}

// FormatMarkdown renders the result as a standalone markdown document with a
// title heading, byline, source link, excerpt quote, and lead image above the
// content.
func (r *Result) FormatMarkdown() string {
	var parts []string

	if r.Title != "" {
		parts = append(parts, "# "+r.Title)
	}

	var meta []string
	if r.Author != "" {
		meta = append(meta, "By "+r.Author)
	}
	if t := r.Published(); !t.IsZero() {
		meta = append(meta, t.Format("2006-01-02"))
	}
	if len(meta) > 0 {
		parts = append(parts, strings.Join(meta, " | "))
	}

	if r.URL != "" {
		parts = append(parts, "Source: "+r.URL)
	}

	switch {
	case r.Excerpt != "":
		parts = append(parts, "> "+r.Excerpt)
	case r.Description != "":
		parts = append(parts, "> "+r.Description)
	}

	if r.LeadImageURL != "" {
		parts = append(parts, "![Lead Image]("+r.LeadImageURL+")")
	}

	if len(parts) > 0 && r.Content != "" {
		parts = append(parts, "---")
	}
	if r.Content != "" {
		parts = append(parts, r.Content)
	}

	return strings.Join(parts, "\n\n")
}

// Metadata holds page metadata without the extracted content body. It is the
// result shape of the metadata-only entry point.
type Metadata struct {
	URL         string `json:"url"`
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Language    string `json:"language,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	ThemeColor  string `json:"themeColor,omitempty"`
	PublishedMS int64  `json:"publishedMs"`
}

// CountWords counts whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
