// Package bluemonday provides the article sanitization policy applied to
// extracted content before output formatting.
package bluemonday

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/readerview/readerview"
)

// Sanitizer strips everything outside the article allow-list: active
// content disappears with its subtree, unknown tags are dropped but their
// text kept, and disallowed attributes are removed.
type Sanitizer struct {
	policy *bluemonday.Policy
}

var _ readerview.Sanitizer = (*Sanitizer)(nil)

// NewSanitizer returns the article policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "b", "em", "i", "u",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "code",
		"img", "a", "span", "div", "figure", "figcaption",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "srcset", "sizes", "class").OnElements("img")
	p.AllowAttrs("class", "id").OnElements("div", "span")
	p.AllowAttrs("class").OnElements("p")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)

	return &Sanitizer{policy: p}
}

// Sanitize implements readerview.Sanitizer. Running it on its own output
// returns the input unchanged.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
