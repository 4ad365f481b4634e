package goquery

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

var trailingPageRe = regexp.MustCompile(`(page/|page=|[?&]p=|paged=)(\d+)`)

// NextPageURL discovers the link to the next page of a paginated article.
// Selectors are tried in priority order; as a last resort a numeric page
// counter in the current URL is incremented, but only when the document
// actually links to that incremented URL.
func NextPageURL(doc *goquery.Document, pageURL string) string {
	candidates := []struct{ selector, attr string }{
		{"link[rel='next']", "href"},
		{"a[rel='next']", "href"},
		{".next a[href]", "href"},
		{".pagination a[rel='next'][href]", "href"},
	}
	for _, c := range candidates {
		if href := doc.Find(c.selector).First().AttrOr(c.attr, ""); href != "" {
			if resolved := resolveLink(href, pageURL); resolved != "" && resolved != pageURL {
				return resolved
			}
		}
	}
	return incrementedPageLink(doc, pageURL)
}

func incrementedPageLink(doc *goquery.Document, pageURL string) string {
	m := trailingPageRe.FindStringSubmatchIndex(pageURL)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(pageURL[m[4]:m[5]])
	if err != nil {
		return ""
	}
	next := pageURL[:m[4]] + strconv.Itoa(n+1) + pageURL[m[5]:]

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if resolveLink(a.AttrOr("href", ""), pageURL) == next {
			found = next
			return false
		}
		return true
	})
	return found
}

func resolveLink(href, base string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
