package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/readerview/readerview"
)

// FirstImage returns the first img src in the selection that survives the
// tracking-pixel and spacer filters, resolved against base. Empty when none
// qualifies. Declared dimensions count: a clean URL on a 1x1 img does not
// make it a thumbnail.
func FirstImage(s *goquery.Selection, base string) string {
	found := ""
	s.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			return true
		}
		if ShouldRemoveImage(img) {
			return true
		}
		resolved := readerview.ResolveImageURL(src, base)
		if resolved == "" || !readerview.IsValidImageURL(resolved) {
			return true
		}
		found = resolved
		return false
	})
	return found
}

// FirstImageInHTML is FirstImage over a standalone HTML fragment, used when
// the caller has markup rather than a parsed document.
func FirstImageInHTML(fragment, base string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return FirstImage(doc.Selection, base)
}
