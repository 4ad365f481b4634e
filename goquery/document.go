// Package goquery implements the content extraction engine: DOM loading,
// site-specific transforms, cleaning, readability scoring, candidate
// selection, metadata extraction, and next-page discovery.
package goquery

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/readerview/readerview"
)

// Parse parses raw HTML bytes into a document. The parser is lenient and
// recovers from malformed markup; only empty input or a reader failure is
// an error.
func Parse(data []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, readerview.Errorf(readerview.EINVALID, "empty document")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, readerview.Errorf(readerview.EPARSE, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
