package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/readerview/readerview"
)

var multiBlankRe = regexp.MustCompile(`\n{3,}`)

// Text renders HTML as plain text: block elements become paragraph breaks,
// br becomes a newline, and whitespace collapses within lines.
func Text(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		writeText(n, &b)
	}
	out := multiBlankRe.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

func writeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpaces(n.Data))
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}
	block := n.Type == html.ElementNode && blockLevelTags[n.Data]
	if block {
		b.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, b)
	}
	if block {
		b.WriteString("\n\n")
	}
}

func collapseSpaces(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	collapsed := strings.Join(strings.Fields(s), " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		collapsed = " " + collapsed
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		collapsed += " "
	}
	return collapsed
}

// Excerpt returns the first 200 characters of the rendered plain text.
func Excerpt(htmlStr string) string {
	text := Text(htmlStr)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return string(runes)
}

// TextConverter renders HTML as plain text through the Converter interface.
type TextConverter struct{}

var _ readerview.Converter = (*TextConverter)(nil)

// NewTextConverter returns a plain text converter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert implements readerview.Converter.
func (c *TextConverter) Convert(htmlStr string) (string, error) {
	return Text(htmlStr), nil
}
