package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BrsToPs converts runs of two or more br elements into paragraph breaks:
// the run is replaced by a boundary and the bare inline content on each side
// is wrapped in its own paragraph.
func BrsToPs(doc *goquery.Document) {
	brs := doc.Find("br").Nodes
	for i := 0; i < len(brs); i++ {
		n := brs[i]
		if n.Parent == nil {
			continue
		}
		run := brRun(n)
		if len(run) < 2 {
			continue
		}
		// Drop the extra brs, keep one node as the split marker.
		for _, extra := range run[1:] {
			extra.Parent.RemoveChild(extra)
		}
		splitAroundBr(n)
	}
	wrapBareText(doc)
}

// brRun collects n and the consecutive br siblings that follow it, looking
// through whitespace-only text nodes.
func brRun(n *html.Node) []*html.Node {
	run := []*html.Node{n}
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			break
		}
		if c.Type == html.ElementNode && c.Data == "br" {
			run = append(run, c)
			continue
		}
		break
	}
	return run
}

// splitAroundBr replaces the marker br with a paragraph boundary. Inside a
// paragraph the parent is split in two; elsewhere an empty marker paragraph
// is left for wrapBareText to flesh out.
func splitAroundBr(br *html.Node) {
	parent := br.Parent
	if parent.Type == html.ElementNode && parent.Data == "p" {
		after := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		for c := br.NextSibling; c != nil; {
			next := c.NextSibling
			parent.RemoveChild(c)
			after.AppendChild(c)
			c = next
		}
		parent.RemoveChild(br)
		if parent.Parent != nil {
			parent.Parent.InsertBefore(after, parent.NextSibling)
		}
		return
	}
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
	parent.InsertBefore(p, br)
	parent.RemoveChild(br)
}

var blockLevelTags = map[string]bool{
	"p": true, "div": true, "article": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true,
	"figure": true, "header": true, "footer": true, "aside": true, "nav": true,
}

// wrapBareText wraps runs of inline content sitting directly inside block
// containers into paragraphs, so text freed by br splitting gets a real
// block of its own.
func wrapBareText(doc *goquery.Document) {
	doc.Find("body, div, article, section").Each(func(_ int, s *goquery.Selection) {
		for _, container := range s.Nodes {
			wrapInlineRuns(container)
		}
	})
}

func wrapInlineRuns(container *html.Node) {
	var run []*html.Node
	flush := func(before *html.Node) {
		if !runHasText(run) {
			run = nil
			return
		}
		p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		container.InsertBefore(p, before)
		for _, n := range run {
			container.RemoveChild(n)
			p.AppendChild(n)
		}
		run = nil
	}

	c := container.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.ElementNode && blockLevelTags[c.Data] {
			flush(c)
		} else {
			run = append(run, c)
		}
		c = next
	}
	flush(nil)
}

func runHasText(run []*html.Node) bool {
	for _, n := range run {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			return true
		}
		if n.Type == html.ElementNode {
			return true
		}
	}
	return false
}
