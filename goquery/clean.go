package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	candidatesBlacklistRe = regexp.MustCompile(`(?i)(ad-break|ad-banner|adbox|advert|addthis|agegate|aux|blogger-labels|combx|comment|conversation|disqus|entry-unrelated|extra|foot|header|hidden|loader|login|menu|meta|nav|outbrain|pager|pagination|predicta|presence_control_external|popup|printfriendly|related|remove|remark|rss|share|shoutbox|sidebar|sociable|sponsor|taboola|tools)`)
	candidatesWhitelistRe = regexp.MustCompile(`(?i)(and|article|body|blogindex|column|content|entry-content-asset|format|hfeed|hentry|hatom|main|page|posts|shadow)`)

	spacerImageRe    = regexp.MustCompile(`(?i)transparent|spacer|blank`)
	whitelistAttrsRe = regexp.MustCompile(`(?i)^(src|srcset|sizes|type|href|class|id|alt|xlink:href|width|height)$`)
)

// Iframes from these hosts survive cleaning; everything else embedded goes.
var keepIframeSelectors = []string{
	`iframe[src^="https://www.youtube.com"]`,
	`iframe[src^="https://www.youtube-nocookie.com"]`,
	`iframe[src^="http://www.youtube.com"]`,
	`iframe[src^="https://player.vimeo"]`,
	`iframe[src^="http://player.vimeo"]`,
	`iframe[src^="https://www.redditmedia.com"]`,
}

const conditionalCleanTags = "ul, ol, table, div, button"

// CleanArticle runs the full cleaning pipeline over an extracted content
// fragment and returns the cleaned HTML. The title is used to drop headers
// that just repeat it.
func CleanArticle(fragment, title string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	stripNoiseTags(doc)
	BrsToPs(doc)
	convertDivsToParagraphs(doc)
	demoteExtraH1s(doc)
	stripUnlikelyCandidates(doc)
	cleanConditionally(doc)
	cleanHeaders(doc, title)
	cleanImages(doc)
	removeEmptyParagraphs(doc)
	filterAttributes(doc)
	rewriteEmptyLinks(doc)

	return RewriteTopLevel(doc)
}

// IsUnlikelyCandidate reports whether the node's class/id mark it as
// boilerplate: a negative keyword match with no positive keyword rescue.
// Anchors are never removed this way.
func IsUnlikelyCandidate(s *goquery.Selection) bool {
	if goquery.NodeName(s) == "a" {
		return false
	}
	class := s.AttrOr("class", "")
	id := s.AttrOr("id", "")
	if class == "" && id == "" {
		return false
	}
	combo := class + " " + id
	if candidatesWhitelistRe.MatchString(combo) {
		return false
	}
	return candidatesBlacklistRe.MatchString(combo)
}

func stripNoiseTags(doc *goquery.Document) {
	doc.Find("script, style, title, link, meta, hr, embed, object").Remove()
	doc.Find("nav, header, footer, aside, form").Remove()
	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		for _, keep := range keepIframeSelectors {
			if s.Is(keep) {
				return
			}
		}
		s.Remove()
	})
}

func stripUnlikelyCandidates(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 || s.Nodes[0].Parent == nil {
			return
		}
		if IsUnlikelyCandidate(s) && !containsKeptEmbed(s) {
			s.Remove()
		}
	})
}

func containsKeptEmbed(s *goquery.Selection) bool {
	for _, keep := range keepIframeSelectors {
		if s.Is(keep) || s.Find(keep).Length() > 0 {
			return true
		}
	}
	return false
}

// cleanConditionally removes lists, tables and divs whose content signals
// (commas, text length, image/input counts, link density) say boilerplate
// rather than article body.
func cleanConditionally(doc *goquery.Document) {
	doc.Find(conditionalCleanTags).Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 || s.Nodes[0].Parent == nil {
			return
		}
		if containsKeptEmbed(s) {
			return
		}
		weight := Weight(s)
		if weight < 0 || shouldRemoveConditionally(s, weight) {
			s.Remove()
		}
	})
}

func shouldRemoveConditionally(s *goquery.Selection, weight int) bool {
	if s.HasClass("entry-content-asset") {
		return false
	}
	content := NormalizeSpaces(s.Text())
	if strings.Count(content, ",") >= 10 {
		return false
	}

	pCount := s.Find("p").Length()
	inputCount := s.Find("input, textarea, select, button").Length()
	if float64(inputCount) > float64(pCount)/3 {
		return true
	}

	length := len(content)
	if length < 25 && s.Find("img").Length() == 0 {
		return true
	}

	density := LinkDensity(s)
	if weight < 25 && density > 0.2 && length > 75 {
		return true
	}
	if weight >= 25 && density > 0.5 {
		tag := goquery.NodeName(s)
		if tag == "ol" || tag == "ul" {
			// A link list introduced by a trailing colon is usually part
			// of the article.
			if prev := s.Prev(); prev.Length() > 0 &&
				strings.HasSuffix(NormalizeSpaces(prev.Text()), ":") {
				return false
			}
		}
		return true
	}

	if s.Find("script").Length() > 0 && length < 150 {
		return true
	}
	return false
}

// cleanHeaders drops h2-h6 headers that sit apart from any paragraph, repeat
// the page title, carry negative class/id weight, or are too short to mean
// anything. A header ahead of the body is kept as long as paragraphs follow
// it, so a demoted second h1 survives.
func cleanHeaders(doc *goquery.Document, title string) {
	hasParagraphs := doc.Find("p").Length() > 0
	doc.Find("h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if shouldRemoveHeader(s, title, hasParagraphs) {
			s.Remove()
		}
	})
}

func shouldRemoveHeader(s *goquery.Selection, title string, hasParagraphs bool) bool {
	if !hasParagraphs {
		return true
	}
	text := NormalizeSpaces(s.Text())
	if title != "" && text == NormalizeSpaces(title) {
		return true
	}
	if Weight(s) < 0 {
		return true
	}
	return len(text) < 3
}

// ShouldRemoveImage reports whether an img is a spacer or too small to be
// content. Missing dimensions are assumed fine.
func ShouldRemoveImage(s *goquery.Selection) bool {
	src, ok := s.Attr("src")
	if !ok {
		return true
	}
	if spacerImageRe.MatchString(src) {
		return true
	}
	return dimensionOr(s, "height", 20) < 10 || dimensionOr(s, "width", 20) < 10
}

func dimensionOr(s *goquery.Selection, attr string, fallback int) int {
	v, ok := s.Attr(attr)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func cleanImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if ShouldRemoveImage(s) {
			s.Remove()
		}
	})
}

func removeEmptyParagraphs(doc *goquery.Document) {
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Find("img").Length() == 0 {
			s.Remove()
		}
	})
}

func filterAttributes(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if whitelistAttrsRe.MatchString(a.Key) {
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}
	})
}

// demoteExtraH1s keeps the first h1 and turns the rest into h2, so the
// extracted fragment has at most one top-level heading.
func demoteExtraH1s(doc *goquery.Document) {
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		renameNodes(s, "h2")
	})
}

// rewriteEmptyLinks unwraps anchors with an empty or "#" href that still
// carry text, leaving the text in place.
func rewriteEmptyLinks(doc *goquery.Document) {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href != "" && href != "#" {
			return
		}
		if strings.TrimSpace(s.Text()) == "" {
			return
		}
		unwrapNodes(s)
	})
}

// convertDivsToParagraphs rewrites div and span elements with no block-level
// children into paragraphs.
func convertDivsToParagraphs(doc *goquery.Document) {
	const blockTags = "a, blockquote, dl, div, img, p, pre, table"
	doc.Find("div, span").Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockTags).Length() > 0 {
			return
		}
		renameNodes(s, "p")
	})
}

// RewriteTopLevel renames the document's html and body wrapper elements to
// divs, drops the head, and returns the serialized result. Extracted
// fragments then nest cleanly inside any page.
func RewriteTopLevel(doc *goquery.Document) string {
	doc.Find("head").Remove()
	root := doc.Find("html")
	for _, sel := range []*goquery.Selection{root, doc.Find("body")} {
		for _, n := range sel.Nodes {
			if n.Type == html.ElementNode {
				renameNodes(sel, "div")
				break
			}
		}
	}
	if root.Length() == 0 {
		h, err := doc.Html()
		if err != nil {
			return ""
		}
		return h
	}
	return outerHTML(root.First())
}
