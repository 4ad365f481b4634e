package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TransformFunc mutates a selected element in place. Transforms must be
// idempotent: applying one twice leaves the tree as after the first
// application.
type TransformFunc func(*goquery.Selection)

// Rule pairs a CSS selector with the transform applied to its matches.
type Rule struct {
	Selector  string
	Transform TransformFunc
}

// Rename returns a transform that renames matched elements to tag,
// preserving attributes and children.
func Rename(tag string) TransformFunc {
	return func(s *goquery.Selection) { renameNodes(s, tag) }
}

// Unwrap returns a transform that removes the matched element but keeps its
// children in place.
func Unwrap() TransformFunc {
	return func(s *goquery.Selection) { unwrapNodes(s) }
}

// SetAttr returns a transform that sets an attribute to a fixed value.
func SetAttr(name, value string) TransformFunc {
	return func(s *goquery.Selection) { s.SetAttr(name, value) }
}

// MoveAttr returns a transform that copies the value of attribute from onto
// attribute to, overwriting any existing value, when from is present.
func MoveAttr(from, to string) TransformFunc {
	return func(s *goquery.Selection) {
		if v, ok := s.Attr(from); ok && v != "" {
			s.SetAttr(to, v)
		}
	}
}

// Noop returns a transform that leaves the element untouched. Used as a
// placeholder while a site rule is being worked out.
func Noop() TransformFunc {
	return func(*goquery.Selection) {}
}

// Registry holds site-specific transform rules keyed by hostname. Rules for
// a host apply in registration order.
type Registry struct {
	rules map[string][]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string][]Rule)}
}

// Register appends rules for the given hostnames. The same rule set may be
// shared by several hosts (mirrors, mobile domains).
func (r *Registry) Register(rules []Rule, hosts ...string) {
	for _, h := range hosts {
		r.rules[h] = append(r.rules[h], rules...)
	}
}

// Rules returns the rules registered for host. Without an exact entry the
// parent domains are consulted, so rules keyed "wikipedia.org" also cover
// "de.wikipedia.org".
func (r *Registry) Rules(host string) []Rule {
	for h := host; h != ""; {
		if rules, ok := r.rules[h]; ok {
			return rules
		}
		i := strings.Index(h, ".")
		if i < 0 {
			break
		}
		h = h[i+1:]
	}
	return nil
}

// Len returns the number of hosts with registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Apply runs the host's rules against the document in order, then the
// host-independent fixes every page gets: the lazy-load attribute rescue
// and the noscript-wrapped lead image rewrite.
func (r *Registry) Apply(doc *goquery.Document, host string) {
	for _, rule := range r.Rules(host) {
		doc.Find(rule.Selector).Each(func(_ int, s *goquery.Selection) {
			rule.Transform(s)
		})
	}
	applyGenericTransforms(doc)
}

// applyGenericTransforms runs the site-independent rewrites.
func applyGenericTransforms(doc *goquery.Document) {
	fixLazyImages(doc)
	fixLazyAnchors(doc)
	fixNoscriptImages(doc)
}

var lazySrcAttrs = []string{
	"data-src", "data-original", "data-lazy", "data-lazy-src",
	"data-zoom", "data-zoom-src", "data-href", "data-url",
}

var lazySrcsetAttrs = []string{"data-srcset", "data-original-set", "data-src-set"}

func fixLazyImages(doc *goquery.Document) {
	doc.Find("img, source").Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("src", "") == "" {
			for _, name := range lazySrcAttrs {
				if v := s.AttrOr(name, ""); v != "" {
					s.SetAttr("src", v)
					break
				}
			}
		}
		if s.AttrOr("srcset", "") == "" {
			for _, name := range lazySrcsetAttrs {
				if v := s.AttrOr(name, ""); v != "" {
					s.SetAttr("srcset", v)
					break
				}
			}
		}
	})
}

func fixLazyAnchors(doc *goquery.Document) {
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("href", "") != "" {
			return
		}
		for _, name := range []string{"data-href", "data-url"} {
			if v := s.AttrOr(name, ""); v != "" {
				s.SetAttr("href", v)
				return
			}
		}
	})
}

// fixNoscriptImages rewrites a noscript whose only element child is a single
// img into a span wrapping that img, surfacing lazy-loaded lead images.
func fixNoscriptImages(doc *goquery.Document) {
	doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		// The HTML5 parser treats noscript content as raw text, so the
		// inner markup must be re-parsed to inspect it.
		inner, err := s.Html()
		if err != nil {
			return
		}
		frag, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
		if err != nil {
			return
		}
		children := frag.Find("body").Children()
		if children.Length() != 1 || goquery.NodeName(children.First()) != "img" {
			return
		}
		img := outerHTML(children.First())
		if img == "" {
			return
		}
		s.ReplaceWithHtml("<span>" + img + "</span>")
	})
}

// DefaultRegistry returns the built-in per-site rules.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register([]Rule{{`div[role="img"]`, redditImage}}, "www.reddit.com")
	r.Register([]Rule{{".trb_ar_la", keepInnerFigure}}, "www.latimes.com")
	r.Register([]Rule{{"iframe", lazyYouTubeIframe}},
		"www.youtube.com", "youtu.be",
		"deadspin.com", "jezebel.com", "lifehacker.com", "kotaku.com",
		"gizmodo.com", "jalopnik.com", "kinja.com", "avclub.com",
		"theonion.com", "theroot.com", "thetakeout.com",
	)
	r.Register([]Rule{{"img", MoveAttr("data-src", "src")}},
		"news.mynavi.jp", "www.lifehacker.jp", "www.gizmodo.jp")
	r.Register([]Rule{
		{".zn-body__paragraph, .el__leafmedia--sourced-paragraph", Unwrap()},
		{".media__video--thumbnail", videoThumbnailFigure},
	}, "www.cnn.com")
	r.Register([]Rule{
		{`div[data-render-react-id="images/LazyPicture"]`, Unwrap()},
	}, "www.apartmenttherapy.com")
	r.Register([]Rule{
		{".embed-twitter", Rename("blockquote")},
		{".embed-twitter", SetAttr("class", "twitter-tweet")},
	}, "deadline.com")
	r.Register([]Rule{{".article-subtitle", Rename("h4")}}, "www.reuters.com")
	r.Register([]Rule{
		{".caption__credit", Rename("figcaption")},
		{".caption__text", Rename("figcaption")},
	}, "www.newyorker.com")
	r.Register([]Rule{
		{".bucketwrap.image", Rename("figure")},
		{".bucketwrap.image .credit-caption", Rename("figcaption")},
	}, "www.npr.org")
	r.Register([]Rule{
		{"div.post-content__image", Rename("figure")},
		{"div.post-content__image .image__credits", Rename("figcaption")},
	}, "www.eonline.com")
	r.Register([]Rule{
		{"div.image-left, div.image-none, div.image-right", Rename("figure")},
		{".image-left i, .image-none i, .image-right i", Rename("figcaption")},
	}, "gothamist.com")
	r.Register([]Rule{
		{"figure.longform_custom_header_media .longform_header_image_source", Rename("figcaption")},
		{"h2", Rename("b")},
	}, "www.buzzfeed.com")
	r.Register([]Rule{{"h1", Rename("h2")}}, "nymag.com")
	r.Register([]Rule{{"figure .e-image__meta", Rename("figcaption")}}, "www.vox.com")
	r.Register([]Rule{
		{".article__author", Rename("p")},
		{"byline", Rename("p")},
		{"linkbox", Rename("p")},
		{"p.title", Rename("h1")},
	}, "epaper.zeit.de")
	r.Register([]Rule{{"s", Rename("span")}}, "twitter.com")
	r.Register([]Rule{
		{"div.image", Rename("figure")},
		{"div.image .wp-media-credit", Rename("figcaption")},
	}, "uproxx.com")
	r.Register([]Rule{{".caption", Rename("figcaption")}}, "www.fool.com")
	r.Register([]Rule{{".image-credit", Rename("figcaption")}}, "mashable.com")
	r.Register([]Rule{
		{"li", Rename("p")},
		{"ol", Rename("div")},
	}, "pastebin.com")
	r.Register([]Rule{{".pb-caption", Rename("figcaption")}}, "www.washingtonpost.com")
	r.Register([]Rule{
		{".infobox", Rename("figure")},
		{".infobox caption", Rename("figcaption")},
	}, "wikipedia.org", "en.wikipedia.org")

	return r
}

// redditImage turns a styled preview div into a plain img.
func redditImage(s *goquery.Selection) {
	src := s.AttrOr("data-url", "")
	if src == "" {
		style := s.AttrOr("style", "")
		if i := strings.Index(style, "url("); i >= 0 {
			rest := style[i+4:]
			if j := strings.Index(rest, ")"); j >= 0 {
				src = strings.Trim(rest[:j], `'"`)
			}
		}
	}
	if src == "" {
		return
	}
	alt := s.AttrOr("aria-label", "")
	s.ReplaceWithHtml(fmt.Sprintf(`<img src=%q alt=%q/>`, src, alt))
}

// lazyYouTubeIframe restores a src on lazily initialized video embeds.
func lazyYouTubeIframe(s *goquery.Selection) {
	if s.AttrOr("src", "") != "" {
		return
	}
	if v := s.AttrOr("data-src", ""); v != "" {
		s.SetAttr("src", v)
		return
	}
	if rec := s.AttrOr("data-recommend-id", ""); strings.HasPrefix(rec, "youtube://") {
		s.SetAttr("src", "https://www.youtube.com/embed/"+strings.TrimPrefix(rec, "youtube://"))
		return
	}
	if id := s.AttrOr("id", ""); strings.HasPrefix(id, "youtube-") {
		s.SetAttr("src", "https://www.youtube.com/embed/"+strings.TrimPrefix(id, "youtube-"))
	}
}

func videoThumbnailFigure(s *goquery.Selection) {
	img := s.Find("img").First()
	src := img.AttrOr("src", "")
	if src == "" {
		return
	}
	s.ReplaceWithHtml(fmt.Sprintf(`<figure class="media__video--thumbnail"><img src=%q/></figure>`, src))
}

func keepInnerFigure(s *goquery.Selection) {
	figure := s.Find("figure").First()
	if figure.Length() == 0 {
		return
	}
	inner, err := figure.Html()
	if err != nil {
		return
	}
	s.ReplaceWithHtml("<figure>" + inner + "</figure>")
}

func renameNodes(s *goquery.Selection, tag string) {
	for _, n := range s.Nodes {
		if n.Type != html.ElementNode {
			continue
		}
		n.Data = tag
		n.DataAtom = atom.Lookup([]byte(tag))
	}
}

func unwrapNodes(s *goquery.Selection) {
	for _, n := range s.Nodes {
		parent := n.Parent
		if parent == nil {
			continue
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			parent.InsertBefore(c, n)
			c = next
		}
		parent.RemoveChild(n)
	}
}
