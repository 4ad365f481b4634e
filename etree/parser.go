// Package etree parses RSS 2.0, Atom, and podcast feeds into the
// readerview feed model. Parsing runs over the raw XML tree so iTunes
// and Media RSS extension elements stay visible regardless of the
// prefix a publisher bound them to.
package etree

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/readerview/readerview"
	rvq "github.com/readerview/readerview/goquery"
)

const (
	itunesNamespace    = "itunes.com/dtds/podcast"
	mediaRSSNamespace  = "search.yahoo.com/mrss"
	contentNamespace   = "purl.org/rss/1.0/modules/content"
	podcastSampleItems = 5
)

// Parser implements readerview.FeedParser over beevik/etree.
type Parser struct {
	explicitFromSource bool
}

var _ readerview.FeedParser = (*Parser)(nil)

// Option configures a Parser.
type Option func(*Parser)

// WithExplicitFromSource makes the parser copy a source explicit marker
// (itunes:explicit or an itunes media rating) onto items. When off, the
// flag is always reported false.
func WithExplicitFromSource(on bool) Option {
	return func(p *Parser) { p.explicitFromSource = on }
}

// NewParser creates a feed parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// namespaces maps extension prefixes as declared in the document.
type namespaces struct {
	itunes  string
	media   string
	content string
}

// ParseFeed parses feed bytes fetched from feedURL. It returns EPARSE
// for unparseable XML and EUNSUPPORTED for well-formed XML that is
// neither an RSS channel nor an Atom feed.
func (p *Parser) ParseFeed(data []byte, feedURL string) (*readerview.Feed, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, readerview.Errorf(readerview.EPARSE, "invalid feed XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, readerview.Errorf(readerview.EPARSE, "feed document has no root element")
	}

	ns := resolveNamespaces(root)

	switch root.Tag {
	case "rss":
		channel := root.SelectElement("channel")
		if channel == nil {
			return nil, readerview.Errorf(readerview.EPARSE, "rss document has no channel")
		}
		return p.parseRSS(channel, feedURL, ns), nil
	case "feed":
		return p.parseAtom(root, feedURL, ns), nil
	case "RDF":
		// RSS 1.0. Recognized but not handled.
		return nil, readerview.Errorf(readerview.EUNSUPPORTED, "RSS 1.0 (RDF) feeds are not supported")
	default:
		return nil, readerview.Errorf(readerview.EUNSUPPORTED, "unrecognized feed root element <%s>", root.Tag)
	}
}

// resolveNamespaces finds the prefixes the document bound to the iTunes,
// Media RSS, and content-module namespaces. Conventional prefixes are
// the fallback so partially declared documents still parse.
func resolveNamespaces(root *etree.Element) namespaces {
	ns := namespaces{itunes: "itunes", media: "media", content: "content"}
	for _, attr := range root.Attr {
		if attr.Space != "xmlns" {
			continue
		}
		switch {
		case strings.Contains(attr.Value, itunesNamespace):
			ns.itunes = attr.Key
		case strings.Contains(attr.Value, mediaRSSNamespace):
			ns.media = attr.Key
		case strings.Contains(attr.Value, contentNamespace):
			ns.content = attr.Key
		}
	}
	return ns
}

// hasITunesNamespace reports whether the root declares the iTunes
// podcast namespace.
func hasITunesNamespace(root *etree.Element) bool {
	for _, attr := range root.Attr {
		if attr.Space == "xmlns" && strings.Contains(attr.Value, itunesNamespace) {
			return true
		}
	}
	return false
}

func (p *Parser) parseRSS(channel *etree.Element, feedURL string, ns namespaces) *readerview.Feed {
	items := channel.SelectElements("item")

	feedType := readerview.FeedTypeRSS
	if isPodcast(channel, items, ns) {
		feedType = readerview.FeedTypePodcast
	}

	feed := &readerview.Feed{
		Title:       childText(channel, "", "title"),
		HomeURL:     childText(channel, "", "link"),
		FeedURL:     feedURL,
		Description: childText(channel, "", "description"),
		Language:    childText(channel, "", "language"),
		Generator:   childText(channel, "", "generator"),
		Copyright:   childText(channel, "", "copyright"),
		FeedType:    feedType,
		ImageURL:    rssFeedImage(channel, ns),
		Author:      rssFeedAuthor(channel, ns),
		PublishedMS: dateMilli(childText(channel, "", "pubDate")),
	}
	feed.UpdatedMS = dateMilli(childText(channel, "", "lastBuildDate"))
	if feed.UpdatedMS == 0 {
		feed.UpdatedMS = feed.PublishedMS
	}

	for _, item := range items {
		feed.Items = append(feed.Items, p.parseRSSItem(item, feed, ns))
	}
	return feed
}

func rssFeedImage(channel *etree.Element, ns namespaces) string {
	if href := childAttr(channel, ns.itunes, "image", "href"); href != "" {
		return href
	}
	if img := channel.SelectElement("image"); img != nil {
		return childText(img, "", "url")
	}
	return ""
}

func rssFeedAuthor(channel *etree.Element, ns namespaces) *readerview.Author {
	if editor := childText(channel, "", "managingEditor"); editor != "" {
		return &readerview.Author{Name: editor}
	}
	if name := childText(channel, ns.itunes, "author"); name != "" {
		return &readerview.Author{Name: name}
	}
	return nil
}

func (p *Parser) parseRSSItem(item *etree.Element, feed *readerview.Feed, ns namespaces) *readerview.FeedItem {
	summaryHTML := childText(item, "", "description")
	contentHTML := childText(item, ns.content, "encoded")
	if contentHTML == "" {
		contentHTML = summaryHTML
	}

	fi := &readerview.FeedItem{
		Title:    childText(item, "", "title"),
		URL:      rssItemURL(item),
		GUID:     childText(item, "", "guid"),
		Summary:  rvq.Text(summaryHTML),
		Content:  rvq.Text(contentHTML),
		Language: feed.Language,
		FeedType: feed.FeedType,
	}
	if fi.GUID == "" {
		fi.GUID = fi.URL
	}

	fi.PublishedMS = dateMilli(childText(item, "", "pubDate"))
	fi.UpdatedMS = fi.PublishedMS

	fi.Author = rssItemAuthor(item, ns)
	for _, cat := range item.SelectElements("category") {
		if term := strings.TrimSpace(cat.Text()); term != "" {
			fi.Categories = append(fi.Categories, term)
		}
	}

	fi.Enclosures = collectEnclosures(item, ns)
	fi.PrimaryMediaURL = primaryMediaURL(fi.Enclosures)
	fi.DurationSeconds = itemDuration(item, ns)
	if p.explicitFromSource {
		fi.ExplicitFlag = itemExplicit(item, ns)
	}

	thumb := selectItemImage(item, fi.Enclosures, contentHTML, summaryHTML, fi.URL, ns)
	fi.ImageURL = thumb
	fi.ThumbnailURL = thumb
	return fi
}

func rssItemURL(item *etree.Element) string {
	if link := childText(item, "", "link"); link != "" {
		return link
	}
	if guid := item.SelectElement("guid"); guid != nil {
		if guid.SelectAttrValue("isPermaLink", "") != "false" {
			return strings.TrimSpace(guid.Text())
		}
	}
	return ""
}

func rssItemAuthor(item *etree.Element, ns namespaces) *readerview.Author {
	if email := childText(item, "", "author"); email != "" {
		return &readerview.Author{Name: email}
	}
	if name := childText(item, "dc", "creator"); name != "" {
		return &readerview.Author{Name: name}
	}
	if name := childText(item, ns.itunes, "author"); name != "" {
		return &readerview.Author{Name: name}
	}
	return nil
}

func (p *Parser) parseAtom(root *etree.Element, feedURL string, ns namespaces) *readerview.Feed {
	entries := root.SelectElements("entry")

	feedType := readerview.FeedTypeAtom
	if isPodcast(root, entries, ns) {
		feedType = readerview.FeedTypePodcast
	}

	feed := &readerview.Feed{
		Title:       childText(root, "", "title"),
		HomeURL:     atomLink(root, "alternate"),
		FeedURL:     feedURL,
		Description: childText(root, "", "subtitle"),
		Language:    root.SelectAttrValue("xml:lang", ""),
		Generator:   childText(root, "", "generator"),
		Copyright:   childText(root, "", "rights"),
		FeedType:    feedType,
		ImageURL:    atomFeedImage(root, ns),
		Author:      atomAuthor(root.SelectElement("author")),
		UpdatedMS:   dateMilli(childText(root, "", "updated")),
	}
	feed.PublishedMS = feed.UpdatedMS

	for _, entry := range entries {
		feed.Items = append(feed.Items, p.parseAtomEntry(entry, feed, ns))
	}
	return feed
}

func atomFeedImage(root *etree.Element, ns namespaces) string {
	if href := childAttr(root, ns.itunes, "image", "href"); href != "" {
		return href
	}
	if logo := childText(root, "", "logo"); logo != "" {
		return logo
	}
	return childText(root, "", "icon")
}

func (p *Parser) parseAtomEntry(entry *etree.Element, feed *readerview.Feed, ns namespaces) *readerview.FeedItem {
	summaryHTML := childText(entry, "", "summary")
	contentHTML := childText(entry, "", "content")
	if contentHTML == "" {
		contentHTML = summaryHTML
	}

	fi := &readerview.FeedItem{
		Title:    childText(entry, "", "title"),
		URL:      atomEntryURL(entry),
		GUID:     childText(entry, "", "id"),
		Summary:  rvq.Text(summaryHTML),
		Content:  rvq.Text(contentHTML),
		Language: feed.Language,
		FeedType: feed.FeedType,
	}
	if fi.GUID == "" {
		fi.GUID = fi.URL
	}

	fi.PublishedMS = dateMilli(childText(entry, "", "published"))
	fi.UpdatedMS = dateMilli(childText(entry, "", "updated"))
	if fi.UpdatedMS == 0 {
		fi.UpdatedMS = fi.PublishedMS
	}
	if fi.PublishedMS == 0 {
		fi.PublishedMS = fi.UpdatedMS
	}

	fi.Author = atomAuthor(entry.SelectElement("author"))
	if fi.Author == nil && feed.Author != nil {
		fi.Author = feed.Author
	}
	for _, cat := range entry.SelectElements("category") {
		if term := cat.SelectAttrValue("term", ""); term != "" {
			fi.Categories = append(fi.Categories, term)
		}
	}

	fi.Enclosures = collectEnclosures(entry, ns)
	fi.PrimaryMediaURL = primaryMediaURL(fi.Enclosures)
	fi.DurationSeconds = itemDuration(entry, ns)
	if p.explicitFromSource {
		fi.ExplicitFlag = itemExplicit(entry, ns)
	}

	thumb := selectItemImage(entry, fi.Enclosures, contentHTML, summaryHTML, fi.URL, ns)
	fi.ImageURL = thumb
	fi.ThumbnailURL = thumb
	return fi
}

func atomEntryURL(entry *etree.Element) string {
	if href := atomLink(entry, "alternate"); href != "" {
		return href
	}
	for _, link := range entry.SelectElements("link") {
		if link.SelectAttrValue("rel", "") != "enclosure" {
			if href := link.SelectAttrValue("href", ""); href != "" {
				return href
			}
		}
	}
	return childText(entry, "", "id")
}

func atomLink(e *etree.Element, rel string) string {
	var first string
	for _, link := range e.SelectElements("link") {
		href := link.SelectAttrValue("href", "")
		if href == "" {
			continue
		}
		linkRel := link.SelectAttrValue("rel", "")
		if linkRel == rel || (rel == "alternate" && linkRel == "") {
			return href
		}
		if first == "" {
			first = href
		}
	}
	return first
}

func atomAuthor(author *etree.Element) *readerview.Author {
	if author == nil {
		return nil
	}
	a := &readerview.Author{
		Name:  childText(author, "", "name"),
		Email: childText(author, "", "email"),
		URI:   childText(author, "", "uri"),
	}
	if a.Name == "" && a.Email == "" && a.URI == "" {
		return nil
	}
	return a
}

// isPodcast applies the feed type heuristic: an iTunes namespace
// declaration on the document marks a podcast outright; otherwise the
// first few items vote, counting iTunes item tags and audio/video
// enclosures as podcast indicators.
func isPodcast(container *etree.Element, items []*etree.Element, ns namespaces) bool {
	root := container
	for root.Parent() != nil {
		root = root.Parent()
	}
	if hasITunesNamespace(root) || hasITunesNamespace(container) {
		return true
	}

	sample := min(len(items), podcastSampleItems)
	if sample == 0 {
		return false
	}
	votes := 0
	for _, item := range items[:sample] {
		if hasPodcastIndicators(item, ns) {
			votes++
		}
	}
	return votes*2 > sample
}

func hasPodcastIndicators(item *etree.Element, ns namespaces) bool {
	for _, tag := range []string{"duration", "explicit", "image", "author"} {
		if child := item.SelectElement(ns.itunes + ":" + tag); child != nil {
			return true
		}
	}
	for _, enc := range collectEnclosures(item, ns) {
		if isAudioVideo(enc.MIMEType) {
			return true
		}
	}
	return false
}

func isAudioVideo(mime string) bool {
	return strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/")
}

// collectEnclosures gathers <enclosure> elements, Atom enclosure links,
// and media:content entries, deduplicating identical URL/type pairs.
func collectEnclosures(item *etree.Element, ns namespaces) []readerview.Enclosure {
	var out []readerview.Enclosure
	seen := map[[2]string]bool{}

	add := func(url, mime string, length int64) {
		if url == "" {
			return
		}
		key := [2]string{url, mime}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, readerview.Enclosure{URL: url, MIMEType: mime, Length: length})
	}

	for _, enc := range item.SelectElements("enclosure") {
		add(
			enc.SelectAttrValue("url", ""),
			enc.SelectAttrValue("type", ""),
			parseInt64(enc.SelectAttrValue("length", "")),
		)
	}
	for _, link := range item.SelectElements("link") {
		if link.SelectAttrValue("rel", "") == "enclosure" {
			add(
				link.SelectAttrValue("href", ""),
				link.SelectAttrValue("type", ""),
				parseInt64(link.SelectAttrValue("length", "")),
			)
		}
	}
	for _, mc := range item.SelectElements(ns.media + ":content") {
		add(
			mc.SelectAttrValue("url", ""),
			mc.SelectAttrValue("type", ""),
			parseInt64(mc.SelectAttrValue("fileSize", "")),
		)
	}
	return out
}

// primaryMediaURL picks the playable attachment: preferred audio codecs
// first, then any enclosure.
func primaryMediaURL(enclosures []readerview.Enclosure) string {
	if len(enclosures) == 0 {
		return ""
	}
	for _, preferred := range []string{"audio/mpeg", "audio/mp3", "audio/mp4", "audio/aac"} {
		for _, enc := range enclosures {
			if enc.MIMEType == preferred {
				return enc.URL
			}
		}
	}
	return enclosures[0].URL
}

func itemDuration(item *etree.Element, ns namespaces) int {
	if raw := childText(item, ns.itunes, "duration"); raw != "" {
		if secs, ok := ParseDuration(raw); ok {
			return secs
		}
	}
	for _, mc := range item.SelectElements(ns.media + ":content") {
		if raw := mc.SelectAttrValue("duration", ""); raw != "" {
			if secs, ok := ParseDuration(raw); ok {
				return secs
			}
		}
	}
	return 0
}

func itemExplicit(item *etree.Element, ns namespaces) bool {
	if isExplicitValue(childText(item, ns.itunes, "explicit")) {
		return true
	}
	for _, rating := range item.SelectElements(ns.media + ":rating") {
		if strings.Contains(rating.SelectAttrValue("scheme", ""), "itunes") &&
			isExplicitValue(rating.Text()) {
			return true
		}
	}
	return false
}

func isExplicitValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "explicit":
		return true
	}
	return false
}

// selectItemImage runs the thumbnail cascade: iTunes image, image
// enclosure, media:thumbnail, first valid content image, first valid
// summary image. Candidates resolve against the item URL and tracking
// pixels are rejected.
func selectItemImage(item *etree.Element, enclosures []readerview.Enclosure, contentHTML, summaryHTML, itemURL string, ns namespaces) string {
	if href := childAttr(item, ns.itunes, "image", "href"); href != "" {
		if resolved := validImage(href, itemURL); resolved != "" {
			return resolved
		}
	}
	for _, enc := range enclosures {
		if strings.HasPrefix(enc.MIMEType, "image/") {
			if resolved := validImage(enc.URL, itemURL); resolved != "" {
				return resolved
			}
		}
	}
	for _, thumb := range item.SelectElements(ns.media + ":thumbnail") {
		if url := thumb.SelectAttrValue("url", ""); url != "" {
			if resolved := validImage(url, itemURL); resolved != "" {
				return resolved
			}
		}
	}
	if img := rvq.FirstImageInHTML(contentHTML, itemURL); img != "" {
		return img
	}
	return rvq.FirstImageInHTML(summaryHTML, itemURL)
}

func validImage(src, base string) string {
	resolved := readerview.ResolveImageURL(src, base)
	if resolved == "" || !readerview.IsValidImageURL(resolved) {
		return ""
	}
	return resolved
}

// childText returns the trimmed text of the first child matching
// space:tag. An empty space matches unprefixed children only.
func childText(e *etree.Element, space, tag string) string {
	for _, child := range e.ChildElements() {
		if child.Space == space && child.Tag == tag {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

func childAttr(e *etree.Element, space, tag, attr string) string {
	for _, child := range e.ChildElements() {
		if child.Space == space && child.Tag == tag {
			if v := child.SelectAttrValue(attr, ""); v != "" {
				return v
			}
		}
	}
	return ""
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
