package goquery

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/readerview/readerview"
	"github.com/readerview/readerview/dateparse"
)

// pageMeta holds everything the metadata pass reads from a document. All
// fields degrade to their zero value; metadata extraction never fails.
type pageMeta struct {
	Title         string
	Author        string
	Description   string
	Dek           string
	SiteName      string
	SiteTitle     string
	SiteImage     string
	Language      string
	ThemeColor    string
	Favicon       string
	LeadImageURL  string
	PublishedMS   int64
	VideoURL      string
	VideoMetadata map[string]string
	ArticleBody   string
}

// Byline elements outrank author meta tags; meta is the fallback.
var authorSelectors = []string{
	"a[rel='author']",
	".byline",
	".author",
	"[itemprop='author']",
	"meta[name='author']",
	"meta[property='article:author']",
}

var dateMetaSelectors = []string{
	"meta[property='article:published_time']",
	"meta[name='date']",
}

var faviconSelectors = []string{
	"link[rel='icon']",
	"link[rel='shortcut icon']",
	"link[rel='apple-touch-icon']",
}

var videoSelectors = []string{
	"meta[property='og:video']",
	"meta[property='og:video:url']",
	"meta[name='twitter:player']",
}

var videoMetaProps = []string{
	"og:video:type", "og:video:width", "og:video:height", "og:video:secure_url",
}

// extractMetadata reads page metadata without touching the content pipeline.
// Sources are consulted in priority order with first-non-empty semantics.
func extractMetadata(doc *goquery.Document, pageURL string) pageMeta {
	ld := extractJSONLD(doc)

	m := pageMeta{
		Title:        firstNonEmpty(ld.Headline, extractTitle(doc)),
		Author:       firstNonEmpty(ld.Author, firstText(doc, authorSelectors)),
		Description:  metaContent(doc, "meta[property='og:description']", "meta[name='description']"),
		SiteName:     metaContent(doc, "meta[property='og:site_name']", "meta[name='application-name']"),
		SiteTitle:    siteTitle(doc),
		SiteImage:    metaContent(doc, "meta[property='og:image']", "meta[name='twitter:image']"),
		Language:     extractLanguage(doc),
		ThemeColor:   metaContent(doc, "meta[name='theme-color']"),
		LeadImageURL: extractLeadImage(doc, ld, pageURL),
		ArticleBody:  ld.ArticleBody,
	}
	m.Dek = m.Description

	if ld.DatePublished != "" {
		if t, ok := dateparse.Parse(ld.DatePublished); ok {
			m.PublishedMS = t.UnixMilli()
		}
	}
	if m.PublishedMS == 0 {
		m.PublishedMS = extractPublished(doc)
	}

	m.Favicon = extractFavicon(doc, pageURL)
	m.VideoURL, m.VideoMetadata = extractVideo(doc)
	return m
}

// extractTitle prefers og:title over the title element: the document title
// usually carries site chrome, og:title carries the headline.
func extractTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "meta[property='og:title']", "meta[name='title']"); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	for _, sel := range []string{"h1", "h2"} {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func siteTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "meta[name='title']"); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractLanguage(doc *goquery.Document) string {
	if lang := doc.Find("html").AttrOr("lang", ""); lang != "" {
		return normalizeLang(lang)
	}
	if lang := metaContent(doc, "meta[http-equiv='content-language']"); lang != "" {
		return normalizeLang(lang)
	}
	if lang := metaContent(doc, "meta[property='og:locale']", "meta[name='language']"); lang != "" {
		return normalizeLang(lang)
	}
	return ""
}

// normalizeLang keeps only the primary subtag: "en-US" and "en_US" both
// become "en".
func normalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	for i, r := range lang {
		if r == '-' || r == '_' {
			return strings.ToLower(lang[:i])
		}
	}
	return strings.ToLower(lang)
}

func extractPublished(doc *goquery.Document) int64 {
	for _, sel := range dateMetaSelectors {
		if v := metaContent(doc, sel); v != "" {
			if t, ok := dateparse.Parse(v); ok {
				return t.UnixMilli()
			}
		}
	}
	if v := doc.Find("time[datetime]").First().AttrOr("datetime", ""); v != "" {
		if t, ok := dateparse.Parse(v); ok {
			return t.UnixMilli()
		}
	}
	if v := strings.TrimSpace(doc.Find("time").First().Text()); v != "" {
		if t, ok := dateparse.Parse(v); ok {
			return t.UnixMilli()
		}
	}
	return 0
}

func extractLeadImage(doc *goquery.Document, ld ldArticle, pageURL string) string {
	candidates := []string{
		ld.Image,
		metaContent(doc, "meta[property='og:image']"),
		metaContent(doc, "meta[name='twitter:image']"),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if u := resolveAgainst(c, pageURL); u != "" {
			return u
		}
	}
	return FirstImage(doc.Selection, pageURL)
}

func extractFavicon(doc *goquery.Document, pageURL string) string {
	for _, sel := range faviconSelectors {
		if href := doc.Find(sel).First().AttrOr("href", ""); href != "" {
			if u := resolveAgainst(href, pageURL); u != "" {
				return u
			}
		}
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		return u.Scheme + "://" + u.Host + "/favicon.ico"
	}
	return ""
}

func extractVideo(doc *goquery.Document) (string, map[string]string) {
	videoURL := ""
	for _, sel := range videoSelectors {
		if v := doc.Find(sel).First().AttrOr("content", ""); v != "" {
			videoURL = v
			break
		}
	}
	if videoURL == "" {
		videoURL = doc.Find("video[src]").First().AttrOr("src", "")
	}
	if videoURL == "" {
		videoURL = doc.Find("video source[src]").First().AttrOr("src", "")
	}
	if videoURL == "" {
		return "", nil
	}

	var meta map[string]string
	for _, prop := range videoMetaProps {
		if v := doc.Find("meta[property='" + prop + "']").First().AttrOr("content", ""); v != "" {
			if meta == nil {
				meta = make(map[string]string)
			}
			meta[prop] = v
		}
	}
	return videoURL, meta
}

// Direction returns "rtl" when the document declares it or when at least 30%
// of the letters in text are from RTL scripts, "ltr" otherwise.
func Direction(doc *goquery.Document, text string) string {
	for _, sel := range []string{"html", "body"} {
		dir := strings.ToLower(doc.Find(sel).AttrOr("dir", ""))
		if dir == "rtl" || dir == "ltr" {
			return dir
		}
	}

	letters, rtl := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if isRTLRune(r) {
			rtl++
		}
	}
	if letters > 0 && float64(rtl)/float64(letters) >= 0.30 {
		return "rtl"
	}
	return "ltr"
}

// Hebrew and Arabic blocks, including presentation forms.
func isRTLRune(r rune) bool {
	switch {
	case r >= 0x0590 && r <= 0x05FF,
		r >= 0xFB1D && r <= 0xFB4F,
		r >= 0x0600 && r <= 0x06FF,
		r >= 0x0750 && r <= 0x077F,
		r >= 0x08A0 && r <= 0x08FF,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// ldArticle is the subset of schema.org Article data the extractor uses.
type ldArticle struct {
	Headline      string
	Author        string
	DatePublished string
	Image         string
	ArticleBody   string
}

var ldArticleTypes = map[string]bool{
	"article": true, "newsarticle": true, "blogposting": true,
}

// extractJSONLD scans ld+json script blocks for the first schema.org
// article object. Malformed JSON is skipped silently.
func extractJSONLD(doc *goquery.Document) ldArticle {
	var found ldArticle
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		if art, ok := findLDArticle(v); ok {
			found = art
			return false
		}
		return true
	})
	return found
}

func findLDArticle(v any) (ldArticle, bool) {
	switch val := v.(type) {
	case map[string]any:
		if ldTypeMatches(val["@type"]) {
			return ldArticle{
				Headline:      ldString(val["headline"]),
				Author:        ldAuthorName(val["author"]),
				DatePublished: ldString(val["datePublished"]),
				Image:         ldImageURL(val["image"]),
				ArticleBody:   ldBody(val["articleBody"]),
			}, true
		}
		for _, key := range []string{"@graph", "mainEntity", "mainEntityOfPage", "itemListElement"} {
			if inner, ok := val[key]; ok {
				if art, found := findLDArticle(inner); found {
					return art, true
				}
			}
		}
	case []any:
		for _, item := range val {
			if art, ok := findLDArticle(item); ok {
				return art, true
			}
		}
	}
	return ldArticle{}, false
}

func ldTypeMatches(v any) bool {
	switch t := v.(type) {
	case string:
		return ldArticleTypes[strings.ToLower(t)]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && ldArticleTypes[strings.ToLower(s)] {
				return true
			}
		}
	}
	return false
}

func ldString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func ldBody(v any) string {
	switch b := v.(type) {
	case string:
		return strings.TrimSpace(b)
	case []any:
		var parts []string
		for _, item := range b {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func ldAuthorName(v any) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case map[string]any:
		return ldString(a["name"])
	case []any:
		for _, item := range a {
			if name := ldAuthorName(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func ldImageURL(v any) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case map[string]any:
		return ldString(img["url"])
	case []any:
		for _, item := range img {
			if u := ldImageURL(item); u != "" {
				return u
			}
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		found := doc.Find(sel).First()
		if found.Length() == 0 {
			continue
		}
		if v := strings.TrimSpace(found.AttrOr("content", "")); v != "" {
			return v
		}
		if v := strings.TrimSpace(found.Text()); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveAgainst(ref, base string) string {
	return readerview.ResolveImageURL(ref, base)
}
