package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	paragraphScoreTagsRe = regexp.MustCompile(`(?i)^(p|li|span|pre)$`)
	childContentTagsRe   = regexp.MustCompile(`(?i)^(td|blockquote|ol|ul|dl)$`)
	badTagsRe            = regexp.MustCompile(`(?i)^(address|form)$`)

	nonCandidateTagsRe = regexp.MustCompile(`(?i)^(br|b|i|label|hr|area|base|basefont|input|img|link|meta)$`)

	positiveScoreRe = regexp.MustCompile(`(?i)article|articlecontent|instapaper_body|blog|body|content|entry-content-asset|entry|hentry|main|Normal|page|pagination|permalink|post|story|text|[-_]copy`)
	negativeScoreRe = regexp.MustCompile(`(?i)adbox|advert|author|bio|bookmark|bottom|byline|clear|com-|combx|comment|contact|credit|crumb|date|deck|excerpt|featured|foot|footer|footnote|graf|head|info|infotext|instapaper_ignore|jump|linebreak|link|masthead|media|meta|modal|outbrain|promo|pr_|related|respond|roundcontent|scroll|secondary|share|shopping|shoutbox|side|sidebar|sponsor|stamp|sub|summary|tags|tools|widget`)

	photoHintsRe       = regexp.MustCompile(`(?i)figure|photo|image|caption`)
	readabilityAssetRe = regexp.MustCompile(`(?i)entry-content-asset`)
)

// hNews microformat pairs that mark known article containers.
var hNewsSelectors = [][2]string{
	{".hentry", ".entry-content"},
	{"entry", ".entry-content"},
	{".entry", ".entry_content"},
	{".post", ".postbody"},
	{".post", ".post_body"},
	{".post", ".post-body"},
}

const (
	commaCap   = 10
	lengthCap  = 3
	hNewsBoost = 80
)

// Scores maps scored nodes to their accumulated content score. Built fresh
// for each extraction and discarded after candidate selection.
type Scores map[*html.Node]int

func (s Scores) get(sel *goquery.Selection) (int, bool) {
	if len(sel.Nodes) == 0 {
		return 0, false
	}
	v, ok := s[sel.Nodes[0]]
	return v, ok
}

// add accumulates amount onto sel's score, initializing first-touched nodes
// with their own tag baseline and class/id weight so containers of good
// paragraphs carry their own signal too.
func (s Scores) add(sel *goquery.Selection, amount int) {
	if len(sel.Nodes) == 0 {
		return
	}
	node := sel.Nodes[0]
	if _, ok := s[node]; !ok {
		s[node] = scoreNode(sel) + Weight(sel)
	}
	s[node] += amount
}

// ScoreContent assigns content scores to block-level nodes. Known hNews
// article containers get a flat boost, then paragraphs and preformatted
// blocks are scored in two passes with upward propagation: parent gets half
// of each paragraph's score, grandparent a quarter.
func ScoreContent(doc *goquery.Document) Scores {
	scores := Scores{}

	for _, pair := range hNewsSelectors {
		doc.Find(pair[0] + " " + pair[1]).Each(func(_ int, s *goquery.Selection) {
			for p := s.Parent(); p.Length() > 0; p = p.Parent() {
				if p.Is(pair[0]) {
					scores.add(p, hNewsBoost)
					break
				}
			}
		})
	}

	for pass := 0; pass < 2; pass++ {
		doc.Find("p, pre").Each(func(_ int, s *goquery.Selection) {
			if len(s.Nodes) == 0 || insideHead(s.Nodes[0]) {
				return
			}
			if _, ok := scores.get(s); ok {
				return
			}
			own := scoreNode(s) + Weight(s)
			scores[s.Nodes[0]] = own

			parent := s.Parent()
			if parent.Length() == 0 {
				return
			}
			scores.add(parent, own/2)
			if gp := parent.Parent(); gp.Length() > 0 {
				scores.add(gp, own/4)
			}
		})
	}

	return scores
}

func scoreNode(s *goquery.Selection) int {
	tag := goquery.NodeName(s)
	switch {
	case paragraphScoreTagsRe.MatchString(tag):
		return scoreParagraph(s)
	case tag == "div":
		return 5
	case childContentTagsRe.MatchString(tag):
		return 3
	case badTagsRe.MatchString(tag):
		return -3
	case tag == "th":
		return -5
	}
	return 0
}

// scoreParagraph rewards commas and length, capped so one enormous node
// cannot dominate, and penalizes link-heavy blocks.
func scoreParagraph(s *goquery.Selection) int {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return 0
	}
	score := 1
	score += min(strings.Count(text, ","), commaCap)
	score += min(len(text)/100, lengthCap)
	if d := LinkDensity(s); d > 0.5 {
		score -= int(float64(score) * d)
	}
	return score
}

// Weight scores a node's class and id attributes against the positive and
// negative keyword patterns. An id match takes precedence over class.
func Weight(s *goquery.Selection) int {
	class := s.AttrOr("class", "")
	id := s.AttrOr("id", "")
	score := 0

	if id != "" {
		if positiveScoreRe.MatchString(id) {
			score += 25
		}
		if negativeScoreRe.MatchString(id) {
			score -= 25
		}
	}

	if class != "" {
		if score == 0 {
			if positiveScoreRe.MatchString(class) {
				score += 25
			}
			if negativeScoreRe.MatchString(class) {
				score -= 25
			}
		}
		if photoHintsRe.MatchString(class) {
			score += 10
		}
		if readabilityAssetRe.MatchString(class) {
			score += 25
		}
	}

	return score
}

// LinkDensity returns the ratio of anchor text length to total text length
// within the node. High density suggests navigation, not content.
func LinkDensity(s *goquery.Selection) float64 {
	total := len(s.Text())
	if total == 0 {
		return 0
	}
	link := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		link += len(a.Text())
	})
	return float64(link) / float64(total)
}

func scoreFromAttrs(s *goquery.Selection) int {
	for _, name := range []string{"data-content-score", "score"} {
		if v, ok := s.Attr(name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

func insideHead(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "head" {
			return true
		}
	}
	return false
}

// NormalizeSpaces collapses all whitespace runs to single spaces.
func NormalizeSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func hasSentenceEnd(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return false
}
