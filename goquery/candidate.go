package goquery

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindTopCandidate selects the node with the highest adjusted score.
// Inline and void tags are never candidates, nor is the body element while
// other options exist; link-heavy nodes are discounted by their density.
// Falls back to the document body when nothing scored.
func FindTopCandidate(doc *goquery.Document, scores Scores) (*goquery.Selection, int) {
	var best *goquery.Selection
	top := 0

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		score, ok := scores.get(s)
		if !ok {
			score = scoreFromAttrs(s)
		}
		if score == 0 {
			return
		}

		tag := goquery.NodeName(s)
		if nonCandidateTagsRe.MatchString(tag) || tag == "body" {
			return
		}

		if d := LinkDensity(s); d > 0.5 {
			score = int(math.Round(float64(score) * (1 - d)))
		}

		if score > top {
			top = score
			best = s
		}
	})

	if best == nil {
		if body := doc.Find("body"); body.Length() > 0 {
			return body.First(), 0
		}
		return nil, 0
	}
	return best, top
}

// MergeSiblings attaches qualifying siblings of the top candidate and
// returns the merged HTML. A sibling joins when its bonused score clears
// max(10, 0.2*topScore), when it is a list or table carrying real text, or
// when it is a paragraph that reads like article continuation. The wrapper
// preserves original document order.
func MergeSiblings(candidate *goquery.Selection, topScore int, scores Scores) string {
	parent := candidate.Parent()
	if parent.Length() == 0 {
		return outerHTML(candidate)
	}

	threshold := max(10, topScore/5)
	candidateClass := candidate.AttrOr("class", "")
	candidateNode := candidate.Nodes[0]

	var included []*goquery.Selection
	parent.Children().Each(func(_ int, child *goquery.Selection) {
		tag := goquery.NodeName(child)
		if nonCandidateTagsRe.MatchString(tag) {
			return
		}

		if len(child.Nodes) > 0 && child.Nodes[0] == candidateNode {
			included = append(included, child)
			return
		}

		score, ok := scores.get(child)
		if !ok {
			score = scoreFromAttrs(child)
		}

		density := LinkDensity(child)
		if density >= 0.5 {
			return
		}

		if score > 0 {
			bonus := 0
			if density < 0.05 {
				bonus += 20
			}
			if class := child.AttrOr("class", ""); class != "" && class == candidateClass {
				bonus += topScore / 5
			}
			if score+bonus >= threshold {
				included = append(included, child)
				return
			}
		}

		switch tag {
		case "ul", "ol", "table":
			if len(NormalizeSpaces(child.Text())) > 100 {
				included = append(included, child)
			}
		case "p":
			text := child.Text()
			length := len(NormalizeSpaces(text))
			if length > 80 && density < 0.25 {
				included = append(included, child)
			} else if length <= 80 && density == 0 && hasSentenceEnd(text) {
				included = append(included, child)
			}
		}
	})

	if len(included) <= 1 {
		return outerHTML(candidate)
	}

	var b strings.Builder
	b.WriteString("<div>")
	for _, sel := range included {
		b.WriteString(outerHTML(sel))
	}
	b.WriteString("</div>")
	return b.String()
}

func outerHTML(s *goquery.Selection) string {
	out, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	return out
}
