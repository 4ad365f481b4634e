package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rvq "github.com/readerview/readerview/goquery"
)

func TestBrsToPs(t *testing.T) {
	t.Parallel()

	t.Run("double br splits into paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div>first chunk<br><br>second chunk</div></body></html>`)
		rvq.BrsToPs(doc)

		assert.Equal(t, 0, doc.Find("br").Length())
		ps := doc.Find("div p")
		require.GreaterOrEqual(t, ps.Length(), 2)
		texts := ps.Map(func(_ int, s *gq.Selection) string { return strings.TrimSpace(s.Text()) })
		assert.Contains(t, texts, "first chunk")
		assert.Contains(t, texts, "second chunk")
	})

	t.Run("double br inside a paragraph splits it", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><p>Hello <br><br> world.</p></body></html>`)
		rvq.BrsToPs(doc)

		assert.Equal(t, 0, doc.Find("br").Length())
		ps := doc.Find("body > p")
		require.Equal(t, 2, ps.Length())
		assert.Equal(t, "Hello", strings.TrimSpace(ps.Eq(0).Text()))
		assert.Equal(t, "world.", strings.TrimSpace(ps.Eq(1).Text()))
	})

	t.Run("single br survives", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><p>line one<br>line two</p></body></html>`)
		rvq.BrsToPs(doc)

		assert.Equal(t, 1, doc.Find("br").Length())
		assert.Equal(t, 1, doc.Find("p").Length())
	})

	t.Run("whitespace between brs still counts as a run", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<html><body><div>before<br>\n  <br>after</div></body></html>")
		rvq.BrsToPs(doc)

		assert.Equal(t, 0, doc.Find("br").Length())
	})

	t.Run("triple br collapses to one boundary", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div>a<br><br><br>b</div></body></html>`)
		rvq.BrsToPs(doc)

		assert.Equal(t, 0, doc.Find("br").Length())
		texts := doc.Find("div p").Map(func(_ int, s *gq.Selection) string { return strings.TrimSpace(s.Text()) })
		assert.Contains(t, texts, "a")
		assert.Contains(t, texts, "b")
	})

	t.Run("inline markup stays with its text", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div>plain <em>styled</em> run<br><br>tail</div></body></html>`)
		rvq.BrsToPs(doc)

		first := doc.Find("div p").FilterFunction(func(_ int, s *gq.Selection) bool {
			return s.Find("em").Length() == 1
		})
		require.Equal(t, 1, first.Length())
		assert.Equal(t, "plain styled run", strings.TrimSpace(first.Text()))
	})

	t.Run("existing paragraphs untouched", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body><div><p>kept</p></div></body></html>`)
		rvq.BrsToPs(doc)

		ps := doc.Find("div p")
		require.Equal(t, 1, ps.Length())
		assert.Equal(t, "kept", ps.Text())
	})
}
