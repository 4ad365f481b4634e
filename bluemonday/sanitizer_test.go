package bluemonday_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/readerview/readerview/bluemonday"
)

func TestSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	s := bluemonday.NewSanitizer()

	t.Run("removes script with its content", func(t *testing.T) {
		t.Parallel()
		got := s.Sanitize(`<p>before</p><script>alert("x")</script><p>after</p>`)
		assert.Equal(t, `<p>before</p><p>after</p>`, got)
	})

	t.Run("keeps text of unknown tags", func(t *testing.T) {
		t.Parallel()
		got := s.Sanitize(`<article><p>kept <marquee>inner</marquee> text</p></article>`)
		assert.Equal(t, `<p>kept inner text</p>`, got)
	})

	t.Run("strips disallowed attributes", func(t *testing.T) {
		t.Parallel()
		got := s.Sanitize(`<p onclick="do()" class="lede" style="color:red">hi</p>`)
		assert.Equal(t, `<p class="lede">hi</p>`, got)
	})

	t.Run("keeps image attributes", func(t *testing.T) {
		t.Parallel()
		in := `<img src="https://example.com/a.jpg" alt="a" width="600" height="400"/>`
		assert.Equal(t, in, s.Sanitize(in))
	})

	t.Run("drops javascript links but keeps text", func(t *testing.T) {
		t.Parallel()
		got := s.Sanitize(`<a href="javascript:evil()">click</a>`)
		assert.Equal(t, `click`, got)
	})

	t.Run("allows http https and mailto", func(t *testing.T) {
		t.Parallel()
		in := `<a href="https://example.com/x">x</a><a href="mailto:me@example.com">m</a>`
		assert.Equal(t, in, s.Sanitize(in))
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		in := `<div class="story"><h2 id="s1">Head</h2><p>Body <em>text</em> with <a href="http://example.com">a link</a>.</p><ul><li>one</li></ul></div>`
		once := s.Sanitize(in)
		assert.Equal(t, once, s.Sanitize(once))
	})
}
