package readerview

import (
	"net/url"
	"strings"
)

// invalidImagePatterns flag tracking pixels and placeholder images. Matching
// is case-insensitive against the full URL.
var invalidImagePatterns = []string{
	"pixel",
	"tracking",
	"analytics",
	"beacon",
	"spacer",
	"clear.gif",
	"blank.gif",
	"1x1",
	"data:image/gif;base64,r0lgodlhaqabai",
}

// IsValidImageURL reports whether u looks like a real content image rather
// than a tracking pixel or placeholder.
func IsValidImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, p := range invalidImagePatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return !containsTinyDimensions(lower)
}

func containsTinyDimensions(u string) bool {
	if strings.Contains(u, "width=1") || strings.Contains(u, "height=1") {
		return true
	}
	if strings.Contains(u, "w=1&") || strings.Contains(u, "&w=1") || strings.HasSuffix(u, "w=1") {
		return true
	}
	if strings.Contains(u, "h=1&") || strings.Contains(u, "&h=1") || strings.HasSuffix(u, "h=1") {
		return true
	}
	return false
}

// ResolveImageURL resolves a possibly relative image src against base.
// Absolute http(s) URLs and data URIs pass through unchanged. Returns ""
// when src is empty or cannot be resolved.
func ResolveImageURL(src, base string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if strings.HasPrefix(src, "data:") {
		return src
	}
	if base == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
