package readerview

// Sanitizer strips disallowed tags and attributes from extracted HTML.
// Implementations must be idempotent: sanitizing already-sanitized input
// returns it unchanged.
type Sanitizer interface {
	Sanitize(html string) string
}
