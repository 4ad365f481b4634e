// Package readerview extracts a clean, canonical article view from arbitrary
// web markup: title, author, publish date, language, lead image, excerpt, and
// a sanitized content body, plus RSS/Atom/podcast feed parsing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, bluemonday/, etree/).
package readerview

// Version distinguishes incompatible result layouts for consumers built
// against older definitions.
const Version = 1
