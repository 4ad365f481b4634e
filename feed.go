package readerview

// Enclosure represents a media attachment (audio, video, or image) referenced
// by a feed item.
type Enclosure struct {
	URL      string `json:"url"`
	MIMEType string `json:"mimeType,omitempty"`
	Length   int64  `json:"length,omitempty"`
}

// Author represents a feed or item author.
type Author struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// FeedItem represents a single entry within a feed.
type FeedItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	GUID     string `json:"guid"`
	Summary  string `json:"summary,omitempty"`
	Content  string `json:"content,omitempty"`
	Language string `json:"language,omitempty"`
	FeedType string `json:"feedType"`

	PublishedMS int64 `json:"publishedMs"`
	UpdatedMS   int64 `json:"updatedMs"`

	Author     *Author     `json:"author,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Enclosures []Enclosure `json:"enclosures,omitempty"`

	ImageURL        string `json:"imageUrl,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	PrimaryMediaURL string `json:"primaryMediaUrl,omitempty"`

	ExplicitFlag    bool `json:"explicitFlag,omitempty"`
	DurationSeconds int  `json:"durationSeconds,omitempty"`
}

// Feed represents a parsed RSS/Atom/podcast feed.
type Feed struct {
	Title       string `json:"title"`
	HomeURL     string `json:"homeUrl,omitempty"`
	FeedURL     string `json:"feedUrl"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`

	Author      *Author `json:"author,omitempty"`
	Generator   string  `json:"generator,omitempty"`
	Copyright   string  `json:"copyright,omitempty"`
	FeedType    string  `json:"feedType"`
	PublishedMS int64   `json:"publishedMs"`
	UpdatedMS   int64   `json:"updatedMs"`

	Items []*FeedItem `json:"items"`
}

// Feed type constants reported by FeedParser implementations.
const (
	FeedTypeRSS     = "rss"
	FeedTypeAtom    = "atom"
	FeedTypePodcast = "podcast"
)

// FeedParser parses raw feed bytes into a Feed.
type FeedParser interface {
	// ParseFeed parses feed bytes. The feedURL is recorded on the result and
	// used to resolve relative item URLs.
	// Returns EPARSE if the bytes are not a recognizable feed, EUNSUPPORTED
	// if the format is recognized but not handled.
	ParseFeed(data []byte, feedURL string) (*Feed, error)
}
