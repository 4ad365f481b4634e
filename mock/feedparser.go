package mock

import "github.com/readerview/readerview"

var _ readerview.FeedParser = (*FeedParser)(nil)

// FeedParser is a mock implementation of readerview.FeedParser.
type FeedParser struct {
	ParseFeedFn func(data []byte, feedURL string) (*readerview.Feed, error)
}

func (p *FeedParser) ParseFeed(data []byte, feedURL string) (*readerview.Feed, error) {
	return p.ParseFeedFn(data, feedURL)
}
