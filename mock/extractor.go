package mock

import "github.com/readerview/readerview"

var _ readerview.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of readerview.Extractor.
type Extractor struct {
	ExtractFn         func(html []byte, pageURL string, opts readerview.Options) (*readerview.Result, error)
	ExtractMetadataFn func(html []byte, pageURL string) (*readerview.Metadata, error)
}

func (e *Extractor) Extract(html []byte, pageURL string, opts readerview.Options) (*readerview.Result, error) {
	return e.ExtractFn(html, pageURL, opts)
}

func (e *Extractor) ExtractMetadata(html []byte, pageURL string) (*readerview.Metadata, error) {
	return e.ExtractMetadataFn(html, pageURL)
}
