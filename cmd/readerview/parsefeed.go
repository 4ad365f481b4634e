package main

import (
	"fmt"
	"strings"

	"github.com/readerview/readerview"
)

// ParseFeedCmd is the "parse-feed" subcommand.
type ParseFeedCmd struct {
	Source string `arg:"" help:"Feed file, URL, or - for stdin"`
}

// Run executes the parse-feed command.
func (c *ParseFeedCmd) Run(deps *Dependencies) error {
	var (
		feed *readerview.Feed
		err  error
	)
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		feed, err = deps.Reader.FetchFeed(deps.Ctx, c.Source)
	} else {
		var data []byte
		data, err = readInput(c.Source)
		if err == nil {
			feed, err = deps.Reader.ParseFeed(data, c.Source)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerview.ErrorMessage(err))
		return err
	}
	return writeJSON(deps, feed)
}
