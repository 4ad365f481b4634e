package main

import (
	"fmt"

	"github.com/readerview/readerview"
)

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Page URL to fetch and extract"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	result, err := deps.Reader.Extract(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerview.ErrorMessage(err))
		return err
	}
	return writeJSON(deps, result)
}
