package main

import (
	"fmt"
	"io"
	"os"

	"github.com/readerview/readerview"
)

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File string `arg:"" help:"HTML file to parse, or - for stdin"`
	URL  string `help:"Canonical URL of the page, used to resolve relative links"`
}

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	html, err := readInput(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerview.ErrorMessage(err))
		return err
	}

	result, err := deps.Reader.ExtractFromHTML(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readerview.ErrorMessage(err))
		return err
	}
	return writeJSON(deps, result)
}

// readInput reads a local file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, readerview.Errorf(readerview.EINVALID, "reading stdin: %v", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readerview.Errorf(readerview.EINVALID, "reading %s: %v", path, err)
	}
	return data, nil
}
