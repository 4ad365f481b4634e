package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/readerview/readerview"
	"github.com/readerview/readerview/reader"
)

// Dependencies holds the wired pipeline and configuration for command
// execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Reader  *reader.Reader
	Options readerview.Options
	Compact bool
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Format             string        `help:"Output format for content" default:"html" enum:"html,markdown,text"`
	Timeout            time.Duration `help:"Fetch timeout" default:"10s"`
	UserAgent          string        `name:"user-agent" help:"User-Agent header sent with requests" default:"readerview/1.0"`
	Compact            bool          `help:"Emit compact JSON instead of indented"`
	Follow             bool          `help:"Follow next-page links and merge pages"`
	MaxPages           int           `name:"max-pages" default:"5" help:"Page limit when following next-page links"`
	ExplicitFromSource bool          `name:"explicit-from-source" help:"Copy source explicit markers onto feed items"`
	Verbose            bool          `short:"v" help:"Log fetches to stderr"`

	Extract   ExtractCmd   `cmd:"" help:"Fetch a URL and extract its article view"`
	Parse     ParseCmd     `cmd:"" help:"Extract the article view from a local HTML file or stdin"`
	ParseFeed ParseFeedCmd `cmd:"" name:"parse-feed" help:"Parse an RSS/Atom/podcast feed from a file, URL, or stdin"`
}

// writeJSON emits v to stdout, indented unless --compact was given.
func writeJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	if !deps.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return readerview.Errorf(readerview.EINTERNAL, "encoding result: %v", err)
	}
	return nil
}
