package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/readerview/readerview"
	"github.com/readerview/readerview/bluemonday"
	"github.com/readerview/readerview/etree"
	"github.com/readerview/readerview/goquery"
	"github.com/readerview/readerview/htmltomarkdown"
	rvhttp "github.com/readerview/readerview/http"
	"github.com/readerview/readerview/reader"
	rvslog "github.com/readerview/readerview/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// Exit codes map 1:1 to the error taxonomy.
func exitCode(err error) int {
	switch readerview.ErrorCode(err) {
	case readerview.EINVALID:
		return 2
	case readerview.EPARSE:
		return 3
	case readerview.EFETCH:
		return 4
	case readerview.ETIMEOUT:
		return 5
	case readerview.EUNSUPPORTED:
		return 6
	default:
		return 7
	}
}

// Main represents the program.
type Main struct {
	// Reader overrides the wired pipeline. Used by end-to-end tests.
	Reader *reader.Reader
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readerview"),
		kong.Description("Extract clean article views from web pages and parse feeds."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return readerview.Errorf(readerview.EINVALID, "no command specified. Run 'readerview --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return readerview.Errorf(readerview.EINVALID, "%v", err)
	}

	opts := readerview.DefaultOptions()
	opts.Format = readerview.Format(cli.Format)
	opts.Timeout = cli.Timeout
	opts.UserAgent = cli.UserAgent
	opts.FollowNext = cli.Follow
	opts.PageLimit = cli.MaxPages
	opts.ExplicitFromSource = cli.ExplicitFromSource
	if err := opts.Validate(); err != nil {
		return err
	}

	deps.Options = opts
	deps.Compact = cli.Compact
	deps.Reader = m.Reader
	if deps.Reader == nil {
		deps.Reader = buildReader(opts, cli.Verbose, stderr)
	}

	return kongCtx.Run(deps)
}

// buildReader wires the production pipeline from CLI options.
func buildReader(opts readerview.Options, verbose bool, stderr io.Writer) *reader.Reader {
	var fetcher readerview.Fetcher = rvhttp.NewFetcher(
		rvhttp.WithTimeout(opts.Timeout),
		rvhttp.WithUserAgent(opts.UserAgent),
	)
	if verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		fetcher = rvslog.NewLoggingFetcher(fetcher, logger)
	}

	extractor := goquery.NewExtractor(
		bluemonday.NewSanitizer(),
		htmltomarkdown.NewConverter(),
	)

	return reader.New(fetcher, extractor,
		reader.WithOptions(opts),
		reader.WithFeedParser(etree.NewParser(etree.WithExplicitFromSource(opts.ExplicitFromSource))),
		reader.WithPageLimiter(reader.NewDomainLimiter(1.0)),
	)
}
