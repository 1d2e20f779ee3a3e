// Package highlight renders shell command lines as annotated segment trees.
//
// A Highlighter holds what is shared across documents: the resolver with its rich grammar and
// the recognized binaries. Each document is highlighted in its own Session, which owns the
// placeholder store for that document and collects diagnostics. Sessions are not safe for
// concurrent use; Highlighters are.
package highlight

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aledsdavies/clh/pkgs/grammar"
	"github.com/aledsdavies/clh/pkgs/placeholder"
	"github.com/aledsdavies/clh/pkgs/resolve"
)

// DefaultHrefPrefix is prepended to a command's canonical path to link its reference page
const DefaultHrefPrefix = "/cli/"

// Option configures a Highlighter
type Option func(*config)

type config struct {
	logger     *slog.Logger
	grammar    resolve.Grammar
	binaries   map[string][]string
	hrefPrefix string
}

// WithLogger sets the logger for warnings and debug output
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithGrammar replaces the built-in yarn grammar
func WithGrammar(g resolve.Grammar) Option {
	return func(c *config) {
		c.grammar = g
	}
}

// WithBinaries sets the other recognized binaries and their subcommand paths
func WithBinaries(binaries map[string][]string) Option {
	return func(c *config) {
		c.binaries = binaries
	}
}

// WithHrefPrefix sets the prefix of command reference links
func WithHrefPrefix(prefix string) Option {
	return func(c *config) {
		c.hrefPrefix = prefix
	}
}

// Highlighter turns command lines into segment trees
type Highlighter struct {
	resolver   *resolve.Resolver
	logger     *slog.Logger
	hrefPrefix string
	inline     *regexp.Regexp
}

// New creates a Highlighter. Without WithGrammar the built-in yarn grammar is used.
func New(opts ...Option) (*Highlighter, error) {
	cfg := &config{hrefPrefix: DefaultHrefPrefix}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.grammar == nil {
		g, err := grammar.Default()
		if err != nil {
			return nil, err
		}
		cfg.grammar = g
	}

	resolver := resolve.New(cfg.grammar, cfg.binaries, cfg.logger)

	names := resolver.Binaries()
	for i, name := range names {
		names[i] = regexp.QuoteMeta(name)
	}

	return &Highlighter{
		resolver:   resolver,
		logger:     cfg.logger,
		hrefPrefix: cfg.hrefPrefix,
		inline:     regexp.MustCompile(`^([A-Z_]+=\w*\s+)?(` + strings.Join(names, "|") + `)( |$)`),
	}, nil
}

// Binaries returns the recognized binary names, the rich one first
func (h *Highlighter) Binaries() []string {
	return h.resolver.Binaries()
}

// IsCommandLine reports whether an inline code snippet looks like a command line worth
// highlighting: it starts with a recognized binary, optionally after one environment
// assignment, and contains no '!'.
func (h *Highlighter) IsCommandLine(snippet string) bool {
	return h.inline.MatchString(snippet) && !strings.Contains(snippet, "!")
}

// Session starts highlighting a new document
func (h *Highlighter) Session() *Session {
	return &Session{h: h, store: placeholder.New()}
}
