// Package resolve decides what a command invocation is: a match against the rich grammar, a
// call to another binary whose arguments are classified by simple rules, or an unknown command
// rendered verbatim. The decision is made once per invocation.
package resolve

import (
	"io"
	"log/slog"
	"regexp"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/grammar"
)

// Grammar is the rich command grammar a resolver matches against
type Grammar interface {
	Binary() string
	Process(argv []string, partial bool) (*grammar.Match, error)
	Definition(cmd *cobra.Command) grammar.Definition
}

// DefaultBinaries lists the other recognized binaries with their known subcommand paths
var DefaultBinaries = map[string][]string{
	"node":     {},
	"corepack": {"enable"},
	"npm":      {"install", "run"},
	"git":      {"checkout", "reset", "rev-parse"},
}

// Resolved is one of *Rich, *Other or *Unknown
type Resolved interface {
	BinaryName() string
	resolved()
}

// Rich is an invocation matched against the rich grammar
type Rich struct {
	Binary     string
	Argv       []string // arguments after the binary
	Match      *grammar.Match
	Definition grammar.Definition
}

// Other is an invocation of a binary outside the rich grammar
type Other struct {
	Binary string
	Args   []Arg
}

// Unknown is a rich invocation that did not match; Remainder is shown verbatim
type Unknown struct {
	Binary    string
	Remainder []string
	Cause     error // why matching failed; nil when the command is unknown by definition
}

func (r *Rich) BinaryName() string    { return r.Binary }
func (o *Other) BinaryName() string   { return o.Binary }
func (u *Unknown) BinaryName() string { return u.Binary }

func (*Rich) resolved()    {}
func (*Other) resolved()   {}
func (*Unknown) resolved() {}

// ArgKind classifies an argument of an Other invocation
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgPath
	ArgOption
)

// Arg is one classified argument
type Arg struct {
	Kind ArgKind
	Text string
}

var optionPattern = regexp.MustCompile(`^--?\w`)

// Resolver classifies command invocations. It is safe for concurrent use.
type Resolver struct {
	grammar  Grammar
	binaries map[string][]string
	logger   *slog.Logger
}

// New creates a resolver. binaries maps other recognized binaries to their subcommand paths;
// nil selects DefaultBinaries.
func New(g Grammar, binaries map[string][]string, logger *slog.Logger) *Resolver {
	if binaries == nil {
		binaries = DefaultBinaries
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{grammar: g, binaries: binaries, logger: logger}
}

// Binaries returns every recognized binary name, the rich one first
func (r *Resolver) Binaries() []string {
	others := make([]string, 0, len(r.binaries))
	for name := range r.binaries {
		if name != r.grammar.Binary() {
			others = append(others, name)
		}
	}
	sort.Strings(others)
	return append([]string{r.grammar.Binary()}, others...)
}

// Known reports whether binary is the rich binary or one of the other recognized ones
func (r *Resolver) Known(binary string) bool {
	if binary == r.grammar.Binary() {
		return true
	}
	_, ok := r.binaries[binary]
	return ok
}

// Resolve classifies one invocation. args[0] is the binary; args must not be empty.
func (r *Resolver) Resolve(args []string) Resolved {
	binary, argv := args[0], args[1:]
	if binary == r.grammar.Binary() {
		return r.rich(binary, argv)
	}
	return r.other(binary, argv)
}

func (r *Resolver) rich(binary string, argv []string) Resolved {
	// "global" parses as a script name for the default command, which would mislead the reader
	if len(argv) == 1 && argv[0] == "global" {
		return &Unknown{Binary: binary, Remainder: []string{"global"}}
	}

	match, err := r.grammar.Process(argv, true)
	if err != nil {
		cause := clherrors.NewCommandResolutionError(binary, argv, err)
		r.logger.Debug("unresolved command", "error", cause)
		return &Unknown{Binary: binary, Remainder: slices.Clone(argv), Cause: cause}
	}

	return &Rich{
		Binary:     binary,
		Argv:       slices.Clone(argv),
		Match:      match,
		Definition: r.grammar.Definition(match.Command),
	}
}

func (r *Resolver) other(binary string, argv []string) *Other {
	paths := r.binaries[binary]
	other := &Other{Binary: binary, Args: make([]Arg, 0, len(argv))}
	for _, arg := range argv {
		other.Args = append(other.Args, Arg{Kind: classify(arg, paths), Text: arg})
	}
	return other
}

func classify(arg string, paths []string) ArgKind {
	switch {
	case slices.Contains(paths, arg):
		return ArgPath
	case optionPattern.MatchString(arg):
		return ArgOption
	default:
		return ArgPositional
	}
}
