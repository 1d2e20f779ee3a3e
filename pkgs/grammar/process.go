package grammar

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

// TokenKind classifies what an argument (or a slice of one) means to the grammar
type TokenKind int

const (
	TokenPath       TokenKind = iota // a subcommand path segment
	TokenPositional                  // a positional slot value
	TokenOption                      // an option name
	TokenAssign                      // the '=' of --name=value
	TokenValue                       // an option value
	TokenRest                        // an argument past '--' or captured by a proxy slot
)

var tokenKindNames = [...]string{
	TokenPath:       "path",
	TokenPositional: "positional",
	TokenOption:     "option",
	TokenAssign:     "assign",
	TokenValue:      "value",
	TokenRest:       "rest",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Slice addresses a byte range of one argument
type Slice struct {
	Start, End int
}

// Token is one matched piece of the argument vector
type Token struct {
	Kind  TokenKind
	Index int    // index into the argument vector
	Slice *Slice // nil when the token covers the whole argument

	// Option tokens only
	Option string // the option as written: "--dev", "-D", "--no-minify"
	Name   string // the option's preferred name: "--dev"
}

// Sliced reports whether the token covers only part of its argument
func (t Token) Sliced() bool {
	return t.Slice != nil
}

// Text returns the part of argv the token covers
func (t Token) Text(argv []string) string {
	arg := argv[t.Index]
	if t.Slice == nil {
		return arg
	}
	return arg[t.Slice.Start:t.Slice.End]
}

// Match is the result of matching an argument vector against the grammar
type Match struct {
	Command *cobra.Command
	Path    []string // canonical path of the matched command
	Tokens  []Token
}

// Process matches an argument vector (without the binary) against the grammar.
//
// Leading arguments that name subcommands become path tokens. When none names a top-level
// command, the grammar's default command applies without path tokens. The remaining arguments
// are matched against the command's options and positional slots. In partial mode missing
// required positionals and missing option values are tolerated, so prefixes of full command
// lines still match.
func (g *Grammar) Process(argv []string, partial bool) (*Match, error) {
	m := &Match{}

	cmd := g.root
	i := 0
	for ; i < len(argv); i++ {
		child := g.child(cmd, argv[i])
		if child == nil {
			break
		}
		cmd = child
		m.Tokens = append(m.Tokens, Token{Kind: TokenPath, Index: i})
	}

	if cmd == g.root {
		switch {
		case len(argv) == 0 && g.bare != nil:
			cmd = g.bare
		case g.fallback != nil:
			cmd = g.fallback
		default:
			return nil, resolutionError(argv, 0, "no command matches")
		}
	}
	if !cmd.Runnable() {
		return nil, resolutionError(argv, i, fmt.Sprintf("%q is a namespace, not a command", strings.Join(g.specs[cmd].Path, " ")))
	}

	spec := g.specs[cmd]
	m.Command = cmd
	m.Path = spec.Path

	s := &state{argv: argv, partial: partial, cmd: cmd, slots: spec.Positionals, match: m}
	if err := s.run(i); err != nil {
		return nil, err
	}
	return m, nil
}

type state struct {
	argv    []string
	partial bool
	cmd     *cobra.Command
	slots   []PositionalSpec
	slot    int
	rest    bool
	match   *Match
}

func (s *state) emit(t Token) {
	s.match.Tokens = append(s.match.Tokens, t)
}

func (s *state) run(i int) error {
	endOfOptions := false
	for ; i < len(s.argv); i++ {
		arg := s.argv[i]

		if !s.rest && s.slot < len(s.slots) && s.slots[s.slot].Kind == SlotProxy {
			s.rest = true
		}
		if s.rest {
			s.emit(Token{Kind: TokenRest, Index: i})
			continue
		}

		var err error
		switch {
		case !endOfOptions && arg == "--":
			s.emit(Token{Kind: TokenRest, Index: i})
			endOfOptions = true
		case !endOfOptions && strings.HasPrefix(arg, "--"):
			i, err = s.long(i)
		case !endOfOptions && len(arg) > 1 && arg[0] == '-':
			i, err = s.short(i)
		default:
			err = s.positional(i)
		}
		if err != nil {
			return err
		}
	}

	if !s.partial && s.slot < len(s.slots) && s.slots[s.slot].Kind == SlotRequired {
		return resolutionError(s.argv, len(s.argv), fmt.Sprintf("missing required argument <%s>", s.slots[s.slot].Name))
	}
	return nil
}

// long matches --name, --name=value, --no-name and --name value
func (s *state) long(i int) (int, error) {
	arg := s.argv[i]
	name, value, hasValue := strings.Cut(arg[2:], "=")

	flag := s.cmd.Flags().Lookup(name)
	if flag == nil && !hasValue {
		if negated := s.cmd.Flags().Lookup(strings.TrimPrefix(name, "no-")); negated != nil && name != negated.Name && isBool(negated) {
			flag = negated
		}
	}
	if flag == nil {
		return i, resolutionError(s.argv, i, fmt.Sprintf("unknown option %q", "--"+name))
	}

	option := Token{Kind: TokenOption, Index: i, Option: "--" + name, Name: "--" + flag.Name}

	if takesNoValue(flag) {
		if hasValue {
			return i, resolutionError(s.argv, i, fmt.Sprintf("option %q does not take a value", "--"+name))
		}
		s.emit(option)
		return i, nil
	}

	if hasValue {
		eq := 2 + len(name)
		option.Slice = &Slice{0, eq}
		s.emit(option)
		s.emit(Token{Kind: TokenAssign, Index: i, Slice: &Slice{eq, eq + 1}})
		s.emit(Token{Kind: TokenValue, Index: i, Slice: &Slice{eq + 1, eq + 1 + len(value)}})
		return i, nil
	}

	s.emit(option)
	return s.value(i, "--"+name)
}

// short matches bundles such as -D, -abc and -j4
func (s *state) short(i int) (int, error) {
	arg := s.argv[i]
	bundled := len(arg) > 2

	for j := 1; j < len(arg); j++ {
		letter := arg[j : j+1]
		flag := s.cmd.Flags().ShorthandLookup(letter)
		if flag == nil {
			return i, resolutionError(s.argv, i, fmt.Sprintf("unknown option %q", "-"+letter))
		}

		option := Token{Kind: TokenOption, Index: i, Option: "-" + letter, Name: "--" + flag.Name}
		if bundled {
			if j == 1 {
				option.Slice = &Slice{0, 2}
			} else {
				option.Slice = &Slice{j, j + 1}
			}
		}
		s.emit(option)

		if takesNoValue(flag) {
			continue
		}
		if j+1 < len(arg) {
			s.emit(Token{Kind: TokenValue, Index: i, Slice: &Slice{j + 1, len(arg)}})
			return i, nil
		}
		return s.value(i, "-"+letter)
	}
	return i, nil
}

// value consumes the argument after an option that requires one
func (s *state) value(i int, option string) (int, error) {
	if i+1 < len(s.argv) {
		s.emit(Token{Kind: TokenValue, Index: i + 1})
		return i + 1, nil
	}
	if s.partial {
		return i, nil
	}
	return i, resolutionError(s.argv, i, fmt.Sprintf("option %q requires a value", option))
}

func (s *state) positional(i int) error {
	if s.slot >= len(s.slots) {
		return resolutionError(s.argv, i, fmt.Sprintf("extraneous argument %q", s.argv[i]))
	}
	s.emit(Token{Kind: TokenPositional, Index: i})
	if s.slots[s.slot].Kind != SlotVariadic {
		s.slot++
	}
	return nil
}

func isBool(flag *pflag.Flag) bool {
	return flag.Value.Type() == "bool"
}

func takesNoValue(flag *pflag.Flag) bool {
	return flag.NoOptDefVal != ""
}

func resolutionError(argv []string, index int, reason string) error {
	return clherrors.New(clherrors.ErrCommandResolution, reason).
		WithContext("argv", argv).
		WithContext("index", index)
}
