// Package ast defines the shell syntax tree the highlighter renders.
//
// A Line is a sequence of Chains separated by ";" or "&". A Chain is one or more Commands joined
// by "|", "|&", "&&" or "||". A Command carries its environment assignments and arguments, and an
// Argument is a run of Segments: literal text or a nested command substitution holding its own
// Line. Trees are built once by the parser and never mutated afterwards.
package ast

import (
	"fmt"
	"strings"
)

// Separator terminates a chain within a line
type Separator int

const (
	SeqSemicolon  Separator = iota // ;
	SeqBackground                  // &
)

func (s Separator) String() string {
	if s == SeqBackground {
		return "&"
	}
	return ";"
}

// JoinOp links two commands inside a chain
type JoinOp int

const (
	JoinPipe    JoinOp = iota // |
	JoinPipeAll               // |&
	JoinAnd                   // &&
	JoinOr                    // ||
)

var joinNames = [...]string{
	JoinPipe:    "|",
	JoinPipeAll: "|&",
	JoinAnd:     "&&",
	JoinOr:      "||",
}

func (op JoinOp) String() string {
	if int(op) < len(joinNames) && int(op) >= 0 {
		return joinNames[op]
	}
	return fmt.Sprintf("JoinOp(%d)", int(op))
}

// Line is one parsed input line
type Line struct {
	Chains  []*Chain
	Comment string // trailing comment including the leading '#', if any
}

// Chain is a group of commands joined by pipe or logical operators
type Chain struct {
	Commands  []*Command
	Joins     []JoinOp // Joins[i] links Commands[i] and Commands[i+1]
	Separator Separator
}

// CommandType classifies what kind of shell construct a command is
type CommandType int

const (
	CommandSimple   CommandType = iota // name args...
	CommandSubshell                    // ( ... )
	CommandGroup                       // { ...; }
	CommandNegated                     // ! cmd
	CommandCompound                    // if, for, while, case, functions, ...
)

var commandTypeNames = [...]string{
	CommandSimple:   "command",
	CommandSubshell: "subshell",
	CommandGroup:    "group",
	CommandNegated:  "negation",
	CommandCompound: "compound",
}

func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) && int(t) >= 0 {
		return commandTypeNames[t]
	}
	return fmt.Sprintf("CommandType(%d)", int(t))
}

// Command is one invocation within a chain
type Command struct {
	Type CommandType
	Envs []*EnvAssign
	Args []*Argument
	Raw  string // source text, kept for constructs other than simple commands
}

// EnvAssign is a NAME=value prefix before a command
type EnvAssign struct {
	Name   string
	Append bool // NAME+=value
	Value  *Argument
}

// String returns the assignment in shell syntax
func (e *EnvAssign) String() string {
	op := "="
	if e.Append {
		op = "+="
	}
	if e.Value == nil {
		return e.Name + op
	}
	return e.Name + op + e.Value.String()
}

// ArgumentType classifies an argument
type ArgumentType int

const (
	ArgumentWord     ArgumentType = iota // a regular word
	ArgumentRedirect                     // > file, 2>&1, <<EOF ...
	ArgumentProcess                      // <(cmd), >(cmd)
)

var argumentTypeNames = [...]string{
	ArgumentWord:     "argument",
	ArgumentRedirect: "redirection",
	ArgumentProcess:  "process substitution",
}

func (t ArgumentType) String() string {
	if int(t) < len(argumentTypeNames) && int(t) >= 0 {
		return argumentTypeNames[t]
	}
	return fmt.Sprintf("ArgumentType(%d)", int(t))
}

// Argument is one word of a command
type Argument struct {
	Type     ArgumentType
	Segments []*Segment
}

// SegmentType distinguishes literal text from command substitutions
type SegmentType int

const (
	SegmentText  SegmentType = iota // literal or quoted text, in shell source form
	SegmentShell                    // $(...) or `...`
)

// Segment is one part of an argument
type Segment struct {
	Type      SegmentType
	Text      string // source text; for substitutions the text between the delimiters
	Shell     *Line  // parsed substitution body
	Quoted    bool   // inside double quotes
	Reopen    bool   // first segment of a double-quoted part that directly follows another
	Backquote bool   // `...` rather than $(...)
}

// Open returns the opening delimiter of a substitution
func (s *Segment) Open() string {
	if s.Backquote {
		return "`"
	}
	return "$("
}

// Close returns the closing delimiter of a substitution
func (s *Segment) Close() string {
	if s.Backquote {
		return "`"
	}
	return ")"
}

// Piece is one run of an argument in display order: literal source text (quotes and
// substitution delimiters included) or a substitution whose body is rendered separately.
type Piece struct {
	Text  string
	Subst *Segment
}

// Pieces splits the argument into literal runs and substitutions. Quoted segments of one
// double-quoted part share a pair of quotes; a reopened segment starts a new pair.
func (a *Argument) Pieces() []Piece {
	var pieces []Piece
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			pieces = append(pieces, Piece{Text: text.String()})
			text.Reset()
		}
	}

	inQuote := false
	for _, seg := range a.Segments {
		if inQuote && seg.Reopen {
			text.WriteString(`""`)
		}
		if seg.Quoted != inQuote {
			text.WriteByte('"')
			inQuote = seg.Quoted
		}
		if seg.Type == SegmentText {
			text.WriteString(seg.Text)
			continue
		}
		text.WriteString(seg.Open())
		flush()
		pieces = append(pieces, Piece{Subst: seg})
		text.WriteString(seg.Close())
	}
	if inQuote {
		text.WriteByte('"')
	}
	flush()
	return pieces
}

// IsLiteral reports whether the argument contains no substitutions
func (a *Argument) IsLiteral() bool {
	for _, seg := range a.Segments {
		if seg.Type == SegmentShell {
			return false
		}
	}
	return true
}

// String returns the argument in shell syntax
func (a *Argument) String() string {
	var b strings.Builder
	for _, piece := range a.Pieces() {
		if piece.Subst != nil {
			b.WriteString(piece.Subst.Text)
			continue
		}
		b.WriteString(piece.Text)
	}
	return b.String()
}
