package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

// ParseError describes where a shell line stopped making sense
type ParseError struct {
	Input      string
	Line       int // 1-based
	Column     int // 1-based
	Message    string
	Incomplete bool // the input ended early, e.g. an unterminated quote
}

// Error returns the message with a code snippet pointing at the failure
func (e *ParseError) Error() string {
	snippet := e.createCodeSnippet()
	if snippet == "" {
		return e.Message
	}
	return fmt.Sprintf("%s\n%s", e.Message, snippet)
}

// createCodeSnippet creates a code snippet showing the error location
func (e *ParseError) createCodeSnippet() string {
	if e.Input == "" || e.Line == 0 {
		return ""
	}

	lines := strings.Split(e.Input, "\n")
	if e.Line > len(lines) {
		return ""
	}
	lineContent := lines[e.Line-1]

	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", e.Line, e.Column))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", e.Line, lineContent))
	snippet.WriteString("   | ")
	if e.Column > 0 && e.Column <= len(lineContent)+1 {
		snippet.WriteString(strings.Repeat(" ", e.Column-1) + "^")
	}
	return snippet.String()
}

// newParseError converts a grammar failure into a SHELL_PARSE_ERROR
func newParseError(input string, err error) error {
	perr := &ParseError{Input: input, Message: err.Error()}

	var syntaxErr syntax.ParseError
	if stderrors.As(err, &syntaxErr) {
		perr.Line = int(syntaxErr.Pos.Line())
		perr.Column = int(syntaxErr.Pos.Col())
		perr.Message = syntaxErr.Text
		perr.Incomplete = syntaxErr.Incomplete
	}

	return clherrors.Wrap(clherrors.ErrShellParse, fmt.Sprintf("cannot parse %q", input), perr).
		WithContext("line", input)
}
