package highlight

import (
	"fmt"
	"regexp"
	"strings"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/parser"
	"github.com/aledsdavies/clh/pkgs/placeholder"
	"github.com/aledsdavies/clh/pkgs/segment"
)

// Severity ranks a diagnostic
type Severity int

const (
	SeverityWarning Severity = iota // something was left unhighlighted
	SeverityInfo                    // highlighted, but less richly than it could have been
)

func (s Severity) String() string {
	if s == SeverityInfo {
		return "info"
	}
	return "warning"
}

// Diagnostic is one non-fatal problem found while highlighting
type Diagnostic struct {
	Severity Severity
	Type     string // error type, e.g. SHELL_PARSE_ERROR
	Line     int    // 1-based line within the block; 0 for inline snippets and documents
	Text     string // the offending source
	Message  string
	Args     []string // the unresolved command, for COMMAND_RESOLUTION_ERROR
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// markupPattern finds regions such as <name> that stand for themselves rather than shell syntax
var markupPattern = regexp.MustCompile(`<[^>]+>`)

// Session highlights the snippets of one document
type Session struct {
	h           *Highlighter
	store       *placeholder.Store
	diagnostics []Diagnostic
	lineNo      int
}

// Store returns the session's placeholder store
func (s *Session) Store() *placeholder.Store {
	return s.store
}

// Diagnostics returns everything reported so far
func (s *Session) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Report records a diagnostic found outside the highlighter, such as a malformed directive
func (s *Session) Report(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
}

// Block highlights a fenced block. Every line is rendered on its own: a line that cannot be
// highlighted becomes a Verbatim node and does not affect its neighbours.
func (s *Session) Block(text string) *segment.Node {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	children := make([]*segment.Node, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		s.lineNo = i + 1

		switch {
		case strings.TrimSpace(line) == "":
			children = append(children, segment.New(segment.Spacer))
		case strings.HasPrefix(line, "#"):
			children = append(children, segment.New(segment.BlockLine, segment.Leaf(segment.Comment, line)))
		default:
			node, err := s.Line(line)
			if err != nil {
				s.warn(line, "cannot highlight block line", err)
				children = append(children, segment.Leaf(segment.Verbatim, line))
				continue
			}
			children = append(children, segment.New(segment.BlockLine, node))
		}
	}

	s.lineNo = 0
	return segment.New(segment.Block, children...)
}

// Inline highlights an inline snippet. When it cannot be highlighted ok is false and the caller
// keeps the original snippet.
func (s *Session) Inline(text string) (node *segment.Node, ok bool) {
	line := strings.TrimSpace(text)
	rendered, err := s.Line(line)
	if err != nil {
		s.warn(line, "cannot highlight inline snippet", err)
		return nil, false
	}
	return segment.New(segment.Inline, rendered), true
}

// Line highlights a single line of shell text
func (s *Session) Line(line string) (*segment.Node, error) {
	hidden, err := s.hideMarkup(line)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(hidden)
	if err != nil {
		return nil, err
	}
	return s.renderLine(parsed, line)
}

// hideMarkup swaps markup regions for placeholder tokens
func (s *Session) hideMarkup(line string) (string, error) {
	var firstErr error
	hidden := markupPattern.ReplaceAllStringFunc(line, func(region string) string {
		token, err := s.store.Create(region, nil)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return token
	})
	return hidden, firstErr
}

func (s *Session) warn(text, msg string, err error) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Type:     clherrors.TypeOf(err),
		Line:     s.lineNo,
		Text:     text,
		Message:  fmt.Sprintf("%s %q: %v", msg, text, err),
	})
	s.h.logger.Warn(msg, "line", text, "type", clherrors.TypeOf(err), "error", err)
}
