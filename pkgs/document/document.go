// Package document splices highlighted command lines into markdown documents.
//
// The document is parsed with goldmark only to locate snippets; the output is the original
// source with each highlighted snippet replaced in place, so everything else in the document is
// preserved byte for byte.
package document

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/highlight"
	"github.com/aledsdavies/clh/pkgs/render"
	"github.com/aledsdavies/clh/pkgs/segment"
)

// Transformer rewrites documents using a shared Highlighter
type Transformer struct {
	h         *highlight.Highlighter
	renderer  render.Renderer
	language  string
	directive string
	imports   string
	namespace string
	logger    *slog.Logger
	markdown  parser.Parser
}

// Option configures a Transformer
type Option func(*Transformer)

// WithLanguage sets the fenced block language that marks command-line blocks
func WithLanguage(language string) Option {
	return func(t *Transformer) { t.language = language }
}

// WithDirective sets the text directive name that forces inline highlighting
func WithDirective(name string) Option {
	return func(t *Transformer) { t.directive = name }
}

// WithRenderer sets the output format for replaced snippets
func WithRenderer(r render.Renderer) Option {
	return func(t *Transformer) { t.renderer = r }
}

// WithImport sets the component import added to transformed documents. An empty source
// disables the import.
func WithImport(namespace, source string) Option {
	return func(t *Transformer) {
		t.namespace = namespace
		t.imports = source
	}
}

// WithLogger sets the logger for document-level warnings
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) { t.logger = logger }
}

// New creates a Transformer writing MDX by default
func New(h *highlight.Highlighter, opts ...Option) *Transformer {
	t := &Transformer{
		h:         h,
		renderer:  &render.MDX{Namespace: render.DefaultNamespace},
		language:  "commandline",
		directive: "commandline",
		imports:   render.DefaultImportSource,
		namespace: render.DefaultNamespace,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		markdown:  goldmark.New().Parser(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Finding is a diagnostic placed in its document
type Finding struct {
	DocLine int // 1-based line in the document
	highlight.Diagnostic
}

func (f Finding) String() string {
	return fmt.Sprintf("%d: %s", f.DocLine, f.Diagnostic)
}

// Result is a transformed document
type Result struct {
	Output       []byte
	Replacements int
	Findings     []Finding
}

// Changed reports whether the output differs from the input
func (r *Result) Changed() bool {
	return r.Replacements > 0
}

type edit struct {
	start, end int
	text       string
}

type span struct{ start, end int }

type transform struct {
	t       *Transformer
	source  []byte
	session *highlight.Session
	edits   []edit
	claimed map[int]bool // code span starts already handled by a directive
	code    []span       // code regions where directives are not recognised
	result  Result
}

// Transform rewrites source, highlighting every command-line snippet. Snippets that cannot be
// highlighted are left alone and reported in Result.Findings.
func (t *Transformer) Transform(source []byte) (*Result, error) {
	tr := &transform{
		t:       t,
		source:  source,
		session: t.h.Session(),
		claimed: make(map[int]bool),
	}

	bodyStart := frontmatterEnd(source)
	masked := source
	if bodyStart > 0 {
		masked = bytes.Clone(source)
		for i := range bodyStart {
			if masked[i] != '\n' {
				masked[i] = ' '
			}
		}
	}
	doc := t.markdown.Parse(text.NewReader(masked))

	var spans []*ast.CodeSpan
	var blocks []*ast.FencedCodeBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			blocks = append(blocks, node)
			tr.code = append(tr.code, linesSpan(node.Lines()))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			tr.code = append(tr.code, linesSpan(node.Lines()))
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			if sp, ok := codeSpanRange(source, node); ok {
				spans = append(spans, node)
				tr.code = append(tr.code, sp)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, clherrors.NewInputError("cannot walk document", err)
	}

	for _, block := range blocks {
		if err := tr.fenced(block); err != nil {
			return nil, err
		}
	}
	if err := tr.directives(); err != nil {
		return nil, err
	}
	for _, cs := range spans {
		if err := tr.inline(cs); err != nil {
			return nil, err
		}
	}

	if tr.result.Replacements > 0 && t.imports != "" && !hasImport(source, t.namespace) {
		stmt := render.ImportStatement(t.namespace, t.imports) + "\n"
		if bodyStart >= len(source) || source[bodyStart] != '\n' {
			stmt += "\n"
		}
		tr.edits = append(tr.edits, edit{start: bodyStart, end: bodyStart, text: stmt})
	}

	tr.result.Output = apply(source, tr.edits)
	return &tr.result, nil
}

// fenced highlights a fenced block marked with the command-line language
func (tr *transform) fenced(block *ast.FencedCodeBlock) error {
	if block.Info == nil {
		return nil
	}
	info := string(block.Info.Segment.Value(tr.source))
	lang := string(block.Language(tr.source))
	meta := strings.TrimSpace(strings.TrimPrefix(info, lang))
	if lang != tr.t.language && !slices.Contains(strings.Fields(meta), tr.t.language) {
		return nil
	}

	var content bytes.Buffer
	lines := block.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		content.Write(seg.Value(tr.source))
	}

	start, end := fenceRange(tr.source, block)
	first := start
	if lines.Len() > 0 {
		first = firstContentOffset(tr.source, lines)
	}

	mark := len(tr.session.Diagnostics())
	node := tr.session.Block(content.String())
	tr.collect(mark, lineOf(tr.source, first))
	return tr.replace(start, end, node)
}

// directives handles :name[...] text directives. A directive wrapping exactly one code span is
// highlighted without the command-line check; any other content is unwrapped with a warning.
func (tr *transform) directives() error {
	if tr.t.directive == "" {
		return nil
	}
	opener := regexp.MustCompile(`:` + regexp.QuoteMeta(tr.t.directive) + `\[`)
	for _, loc := range opener.FindAllIndex(tr.source, -1) {
		if tr.inCode(loc[0]) {
			continue
		}
		closeAt := tr.closingBracket(loc[1])
		if closeAt < 0 {
			continue
		}

		if sp, ok := tr.codeSpanAt(loc[1], closeAt); ok {
			tr.claimed[sp.start] = true
			content := codeSpanContent(tr.source[sp.start:sp.end])
			mark := len(tr.session.Diagnostics())
			node, ok := tr.session.Inline(content)
			tr.collect(mark, lineOf(tr.source, loc[0]))
			if !ok {
				tr.unwrap(loc[0], loc[1], closeAt)
				continue
			}
			if err := tr.replace(loc[0], closeAt+1, node); err != nil {
				return err
			}
			continue
		}

		raw := string(tr.source[loc[0] : closeAt+1])
		err := clherrors.New(clherrors.ErrMalformedDirective, "directive must wrap exactly one inline code span").
			WithContext("directive", raw)
		tr.t.logger.Warn("malformed directive", "directive", raw, "error", err)
		tr.result.Findings = append(tr.result.Findings, Finding{
			DocLine: lineOf(tr.source, loc[0]),
			Diagnostic: highlight.Diagnostic{
				Severity: highlight.SeverityWarning,
				Type:     clherrors.ErrMalformedDirective,
				Text:     raw,
				Message:  "malformed :" + tr.t.directive + " directive; content left as is",
			},
		})
		tr.session.Report(tr.result.Findings[len(tr.result.Findings)-1].Diagnostic)
		tr.unwrap(loc[0], loc[1], closeAt)
	}
	return nil
}

// unwrap drops the directive opener starting at start and its closing bracket, keeping the
// content between them
func (tr *transform) unwrap(start, open, closeAt int) {
	tr.edits = append(tr.edits,
		edit{start: start, end: open},
		edit{start: closeAt, end: closeAt + 1},
	)
}

// inline highlights a code span that looks like a command line
func (tr *transform) inline(cs *ast.CodeSpan) error {
	sp, ok := codeSpanRange(tr.source, cs)
	if !ok || tr.claimed[sp.start] {
		return nil
	}
	content := codeSpanContent(tr.source[sp.start:sp.end])
	if !tr.t.h.IsCommandLine(content) {
		return nil
	}
	mark := len(tr.session.Diagnostics())
	node, ok := tr.session.Inline(content)
	tr.collect(mark, lineOf(tr.source, sp.start))
	if !ok {
		return nil
	}
	return tr.replace(sp.start, sp.end, node)
}

func (tr *transform) replace(start, end int, node *segment.Node) error {
	var b strings.Builder
	if err := tr.t.renderer.Render(&b, node); err != nil {
		return clherrors.Wrap(clherrors.ErrInputRead, "cannot render snippet", err)
	}
	tr.edits = append(tr.edits, edit{start: start, end: end, text: strings.TrimSuffix(b.String(), "\n")})
	tr.result.Replacements++
	return nil
}

// collect places the session diagnostics reported since mark, counting block lines from line
func (tr *transform) collect(mark, line int) {
	for _, d := range tr.session.Diagnostics()[mark:] {
		docLine := line
		if d.Line > 0 {
			docLine += d.Line - 1
		}
		tr.result.Findings = append(tr.result.Findings, Finding{DocLine: docLine, Diagnostic: d})
	}
}

func (tr *transform) inCode(offset int) bool {
	for _, sp := range tr.code {
		if offset >= sp.start && offset < sp.end {
			return true
		}
	}
	return false
}

// closingBracket finds the ] closing a directive label opened before from, skipping code spans
func (tr *transform) closingBracket(from int) int {
	depth := 0
	for i := from; i < len(tr.source); i++ {
		if sp, ok := tr.codeStartingAt(i); ok {
			i = sp.end - 1
			continue
		}
		switch tr.source[i] {
		case '\n':
			if i+1 < len(tr.source) && tr.source[i+1] == '\n' {
				return -1
			}
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func (tr *transform) codeStartingAt(offset int) (span, bool) {
	for _, sp := range tr.code {
		if sp.start == offset {
			return sp, true
		}
	}
	return span{}, false
}

// codeSpanAt reports whether [start, end) is exactly one code span
func (tr *transform) codeSpanAt(start, end int) (span, bool) {
	sp, ok := tr.codeStartingAt(start)
	if !ok || sp.end != end || tr.source[start] != '`' {
		return span{}, false
	}
	return sp, true
}

func apply(source []byte, edits []edit) []byte {
	slices.SortStableFunc(edits, func(a, b edit) int {
		if a.start != b.start {
			return b.start - a.start
		}
		return b.end - a.end
	})
	out := bytes.Clone(source)
	for _, e := range edits {
		out = slices.Concat(out[:e.start], []byte(e.text), out[e.end:])
	}
	return out
}
