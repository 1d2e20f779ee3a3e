// Package parser turns one line of shell text into an ast.Line.
//
// The grammar itself is mvdan.cc/sh's bash parser; this package converts its syntax tree into the
// smaller tree the highlighter renders. Everything the bash grammar accepts converts without
// error. Constructs the highlighter cannot display (subshells, redirections, ...) keep their
// source text and a type tag so the renderer can refuse them.
package parser

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/aledsdavies/clh/pkgs/ast"
)

// Parse parses a single line of shell text
func Parse(line string) (*ast.Line, error) {
	p := syntax.NewParser(syntax.KeepComments(true), syntax.Variant(syntax.LangBash))
	file, err := p.Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, newParseError(line, err)
	}

	c := &converter{src: line, printer: syntax.NewPrinter()}
	return c.line(file.Stmts, file.Last), nil
}

type converter struct {
	src     string
	printer *syntax.Printer
}

func (c *converter) line(stmts []*syntax.Stmt, last []syntax.Comment) *ast.Line {
	l := &ast.Line{}
	for _, stmt := range stmts {
		l.Chains = append(l.Chains, c.chain(stmt))
		if l.Comment == "" && len(stmt.Comments) > 0 {
			l.Comment = "#" + stmt.Comments[0].Text
		}
	}
	if l.Comment == "" && len(last) > 0 {
		l.Comment = "#" + last[0].Text
	}
	return l
}

func (c *converter) chain(stmt *syntax.Stmt) *ast.Chain {
	chain := &ast.Chain{}
	if stmt.Background {
		chain.Separator = ast.SeqBackground
	}
	c.flatten(stmt, chain)
	return chain
}

// flatten appends the commands of a (possibly nested) binary command in source order
func (c *converter) flatten(stmt *syntax.Stmt, chain *ast.Chain) {
	if bin, ok := stmt.Cmd.(*syntax.BinaryCmd); ok && !stmt.Negated && !stmt.Coprocess && len(stmt.Redirs) == 0 {
		c.flatten(bin.X, chain)
		chain.Joins = append(chain.Joins, joinOp(bin.Op))
		c.flatten(bin.Y, chain)
		return
	}
	chain.Commands = append(chain.Commands, c.command(stmt))
}

func joinOp(op syntax.BinCmdOperator) ast.JoinOp {
	switch op {
	case syntax.AndStmt:
		return ast.JoinAnd
	case syntax.OrStmt:
		return ast.JoinOr
	case syntax.PipeAll:
		return ast.JoinPipeAll
	default:
		return ast.JoinPipe
	}
}

func (c *converter) command(stmt *syntax.Stmt) *ast.Command {
	if stmt.Cmd == nil {
		return &ast.Command{Type: ast.CommandCompound, Raw: c.source(stmt)}
	}
	if stmt.Negated {
		return &ast.Command{Type: ast.CommandNegated, Raw: "! " + c.source(stmt.Cmd)}
	}
	if stmt.Coprocess {
		return &ast.Command{Type: ast.CommandCompound, Raw: "coproc " + c.source(stmt.Cmd)}
	}

	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		return c.call(cmd, stmt.Redirs)
	case *syntax.Subshell:
		return &ast.Command{Type: ast.CommandSubshell, Raw: c.source(cmd)}
	case *syntax.Block:
		return &ast.Command{Type: ast.CommandGroup, Raw: c.source(cmd)}
	default:
		return &ast.Command{Type: ast.CommandCompound, Raw: c.source(cmd)}
	}
}

func (c *converter) call(call *syntax.CallExpr, redirs []*syntax.Redirect) *ast.Command {
	command := &ast.Command{Type: ast.CommandSimple}

	for _, assign := range call.Assigns {
		if assign.Array != nil || assign.Index != nil || assign.Naked || assign.Name == nil {
			return &ast.Command{Type: ast.CommandCompound, Raw: c.source(call)}
		}
		env := &ast.EnvAssign{Name: assign.Name.Value, Append: assign.Append}
		if assign.Value != nil {
			env.Value = c.word(assign.Value)
		}
		command.Envs = append(command.Envs, env)
	}

	for _, word := range call.Args {
		command.Args = append(command.Args, c.word(word))
	}

	for _, redir := range redirs {
		command.Args = append(command.Args, &ast.Argument{
			Type:     ast.ArgumentRedirect,
			Segments: []*ast.Segment{ast.Text(c.source(redir))},
		})
	}

	return command
}

func (c *converter) word(word *syntax.Word) *ast.Argument {
	arg := &ast.Argument{Type: ast.ArgumentWord}
	for _, part := range word.Parts {
		if _, ok := part.(*syntax.ProcSubst); ok {
			arg.Type = ast.ArgumentProcess
		}
		segments := c.wordPart(part, false)
		if n := len(arg.Segments); n > 0 && len(segments) > 0 && arg.Segments[n-1].Quoted && segments[0].Quoted {
			segments[0].Reopen = true
		}
		arg.Segments = append(arg.Segments, segments...)
	}
	return arg
}

func (c *converter) wordPart(part syntax.WordPart, quoted bool) []*ast.Segment {
	switch p := part.(type) {
	case *syntax.Lit:
		return []*ast.Segment{{Type: ast.SegmentText, Text: p.Value, Quoted: quoted}}
	case *syntax.DblQuoted:
		if quoted || p.Dollar || len(p.Parts) == 0 {
			return []*ast.Segment{{Type: ast.SegmentText, Text: c.source(p), Quoted: quoted}}
		}
		var segments []*ast.Segment
		for _, inner := range p.Parts {
			segments = append(segments, c.wordPart(inner, true)...)
		}
		return segments
	case *syntax.CmdSubst:
		open := 2
		if p.Backquotes {
			open = 1
		}
		return []*ast.Segment{{
			Type:      ast.SegmentShell,
			Text:      c.span(p.Left, open, p.Right),
			Shell:     c.line(p.Stmts, p.Last),
			Quoted:    quoted,
			Backquote: p.Backquotes,
		}}
	default:
		return []*ast.Segment{{Type: ast.SegmentText, Text: c.source(p), Quoted: quoted}}
	}
}

// source returns the original text of a node, falling back to the printer when the node's
// positions do not map into the input
func (c *converter) source(node syntax.Node) string {
	start, end := node.Pos(), node.End()
	if start.IsValid() && end.IsValid() && start.Offset() <= end.Offset() && int(end.Offset()) <= len(c.src) {
		return c.src[start.Offset():end.Offset()]
	}

	var b strings.Builder
	if err := c.printer.Print(&b, node); err != nil {
		return ""
	}
	return b.String()
}

// span returns the text between an opening delimiter of the given width and a closing position
func (c *converter) span(left syntax.Pos, width int, right syntax.Pos) string {
	if !left.IsValid() || !right.IsValid() {
		return ""
	}
	start, end := int(left.Offset())+width, int(right.Offset())
	if start > end || end > len(c.src) {
		return ""
	}
	return c.src[start:end]
}
