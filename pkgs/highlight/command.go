package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/grammar"
	"github.com/aledsdavies/clh/pkgs/invariant"
	"github.com/aledsdavies/clh/pkgs/resolve"
	"github.com/aledsdavies/clh/pkgs/segment"
)

// renderCommand renders one invocation as a Command node whose first child is the binary
func (s *Session) renderCommand(args []string) (*segment.Node, error) {
	// INPUT CONTRACT
	invariant.Precondition(len(args) > 0, "command must have at least one argument")

	resolved := s.h.resolver.Resolve(args)

	binary, err := s.leaf(segment.Binary, resolved.BinaryName())
	if err != nil {
		return nil, err
	}

	var rest []*segment.Node
	switch r := resolved.(type) {
	case *resolve.Rich:
		rest, err = s.renderRich(r)
	case *resolve.Other:
		rest, err = s.renderOther(r)
	case *resolve.Unknown:
		rest = s.renderUnknown(r)
	default:
		invariant.Invariant(false, "unhandled resolved command %T", resolved)
	}
	if err != nil {
		return nil, err
	}

	return segment.New(segment.Command, append([]*segment.Node{binary}, rest...)...), nil
}

func (s *Session) renderRich(r *resolve.Rich) ([]*segment.Node, error) {
	groups := resolve.GroupTokens(r.Match.Tokens)
	nodes := make([]*segment.Node, 0, len(groups))

	for _, group := range groups {
		switch group.Kind {
		case resolve.GroupPath:
			words := make([]string, len(group.Tokens))
			for i, token := range group.Tokens {
				words[i] = token.Text(r.Argv)
			}
			node := segment.Leaf(segment.Path, strings.Join(words, " "))
			if r.Definition.Description != "" {
				node.WithTooltip(capitalize(r.Definition.Description)).
					WithHref(s.h.hrefPrefix + strings.Join(r.Match.Path, "/"))
			}
			nodes = append(nodes, node)

		case resolve.GroupValue:
			children := make([]*segment.Node, 0, len(group.Tokens))
			for _, token := range group.Tokens {
				child, err := s.renderToken(r, token)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
			nodes = append(nodes, segment.New(segment.Span, children...))

		default:
			node, err := s.renderToken(r, group.Tokens[0])
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

var tokenKinds = map[grammar.TokenKind]segment.Kind{
	grammar.TokenPath:       segment.Path,
	grammar.TokenPositional: segment.Positional,
	grammar.TokenOption:     segment.Option,
	grammar.TokenAssign:     segment.Assign,
	grammar.TokenValue:      segment.Value,
	grammar.TokenRest:       segment.Rest,
}

func (s *Session) renderToken(r *resolve.Rich, token grammar.Token) (*segment.Node, error) {
	invariant.InRange(token.Index, 0, len(r.Argv)-1, "token index")

	if token.Kind == grammar.TokenOption {
		node := segment.Leaf(segment.Option, token.Text(r.Argv))
		if opt, ok := r.Definition.Option(token.Name); ok && opt.Description != "" {
			node.WithTooltip(opt.Description)
		}
		return node, nil
	}

	kind, ok := tokenKinds[token.Kind]
	invariant.Invariant(ok, "no segment kind for token %s", token.Kind)
	return s.leaf(kind, token.Text(r.Argv))
}

var argKinds = map[resolve.ArgKind]segment.Kind{
	resolve.ArgPath:       segment.Path,
	resolve.ArgOption:     segment.Option,
	resolve.ArgPositional: segment.Positional,
}

func (s *Session) renderOther(r *resolve.Other) ([]*segment.Node, error) {
	nodes := make([]*segment.Node, 0, len(r.Args))
	for _, arg := range r.Args {
		node, err := s.leaf(argKinds[arg.Kind], arg.Text)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (s *Session) renderUnknown(r *resolve.Unknown) []*segment.Node {
	text := s.store.Expand(strings.Join(r.Remainder, " "))

	if r.Cause != nil {
		args := make([]string, len(r.Remainder))
		for i, arg := range r.Remainder {
			args[i] = s.store.Expand(arg)
		}
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Severity: SeverityInfo,
			Type:     clherrors.TypeOf(r.Cause),
			Line:     s.lineNo,
			Text:     r.Binary + " " + text,
			Message:  r.Cause.Error(),
			Args:     args,
		})
	}

	if text == "" {
		return nil
	}
	return []*segment.Node{segment.Leaf(segment.Unknown, text)}
}

// leaf creates a category leaf for text that may be a placeholder token. A token standing for a
// pre-rendered fragment shows that fragment; any other token shows its raw text again.
func (s *Session) leaf(kind segment.Kind, text string) (*segment.Node, error) {
	value, err := s.store.Resolve(text)
	if err != nil {
		return nil, err
	}
	if value.Fragment != nil {
		return segment.New(kind, value.Fragment), nil
	}
	return segment.Leaf(kind, s.store.Expand(value.Raw)), nil
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(text[size:])
}
