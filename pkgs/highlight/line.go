package highlight

import (
	"strings"

	"github.com/aledsdavies/clh/pkgs/ast"
	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/segment"
)

// renderLine renders the chains of a line with their ';' and '&' separators. A trailing ';' is
// dropped; a trailing comment follows after a space.
func (s *Session) renderLine(line *ast.Line, source string) (*segment.Node, error) {
	children := make([]*segment.Node, 0, 2*len(line.Chains)+1)
	for i, chain := range line.Chains {
		node, err := s.renderChain(chain, source)
		if err != nil {
			return nil, err
		}

		sep := ";"
		if chain.Separator == ast.SeqBackground {
			sep = " &"
		}
		if i < len(line.Chains)-1 {
			sep += " "
		}
		children = append(children, node, segment.Leaf(segment.Span, sep))
	}

	if n := len(line.Chains); n > 0 && line.Chains[n-1].Separator == ast.SeqSemicolon {
		children = children[:len(children)-1]
	}

	if line.Comment != "" {
		if len(children) > 0 {
			children = append(children, segment.NewText(" "))
		}
		children = append(children, segment.Leaf(segment.Comment, line.Comment))
	}

	return segment.New(segment.Fragment, children...), nil
}

// renderChain renders each command of a chain, its environment prefix and the join operators
// between commands
func (s *Session) renderChain(chain *ast.Chain, source string) (*segment.Node, error) {
	var nodes []*segment.Node
	for i, cmd := range chain.Commands {
		if cmd.Type != ast.CommandSimple {
			return nil, clherrors.NewUnsupportedConstruct(cmd.Type.String(), source)
		}
		if len(cmd.Args) == 0 {
			return nil, clherrors.NewUnsupportedConstruct("assignment without command", source)
		}

		if len(cmd.Envs) > 0 {
			envs := make([]string, len(cmd.Envs))
			for j, env := range cmd.Envs {
				envs[j] = s.store.Expand(env.String())
			}
			nodes = append(nodes, segment.Leaf(segment.Span, strings.Join(envs, " ")+" "))
		}

		args, err := s.arguments(cmd, source)
		if err != nil {
			return nil, err
		}
		node, err := s.renderCommand(args)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)

		if i < len(chain.Joins) {
			nodes = append(nodes, segment.Leaf(segment.Span, " "+chain.Joins[i].String()+" "))
		}
	}
	return segment.New(segment.Fragment, nodes...), nil
}

// arguments flattens a command's arguments to strings. An argument holding command
// substitutions is rendered right away and replaced by a placeholder for its fragment.
func (s *Session) arguments(cmd *ast.Command, source string) ([]string, error) {
	args := make([]string, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		if arg.Type != ast.ArgumentWord {
			return nil, clherrors.NewUnsupportedConstruct(arg.Type.String(), source)
		}
		if arg.IsLiteral() {
			args = append(args, arg.String())
			continue
		}

		pieces := arg.Pieces()
		children := make([]*segment.Node, 0, len(pieces))
		for _, piece := range pieces {
			if piece.Subst == nil {
				children = append(children, segment.NewText(piece.Text))
				continue
			}
			inner, err := s.renderLine(piece.Subst.Shell, source)
			if err != nil {
				return nil, err
			}
			children = append(children, inner)
		}

		token, err := s.store.Create(arg.String(), segment.New(segment.Span, children...))
		if err != nil {
			return nil, err
		}
		args = append(args, token)
	}
	return args, nil
}
