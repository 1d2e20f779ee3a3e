package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/aledsdavies/clh/pkgs/segment"
)

// Theme maps segment kinds to terminal styles
type Theme map[segment.Kind]lipgloss.Style

// DefaultTheme returns the built-in terminal colours for a renderer
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		segment.Binary:     r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		segment.Path:       r.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		segment.Option:     r.NewStyle().Foreground(lipgloss.Color("208")),
		segment.Positional: r.NewStyle().Foreground(lipgloss.Color("255")),
		segment.Assign:     r.NewStyle().Foreground(lipgloss.Color("240")),
		segment.Value:      r.NewStyle().Foreground(lipgloss.Color("114")),
		segment.Rest:       r.NewStyle().Foreground(lipgloss.Color("250")),
		segment.Comment:    r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		segment.Unknown:    r.NewStyle().Foreground(lipgloss.Color("250")),
		segment.Verbatim:   r.NewStyle().Foreground(lipgloss.Color("238")),
		segment.Span:       r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// ANSI writes a tree for a terminal. Each text run takes the style of its nearest styled
// ancestor; block lines end with a newline.
type ANSI struct {
	Color bool
	Theme Theme // nil selects DefaultTheme
}

// Render writes node with terminal styling
func (a *ANSI) Render(w io.Writer, node *segment.Node) error {
	renderer := lipgloss.NewRenderer(w)
	if !a.Color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	theme := a.Theme
	if theme == nil {
		theme = DefaultTheme(renderer)
	}

	var b strings.Builder
	p := &painter{theme: theme, b: &b}
	p.paint(node, renderer.NewStyle(), false)
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type painter struct {
	theme Theme
	b     *strings.Builder
}

func (p *painter) paint(node *segment.Node, style lipgloss.Style, styled bool) {
	if s, ok := p.theme[node.Kind]; ok && (!styled || node.Kind != segment.Span) {
		style, styled = s, true
	}

	switch node.Kind {
	case segment.Text:
		p.b.WriteString(style.Render(node.Text))
	case segment.Block:
		for i, child := range node.Children {
			if i > 0 {
				p.b.WriteString("\n")
			}
			p.paint(child, style, styled)
		}
	case segment.Command:
		for i, child := range node.Children {
			if i > 0 {
				p.b.WriteString(" ")
			}
			p.paint(child, style, styled)
		}
	default:
		for _, child := range node.Children {
			p.paint(child, style, styled)
		}
	}
}
