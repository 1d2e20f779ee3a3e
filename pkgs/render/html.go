package render

import (
	"io"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/aledsdavies/clh/pkgs/segment"
)

// DefaultClassPrefix prefixes the CSS classes of HTML output
const DefaultClassPrefix = "clh-"

// HTML writes a tree as plain HTML. Category leaves become spans with a class per category,
// tooltips become title attributes, and linked paths become anchors.
type HTML struct {
	ClassPrefix string
}

// Render writes node as HTML
func (h *HTML) Render(w io.Writer, node *segment.Node) error {
	_, err := io.WriteString(w, h.String(node))
	return err
}

// String renders node as HTML
func (h *HTML) String(node *segment.Node) string {
	var b strings.Builder
	h.write(&b, node)
	return b.String()
}

func (h *HTML) write(b *strings.Builder, node *segment.Node) {
	switch node.Kind {
	case segment.Text:
		b.Write(util.EscapeHTML([]byte(node.Text)))
		return
	case segment.Fragment:
		h.children(b, node)
		return
	case segment.Span:
		b.WriteString("<span>")
		h.children(b, node)
		b.WriteString("</span>")
		return
	}

	tag := "span"
	switch {
	case node.Kind == segment.Block, node.Kind == segment.BlockLine, node.Kind == segment.Spacer, node.Kind == segment.Verbatim:
		tag = "div"
	case node.Kind == segment.Inline:
		tag = "code"
	case node.Href != "":
		tag = "a"
	}

	b.WriteString("<" + tag + ` class="` + h.ClassPrefix + strings.ToLower(node.Kind.String()) + `"`)
	if node.Href != "" {
		b.WriteString(` href="`)
		b.Write(util.EscapeHTML([]byte(node.Href)))
		b.WriteString(`"`)
	}
	if node.Tooltip != "" {
		b.WriteString(` title="`)
		b.Write(util.EscapeHTML([]byte(node.Tooltip)))
		b.WriteString(`"`)
	}
	b.WriteString(">")

	if node.Kind == segment.Spacer && len(node.Children) == 0 {
		b.WriteString(" ")
	}
	if node.Kind == segment.Command {
		// commands separate their children with spaces, matching PlainText
		for i, child := range node.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			h.write(b, child)
		}
	} else {
		h.children(b, node)
	}

	b.WriteString("</" + tag + ">")
}

func (h *HTML) children(b *strings.Builder, node *segment.Node) {
	for _, child := range node.Children {
		h.write(b, child)
	}
}
