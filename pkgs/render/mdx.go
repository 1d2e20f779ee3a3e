package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/clh/pkgs/segment"
)

// DefaultNamespace is the component namespace MDX output refers to
const DefaultNamespace = "CommandLineHighlight"

// DefaultImportSource is where the component library is imported from
const DefaultImportSource = "@site/src/components/CommandLineHighlight2.tsx"

// ImportStatement returns the ESM import that brings the component namespace into scope
func ImportStatement(namespace, source string) string {
	return fmt.Sprintf("import * as %s from '%s';", namespace, source)
}

// MDX writes a tree as JSX elements of a component namespace. Text is emitted as JavaScript
// string expressions so that no character in a command line can break out of the markup.
type MDX struct {
	Namespace string
}

// Render writes node as MDX
func (m *MDX) Render(w io.Writer, node *segment.Node) error {
	var b strings.Builder
	if err := m.write(&b, node); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String renders node as MDX
func (m *MDX) String(node *segment.Node) (string, error) {
	var b strings.Builder
	err := m.write(&b, node)
	return b.String(), err
}

func (m *MDX) write(b *strings.Builder, node *segment.Node) error {
	if node.Kind == segment.Text {
		return writeExpression(b, node.Text)
	}

	name := m.element(node.Kind)
	b.WriteString("<" + name)
	for _, attr := range [...]struct{ key, value string }{{"tooltip", node.Tooltip}, {"href", node.Href}} {
		if attr.value == "" {
			continue
		}
		b.WriteString(" " + attr.key + "=")
		if err := writeExpression(b, attr.value); err != nil {
			return err
		}
	}
	b.WriteString(">")

	if node.Kind == segment.Spacer && len(node.Children) == 0 {
		b.WriteString(`{" "}`)
	}
	for _, child := range node.Children {
		if err := m.write(b, child); err != nil {
			return err
		}
	}

	b.WriteString("</" + name + ">")
	return nil
}

func (m *MDX) element(kind segment.Kind) string {
	switch kind {
	case segment.Fragment:
		return ""
	case segment.Span:
		return "span"
	case segment.Spacer, segment.Verbatim:
		return "div"
	default:
		return m.Namespace + "." + kind.String()
	}
}

// writeExpression writes text as a {"..."} JSX expression
func writeExpression(b *strings.Builder, text string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		return err
	}
	b.WriteString("{")
	b.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	b.WriteString("}")
	return nil
}
