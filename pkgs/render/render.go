// Package render writes annotated segment trees in the formats documentation tooling consumes:
// MDX elements for a component library, plain HTML, terminal colours, and the tree itself as
// JSON or CBOR.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aledsdavies/clh/pkgs/segment"
)

// Format names an output format
type Format string

const (
	FormatMDX  Format = "mdx"
	FormatHTML Format = "html"
	FormatANSI Format = "ansi"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
	FormatText Format = "text"
)

var formats = map[Format]bool{
	FormatMDX: true, FormatHTML: true, FormatANSI: true,
	FormatJSON: true, FormatCBOR: true, FormatText: true,
}

// Formats returns the supported format names, sorted
func Formats() []string {
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if !formats[f] {
		return "", fmt.Errorf("unknown format %q (expected one of %s)", name, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Options tunes the renderers
type Options struct {
	Namespace   string // MDX component namespace
	ClassPrefix string // HTML class prefix
	Color       bool   // ANSI output uses colours
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{Namespace: DefaultNamespace, ClassPrefix: DefaultClassPrefix, Color: true}
}

// Renderer writes a tree to w
type Renderer interface {
	Render(w io.Writer, node *segment.Node) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(w io.Writer, node *segment.Node) error

func (f RendererFunc) Render(w io.Writer, node *segment.Node) error {
	return f(w, node)
}

// New returns the renderer for a format
func New(format Format, opts Options) (Renderer, error) {
	switch format {
	case FormatMDX:
		return &MDX{Namespace: opts.Namespace}, nil
	case FormatHTML:
		return &HTML{ClassPrefix: opts.ClassPrefix}, nil
	case FormatANSI:
		return &ANSI{Color: opts.Color}, nil
	case FormatJSON:
		return RendererFunc(writeJSON), nil
	case FormatCBOR:
		return RendererFunc(writeCBOR), nil
	case FormatText:
		return RendererFunc(writeText), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, node *segment.Node) error {
	data, err := node.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeCBOR(w io.Writer, node *segment.Node) error {
	data, err := node.MarshalCBOR()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeText(w io.Writer, node *segment.Node) error {
	_, err := io.WriteString(w, node.PlainText()+"\n")
	return err
}
