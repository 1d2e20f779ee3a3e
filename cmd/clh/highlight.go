package main

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/clh/pkgs/render"
	"github.com/aledsdavies/clh/pkgs/segment"
)

func newHighlightCmd(a *app) *cobra.Command {
	var (
		inline bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "highlight [file|-]",
		Short: "Highlight a block of command lines",
		Long: strings.TrimSpace(`
Highlight the command lines read from a file, or from stdin when the file is omitted or "-".
Every line is highlighted on its own; lines that cannot be parsed are printed as they are and
reported on stderr.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			return a.highlight(name, format, inline)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "treat the input as one inline snippet")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatANSI), "output format ("+strings.Join(render.Formats(), ", ")+")")
	return cmd
}

func (a *app) highlight(name, formatName string, inline bool) error {
	format, r, err := a.renderer(formatName)
	if err != nil {
		return err
	}
	input, err := a.readInput(name)
	if err != nil {
		return err
	}
	h, err := a.highlighter()
	if err != nil {
		return err
	}

	session := h.Session()
	var node *segment.Node
	if inline {
		var ok bool
		if node, ok = session.Inline(string(input)); !ok {
			node = segment.New(segment.Inline, segment.Leaf(segment.Verbatim, strings.TrimSpace(string(input))))
		}
	} else {
		node = session.Block(string(input))
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, node); err != nil {
		return err
	}
	if format != render.FormatCBOR && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	_, err = a.stdout.Write(buf.Bytes())
	return err
}
