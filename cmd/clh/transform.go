package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/clh/pkgs/document"
	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/render"
	"github.com/aledsdavies/clh/pkgs/watch"
)

func newTransformCmd(a *app) *cobra.Command {
	var (
		write   bool
		watched bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "transform [file...]",
		Short: "Highlight the command lines of markdown documents",
		Long: strings.TrimSpace(`
Replace command-line snippets in markdown documents with highlighted components: fenced blocks
marked with the configured language, inline code starting with a known binary, and snippets
wrapped in the configured text directive. The component import is added once per document.

Without --write the result is printed to stdout; stdin is read when no file is given.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = []string{"-"}
			}
			if len(files) > 1 && !write {
				return &CLIError{Type: "usage", Message: "several files need --write", Hint: "Pass --write to update the files in place"}
			}
			if watched && slices.Contains(files, "-") {
				return &CLIError{Type: "usage", Message: "cannot watch stdin", Hint: "Name the files to watch"}
			}

			t, err := a.transformer(format)
			if err != nil {
				return err
			}
			for _, file := range files {
				if err := a.transformFile(t, file, write); err != nil {
					return err
				}
			}
			if !watched {
				return nil
			}
			return a.watch(cmd.Context(), t, files, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write results back to the files")
	cmd.Flags().BoolVar(&watched, "watch", false, "transform again whenever a file changes")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatMDX), "snippet format ("+strings.Join(render.Formats(), ", ")+")")
	return cmd
}

func (a *app) transformFile(t *document.Transformer, name string, write bool) error {
	input, err := a.readInput(name)
	if err != nil {
		return err
	}
	result, err := t.Transform(input)
	if err != nil {
		return err
	}
	for _, finding := range result.Findings {
		_, _ = fmt.Fprintf(a.stderr, "%s:%s\n", name, finding)
	}

	if !write || name == "-" {
		_, err = a.stdout.Write(result.Output)
		return err
	}
	if bytes.Equal(result.Output, input) {
		return nil
	}
	info, err := os.Stat(name)
	if err != nil {
		return clherrors.NewInputError("cannot stat "+name, err)
	}
	if err := os.WriteFile(name, result.Output, info.Mode().Perm()); err != nil {
		return clherrors.NewInputError("cannot write "+name, err)
	}
	a.logger.Debug("document transformed", "path", name, "replacements", result.Replacements)
	return nil
}

// watch transforms files again as they change. Failures are reported and watching continues.
func (a *app) watch(ctx context.Context, t *document.Transformer, files []string, write bool) error {
	useColor := ShouldUseColor(a.stderr, a.noColor)
	_, _ = fmt.Fprintf(a.stderr, "%s %d file(s), press Ctrl+C to stop\n", Colorize("Watching", ColorCyan, useColor), len(files))

	w := watch.New(watch.WithLogger(a.logger))
	return w.Run(ctx, files, func(changed []string) error {
		for _, file := range changed {
			if err := a.transformFile(t, file, write); err != nil {
				FormatError(a.stderr, err, useColor)
			}
		}
		return nil
	})
}
