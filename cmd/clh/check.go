package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/grammar"
	"github.com/aledsdavies/clh/pkgs/highlight"
)

// suggestionLimit caps the "did you mean" list
const suggestionLimit = 3

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report command lines that cannot be highlighted",
		Long: strings.TrimSpace(`
Check markdown documents without changing them. Lines that cannot be parsed are warnings;
rich commands that do not match the grammar are reported with suggestions and only fail the
check with --strict.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = []string{"-"}
			}
			return a.check(files, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unresolved commands too")
	return cmd
}

func (a *app) check(files []string, strict bool) error {
	t, err := a.transformer("mdx")
	if err != nil {
		return err
	}
	g, err := a.loadGrammar()
	if err != nil {
		return err
	}
	useColor := ShouldUseColor(a.stdout, a.noColor)

	problems := 0
	for _, file := range files {
		input, err := a.readInput(file)
		if err != nil {
			return err
		}
		result, err := t.Transform(input)
		if err != nil {
			return err
		}

		for _, finding := range result.Findings {
			color := ColorYellow
			if finding.Severity == highlight.SeverityInfo {
				color = ColorCyan
			}
			_, _ = fmt.Fprintf(a.stdout, "%s:%d: %s: %s\n", file, finding.DocLine,
				Colorize(finding.Severity.String(), color, useColor), finding.Message)

			if finding.Type == clherrors.ErrCommandResolution {
				if names := suggest(g, finding.Args); len(names) > 0 {
					_, _ = fmt.Fprintf(a.stdout, "    did you mean: %s\n", strings.Join(names, ", "))
				}
			}
			if finding.Severity == highlight.SeverityWarning || strict {
				problems++
			}
		}
	}

	if problems > 0 {
		return &CLIError{
			Type:    "check",
			Message: fmt.Sprintf("%d problem(s) found", problems),
			Hint:    "Fix the reported lines or move them out of command-line blocks",
		}
	}
	_, _ = fmt.Fprintf(a.stdout, "%s %d file(s) checked\n", Colorize("ok:", ColorGreen, useColor), len(files))
	return nil
}

// suggest looks for commands close to the leading words of an unresolved command, dropping
// trailing words until something matches
func suggest(g *grammar.Grammar, args []string) []string {
	var words []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			break
		}
		words = append(words, arg)
	}
	for n := len(words); n > 0; n-- {
		if found := g.Suggest(strings.Join(words[:n], " "), suggestionLimit); len(found) > 0 {
			for i, path := range found {
				found[i] = g.Binary() + " " + path
			}
			return found
		}
	}
	return nil
}
