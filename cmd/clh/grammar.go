package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/clh/pkgs/grammar"
)

func newGrammarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the rich command grammar",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the commands of the grammar",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.grammarList()
			},
		},
		&cobra.Command{
			Use:   "describe <command>...",
			Short: "Show the options and arguments of a command",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.grammarDescribe(args)
			},
		},
		&cobra.Command{
			Use:   "docs <directory>",
			Short: "Write a Markdown reference page per grammar command",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				g, err := a.loadGrammar()
				if err != nil {
					return err
				}
				if err := g.GenerateDocs(args[0]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "wrote %s reference to %s\n", g.Binary(), args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "validate <file>",
			Short: "Check a grammar file against the grammar schema",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := a.readInput(args[0])
				if err != nil {
					return err
				}
				g, err := grammar.Parse(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "%s: %s %s, %d commands\n", args[0], g.Binary(), g.Version(), len(g.Commands()))
				return err
			},
		},
	)
	return cmd
}

func (a *app) grammarList() error {
	g, err := a.loadGrammar()
	if err != nil {
		return err
	}
	useColor := ShouldUseColor(a.stdout, a.noColor)

	commands := g.Commands()
	paths := make([]string, len(commands))
	width := 0
	for i, cmd := range commands {
		paths[i] = strings.Join(g.Definition(cmd).Path, " ")
		width = max(width, len(paths[i]))
	}
	for i, cmd := range commands {
		if cmd.Hidden {
			continue
		}
		_, _ = fmt.Fprintf(a.stdout, "  %s  %s\n",
			Colorize(fmt.Sprintf("%-*s", width, paths[i]), ColorCyan, useColor), g.Definition(cmd).Description)
	}
	return nil
}

func (a *app) grammarDescribe(path []string) error {
	g, err := a.loadGrammar()
	if err != nil {
		return err
	}
	cmd, ok := g.Find(path)
	if !ok {
		e := &CLIError{Type: "grammar", Message: fmt.Sprintf("%s has no command %q", g.Binary(), strings.Join(path, " "))}
		if names := suggest(g, path); len(names) > 0 {
			e.Hint = "Did you mean " + strings.Join(names, ", ") + "?"
		}
		return e
	}

	useColor := ShouldUseColor(a.stdout, a.noColor)
	def := g.Definition(cmd)
	_, _ = fmt.Fprintf(a.stdout, "%s\n\n", Colorize(cmd.UseLine(), ColorCyan, useColor))
	if def.Description != "" {
		_, _ = fmt.Fprintf(a.stdout, "%s\n\n", def.Description)
	}
	if len(cmd.Aliases) > 0 {
		_, _ = fmt.Fprintf(a.stdout, "Aliases: %s\n\n", strings.Join(cmd.Aliases, ", "))
	}
	if spec, ok := g.Spec(cmd); ok && len(spec.Positionals) > 0 {
		_, _ = fmt.Fprintln(a.stdout, "Arguments:")
		for _, slot := range spec.Positionals {
			_, _ = fmt.Fprintf(a.stdout, "  %-20s %s\n", slot.Name, slot.Kind)
		}
		_, _ = fmt.Fprintln(a.stdout)
	}
	if len(def.Options) > 0 {
		_, _ = fmt.Fprintln(a.stdout, "Options:")
		for _, opt := range def.Options {
			names := opt.PreferredName
			if opt.Short != "" {
				names = opt.Short + ", " + names
			}
			_, _ = fmt.Fprintf(a.stdout, "  %-24s %s\n", names, opt.Description)
		}
	}
	return nil
}
