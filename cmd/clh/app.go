package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/clh/pkgs/config"
	"github.com/aledsdavies/clh/pkgs/document"
	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/grammar"
	"github.com/aledsdavies/clh/pkgs/highlight"
	"github.com/aledsdavies/clh/pkgs/render"
)

const rootLongDesc = `
clh highlights shell command lines in documentation. It parses each line with a real shell
grammar, recognises yarn subcommands, options and positionals from a declarative grammar, and
renders the result as MDX components, HTML, JSON, CBOR or coloured terminal output.
`

// app holds the state shared by every subcommand
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	grammarPath string
	debug       bool
	noColor     bool

	cfg     config.Config
	logger  *slog.Logger
	grammar *grammar.Grammar
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clh",
		Short:         "Highlight command lines in documentation",
		Long:          strings.TrimSpace(rootLongDesc),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	flags.StringVar(&a.grammarPath, "grammar", "", "grammar file replacing the built-in yarn grammar")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging (or set CLH_DEBUG)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output (or set NO_COLOR)")

	cmd.AddCommand(newHighlightCmd(a))
	cmd.AddCommand(newTransformCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newGrammarCmd(a))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

// setup configures logging and loads the config before any subcommand runs
func (a *app) setup() error {
	a.logger = newLogger(a.stderr, a.debug || os.Getenv("CLH_DEBUG") != "")

	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = config.Merge(cfg, config.Config{Grammar: a.grammarPath})
	a.logger.Debug("config loaded", "path", config.Find(a.configPath), "grammar", a.cfg.Grammar)
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey || attr.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return attr
		},
	}))
}

// loadGrammar returns the configured grammar, loading it on first use
func (a *app) loadGrammar() (*grammar.Grammar, error) {
	if a.grammar != nil {
		return a.grammar, nil
	}
	var (
		g   *grammar.Grammar
		err error
	)
	if a.cfg.Grammar != "" {
		g, err = grammar.Load(a.cfg.Grammar)
	} else {
		g, err = grammar.Default()
	}
	if err != nil {
		return nil, err
	}
	a.grammar = g
	return g, nil
}

func (a *app) highlighter() (*highlight.Highlighter, error) {
	g, err := a.loadGrammar()
	if err != nil {
		return nil, err
	}
	return highlight.New(
		highlight.WithLogger(a.logger),
		highlight.WithGrammar(g),
		highlight.WithBinaries(a.cfg.Binaries),
		highlight.WithHrefPrefix(a.cfg.HrefPrefix),
	)
}

func (a *app) renderOptions() render.Options {
	return render.Options{
		Namespace:   a.cfg.Namespace,
		ClassPrefix: render.DefaultClassPrefix,
		Color:       ShouldUseColor(a.stdout, a.noColor),
	}
}

func (a *app) renderer(name string) (render.Format, render.Renderer, error) {
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", nil, &CLIError{
			Type:    "usage",
			Message: err.Error(),
			Hint:    "Pass --format with one of: " + strings.Join(render.Formats(), ", "),
		}
	}
	r, err := render.New(format, a.renderOptions())
	return format, r, err
}

func (a *app) transformer(formatName string) (*document.Transformer, error) {
	h, err := a.highlighter()
	if err != nil {
		return nil, err
	}
	format, r, err := a.renderer(formatName)
	if err != nil {
		return nil, err
	}
	imports := a.cfg.Import
	if format != render.FormatMDX {
		imports = ""
	}
	return document.New(h,
		document.WithLanguage(a.cfg.Language),
		document.WithDirective(a.cfg.Directive),
		document.WithRenderer(r),
		document.WithImport(a.cfg.Namespace, imports),
		document.WithLogger(a.logger),
	), nil
}

// readInput reads a file, or stdin for "-"
func (a *app) readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, clherrors.NewInputError("cannot read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, clherrors.NewInputError("cannot read "+name, err).WithContext("path", name)
	}
	return data, nil
}
