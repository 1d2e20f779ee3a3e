// Package grammar holds the rich command grammar: the full command tree of one binary, with
// subcommand paths, named options and positional slots.
//
// A grammar is described in YAML, validated against an embedded JSON schema and built into a
// cobra command tree. cobra and pflag carry the command hierarchy and the option metadata; the
// positional slots, which cobra leaves to each command, are kept alongside. Commands in the tree
// are never executed. The tree exists to be matched against argument vectors (see Process) and
// introspected for descriptions and option help (see Definition).
package grammar

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

//go:embed yarn.yaml
var yarnGrammar []byte

// SlotKind describes how a positional slot consumes arguments
type SlotKind string

const (
	SlotRequired SlotKind = "required" // exactly one argument, must be present
	SlotOptional SlotKind = "optional" // at most one argument
	SlotVariadic SlotKind = "variadic" // every remaining argument
	SlotProxy    SlotKind = "proxy"    // every remaining argument, options included
)

// OptionType is the value shape of a named option
type OptionType string

const (
	OptionBool   OptionType = "bool"
	OptionString OptionType = "string"
	OptionArray  OptionType = "array"
	OptionCount  OptionType = "count"
)

// File is the YAML form of a grammar
type File struct {
	Version  string         `yaml:"version"`
	Binary   string         `yaml:"binary"`
	Default  string         `yaml:"default,omitempty"` // command used when no path matches
	Bare     string         `yaml:"bare,omitempty"`    // command used when there are no arguments
	Commands []*CommandSpec `yaml:"commands"`
}

// CommandSpec describes one command of the tree
type CommandSpec struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Aliases     []string         `yaml:"aliases,omitempty"`
	Hidden      bool             `yaml:"hidden,omitempty"`
	Namespace   bool             `yaml:"namespace,omitempty"` // groups subcommands, not runnable itself
	Positionals []PositionalSpec `yaml:"positionals,omitempty"`
	Options     []OptionSpec     `yaml:"options,omitempty"`
	Commands    []*CommandSpec   `yaml:"commands,omitempty"`

	// Path is the canonical path below the binary, filled in when the tree is built
	Path []string `yaml:"-"`
}

// PositionalSpec describes one positional slot
type PositionalSpec struct {
	Name string   `yaml:"name"`
	Kind SlotKind `yaml:"kind"`
}

// OptionSpec describes one named option
type OptionSpec struct {
	Name        string     `yaml:"name"`
	Short       string     `yaml:"short,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Type        OptionType `yaml:"type,omitempty"`
}

// Grammar is a built, immutable command tree. It is safe for concurrent use.
type Grammar struct {
	binary   string
	version  string
	root     *cobra.Command
	bare     *cobra.Command
	fallback *cobra.Command

	specs       map[*cobra.Command]*CommandSpec
	definitions map[*cobra.Command]Definition
}

// Default returns the built-in yarn grammar, built once per process
var Default = sync.OnceValues(func() (*Grammar, error) {
	return Parse(yarnGrammar)
})

// Load reads and builds a grammar file
func Load(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clherrors.NewGrammarError(fmt.Sprintf("cannot read grammar %s", path), err).
			WithContext("path", path)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, clherrors.NewGrammarError(fmt.Sprintf("invalid grammar %s", path), err).
			WithContext("path", path)
	}
	return g, nil
}

// Build creates the command tree for a decoded grammar file
func Build(file *File) (*Grammar, error) {
	g := &Grammar{
		binary:      file.Binary,
		version:     file.Version,
		specs:       make(map[*cobra.Command]*CommandSpec),
		definitions: make(map[*cobra.Command]Definition),
	}

	g.root = &cobra.Command{
		Use:               file.Binary,
		Version:           file.Version,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	for _, spec := range file.Commands {
		if err := g.add(g.root, spec, nil); err != nil {
			return nil, err
		}
	}

	var err error
	if g.fallback, err = g.topLevel(file.Default, "default"); err != nil {
		return nil, err
	}
	if g.bare, err = g.topLevel(file.Bare, "bare"); err != nil {
		return nil, err
	}

	// cobra sorts children lazily on first access; do it now so lookups never write
	sortTree(g.root)
	return g, nil
}

func sortTree(cmd *cobra.Command) {
	for _, child := range cmd.Commands() {
		sortTree(child)
	}
}

func (g *Grammar) topLevel(name, field string) (*cobra.Command, error) {
	if name == "" {
		return nil, nil
	}
	cmd := g.child(g.root, name)
	if cmd == nil || !cmd.Runnable() {
		return nil, clherrors.Newf(clherrors.ErrGrammar, "%s command %q is not a runnable top-level command", field, name)
	}
	return cmd, nil
}

func (g *Grammar) add(parent *cobra.Command, spec *CommandSpec, path []string) error {
	spec.Path = append(slices.Clone(path), spec.Name)
	if g.child(parent, spec.Name) != nil {
		return clherrors.Newf(clherrors.ErrGrammar, "duplicate command %q", strings.Join(spec.Path, " "))
	}
	if err := checkPositionals(spec); err != nil {
		return err
	}

	cmd := &cobra.Command{
		Use:     spec.use(),
		Short:   spec.Description,
		Aliases: spec.Aliases,
		Hidden:  spec.Hidden,
	}
	if !spec.Namespace {
		cmd.RunE = notExecutable
	}

	// Keep options in declaration order
	cmd.Flags().SortFlags = false
	if err := addOptions(cmd.Flags(), spec); err != nil {
		return err
	}
	cmd.InitDefaultHelpFlag()

	parent.AddCommand(cmd)
	g.specs[cmd] = spec
	g.definitions[cmd] = define(spec, cmd.Flags())

	for _, child := range spec.Commands {
		if err := g.add(cmd, child, spec.Path); err != nil {
			return err
		}
	}
	return nil
}

func addOptions(fs *pflag.FlagSet, spec *CommandSpec) error {
	for _, opt := range spec.Options {
		if fs.Lookup(opt.Name) != nil {
			return clherrors.Newf(clherrors.ErrGrammar, "duplicate option --%s on %q", opt.Name, strings.Join(spec.Path, " "))
		}
		if opt.Short != "" && fs.ShorthandLookup(opt.Short) != nil {
			return clherrors.Newf(clherrors.ErrGrammar, "duplicate option -%s on %q", opt.Short, strings.Join(spec.Path, " "))
		}

		switch opt.Type {
		case OptionBool, "":
			fs.BoolP(opt.Name, opt.Short, false, opt.Description)
		case OptionString:
			fs.StringP(opt.Name, opt.Short, "", opt.Description)
		case OptionArray:
			fs.StringArrayP(opt.Name, opt.Short, nil, opt.Description)
		case OptionCount:
			fs.CountP(opt.Name, opt.Short, opt.Description)
		default:
			return clherrors.Newf(clherrors.ErrGrammar, "option --%s has unknown type %q", opt.Name, opt.Type)
		}
	}
	return nil
}

// checkPositionals enforces slot order: required, then optional, then one variadic or proxy
func checkPositionals(spec *CommandSpec) error {
	rank := map[SlotKind]int{SlotRequired: 0, SlotOptional: 1, SlotVariadic: 2, SlotProxy: 2}
	prev := 0
	for i, slot := range spec.Positionals {
		r, ok := rank[slot.Kind]
		if !ok {
			return clherrors.Newf(clherrors.ErrGrammar, "positional %q has unknown kind %q", slot.Name, slot.Kind)
		}
		if r < prev || (r == 2 && i != len(spec.Positionals)-1) {
			return clherrors.Newf(clherrors.ErrGrammar, "positional %q of %q is out of order", slot.Name, strings.Join(spec.Path, " "))
		}
		prev = r
	}
	return nil
}

func (s *CommandSpec) use() string {
	parts := []string{s.Name}
	for _, slot := range s.Positionals {
		switch slot.Kind {
		case SlotRequired:
			parts = append(parts, "<"+slot.Name+">")
		case SlotOptional:
			parts = append(parts, "["+slot.Name+"]")
		default:
			parts = append(parts, "["+slot.Name+"...]")
		}
	}
	return strings.Join(parts, " ")
}

func notExecutable(cmd *cobra.Command, _ []string) error {
	return clherrors.Newf(clherrors.ErrGrammar, "%s is a grammar entry and cannot be executed", cmd.CommandPath())
}

// child finds a declared subcommand by name or alias
func (g *Grammar) child(parent *cobra.Command, name string) *cobra.Command {
	for _, child := range parent.Commands() {
		if _, ok := g.specs[child]; !ok {
			continue
		}
		if child.Name() == name || child.HasAlias(name) {
			return child
		}
	}
	return nil
}

// Binary returns the binary name the grammar describes
func (g *Grammar) Binary() string {
	return g.binary
}

// Version returns the grammar's declared version
func (g *Grammar) Version() string {
	return g.version
}

// Root returns the root of the command tree
func (g *Grammar) Root() *cobra.Command {
	return g.root
}

// Spec returns the declaration a command was built from
func (g *Grammar) Spec(cmd *cobra.Command) (*CommandSpec, bool) {
	spec, ok := g.specs[cmd]
	return spec, ok
}

// Find returns the command at a canonical path
func (g *Grammar) Find(path []string) (*cobra.Command, bool) {
	cmd := g.root
	for _, name := range path {
		if cmd = g.child(cmd, name); cmd == nil {
			return nil, false
		}
	}
	return cmd, cmd != g.root
}

// Commands returns every runnable command, depth first with siblings sorted by name
func (g *Grammar) Commands() []*cobra.Command {
	var out []*cobra.Command
	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, child := range cmd.Commands() {
			if _, ok := g.specs[child]; !ok {
				continue
			}
			if child.Runnable() {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(g.root)
	return out
}
