package grammar

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Definition is the human-readable metadata of a command
type Definition struct {
	Description string
	Path        []string
	Options     []OptionDefinition
}

// OptionDefinition describes one option of a command
type OptionDefinition struct {
	PreferredName string // --name
	Short         string // -n, if any
	Description   string
}

// Definition returns the metadata of a command in the tree
func (g *Grammar) Definition(cmd *cobra.Command) Definition {
	return g.definitions[cmd]
}

// define collects a command's metadata; called while the tree is built
func define(spec *CommandSpec, fs *pflag.FlagSet) Definition {
	def := Definition{Description: spec.Description, Path: spec.Path}
	fs.VisitAll(func(flag *pflag.Flag) {
		opt := OptionDefinition{PreferredName: "--" + flag.Name, Description: flag.Usage}
		if flag.Shorthand != "" {
			opt.Short = "-" + flag.Shorthand
		}
		def.Options = append(def.Options, opt)
	})
	return def
}

// Option finds an option by its preferred name
func (d Definition) Option(preferredName string) (OptionDefinition, bool) {
	for _, opt := range d.Options {
		if opt.PreferredName == preferredName {
			return opt, true
		}
	}
	return OptionDefinition{}, false
}
