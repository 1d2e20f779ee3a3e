// Package config loads clh settings: defaults, overridden by a YAML file, overridden by
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/highlight"
	"github.com/aledsdavies/clh/pkgs/render"
	"github.com/aledsdavies/clh/pkgs/resolve"
)

// EnvPath names the environment variable holding the config file path
const EnvPath = "CLH_CONFIG"

// DefaultPath is looked up in the working directory when no path is given
const DefaultPath = ".clh.yaml"

// Config holds every setting
type Config struct {
	// Namespace is the MDX component namespace
	Namespace string `yaml:"namespace,omitempty"`
	// Import is the module the component namespace is imported from
	Import string `yaml:"import,omitempty"`
	// Language marks fenced blocks to highlight, as the info string or one of its words
	Language string `yaml:"language,omitempty"`
	// Directive is the name of the text directive that forces inline highlighting
	Directive string `yaml:"directive,omitempty"`
	// HrefPrefix is prepended to command paths to link reference pages
	HrefPrefix string `yaml:"hrefPrefix,omitempty"`
	// Grammar is a grammar file replacing the built-in yarn grammar
	Grammar string `yaml:"grammar,omitempty"`
	// Binaries maps other recognized binaries to their subcommand paths
	Binaries map[string][]string `yaml:"binaries,omitempty"`
}

// Defaults returns the built-in settings
func Defaults() Config {
	binaries := make(map[string][]string, len(resolve.DefaultBinaries))
	for name, paths := range resolve.DefaultBinaries {
		binaries[name] = slices.Clone(paths)
	}
	return Config{
		Namespace:  render.DefaultNamespace,
		Import:     render.DefaultImportSource,
		Language:   "commandline",
		Directive:  "commandline",
		HrefPrefix: highlight.DefaultHrefPrefix,
		Binaries:   binaries,
	}
}

// Parse decodes YAML settings, rejecting unknown fields
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, clherrors.NewConfigError("invalid config", err)
	}
	return cfg, nil
}

// Load reads a YAML config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, clherrors.NewConfigError("cannot read config", err).WithContext("path", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, clherrors.NewConfigError("cannot load "+path, err).WithContext("path", path)
	}
	return cfg, nil
}

// Find returns the config file to use: the explicit path, then $CLH_CONFIG, then DefaultPath
// when it exists. An empty result means defaults only.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// Resolve loads the config named by Find and merges it over the defaults
func Resolve(explicit string) (Config, error) {
	cfg := Defaults()
	path := Find(explicit)
	if path == "" {
		return cfg, nil
	}
	file, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	return Merge(cfg, file), nil
}

// Merge overlays over onto base. Empty strings do not override; a binaries map replaces the
// entries it names.
func Merge(base, over Config) Config {
	out := base
	if over.Namespace != "" {
		out.Namespace = over.Namespace
	}
	if over.Import != "" {
		out.Import = over.Import
	}
	if over.Language != "" {
		out.Language = over.Language
	}
	if over.Directive != "" {
		out.Directive = over.Directive
	}
	if over.HrefPrefix != "" {
		out.HrefPrefix = over.HrefPrefix
	}
	if over.Grammar != "" {
		out.Grammar = over.Grammar
	}
	if len(over.Binaries) > 0 {
		out.Binaries = maps.Clone(base.Binaries)
		if out.Binaries == nil {
			out.Binaries = make(map[string][]string, len(over.Binaries))
		}
		for name, paths := range over.Binaries {
			out.Binaries[name] = slices.Clone(paths)
		}
	}
	return out
}
