package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

const tinyGrammar = `
version: "1.2.0"
binary: tool
default: run
commands:
  - name: run
    description: run a task
    positionals:
      - {name: task, kind: required}
      - {name: args, kind: proxy}
  - name: cache
    namespace: true
    commands:
      - name: clean
        description: remove cached files
        options:
          - {name: all, short: a, description: "Remove everything"}
          - {name: older-than, type: string}
`

func TestDefaultGrammar(t *testing.T) {
	g := yarn(t)
	assert.Equal(t, "yarn", g.Binary())
	assert.Equal(t, "4.5.0", g.Version())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, g, again, "default grammar is built once")

	cmd, ok := g.Find([]string{"workspaces", "foreach"})
	require.True(t, ok)
	assert.Equal(t, "foreach", cmd.Name())

	_, ok = g.Find([]string{"workspaces", "nope"})
	assert.False(t, ok)
	_, ok = g.Find(nil)
	assert.False(t, ok)
}

func TestCommands(t *testing.T) {
	g, err := Parse([]byte(tinyGrammar))
	require.NoError(t, err)

	var paths []string
	for _, cmd := range g.Commands() {
		spec, ok := g.Spec(cmd)
		require.True(t, ok)
		paths = append(paths, strings.Join(spec.Path, " "))
	}
	assert.Equal(t, []string{"cache clean", "run"}, paths)
}

func TestDefinition(t *testing.T) {
	g := yarn(t)

	m, err := g.Process([]string{"add", "-D", "typescript"}, true)
	require.NoError(t, err)

	def := g.Definition(m.Command)
	assert.Equal(t, "add dependencies to the project", def.Description)
	assert.Equal(t, []string{"add"}, def.Path)

	dev, ok := def.Option("--dev")
	require.True(t, ok)
	assert.Equal(t, "-D", dev.Short)
	assert.Equal(t, "Add a package as a dev dependency", dev.Description)

	_, ok = def.Option("--help")
	assert.True(t, ok, "help flag is part of every command")

	_, ok = def.Option("-D")
	assert.False(t, ok, "lookup is by preferred name")

	// declaration order
	require.NotEmpty(t, def.Options)
	assert.Equal(t, "--json", def.Options[0].PreferredName)
}

func TestDefinitionWithoutDescription(t *testing.T) {
	g, err := Parse([]byte(tinyGrammar))
	require.NoError(t, err)

	m, err := g.Process([]string{"cache", "clean", "--older-than", "2d"}, false)
	require.NoError(t, err)

	def := g.Definition(m.Command)
	opt, ok := def.Option("--older-than")
	require.True(t, ok)
	assert.Empty(t, opt.Description)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		want    string
	}{
		{
			name:    "missing version",
			grammar: "binary: tool\ncommands: [{name: run}]\n",
			want:    "schema",
		},
		{
			name:    "invalid version",
			grammar: "version: four\nbinary: tool\ncommands: [{name: run}]\n",
			want:    "schema",
		},
		{
			name:    "unknown field",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, summary: x}]\n",
			want:    "schema",
		},
		{
			name:    "unknown slot kind",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, positionals: [{name: a, kind: many}]}]\n",
			want:    "schema",
		},
		{
			name:    "namespace without commands",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, namespace: true}]\n",
			want:    "schema",
		},
		{
			name:    "slots out of order",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, positionals: [{name: a, kind: variadic}, {name: b, kind: required}]}]\n",
			want:    "out of order",
		},
		{
			name:    "duplicate option",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, options: [{name: all}, {name: all}]}]\n",
			want:    "duplicate option --all",
		},
		{
			name:    "duplicate short option",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run, options: [{name: all, short: a}, {name: any, short: a}]}]\n",
			want:    "duplicate option -a",
		},
		{
			name:    "duplicate command",
			grammar: "version: 1.0.0\nbinary: tool\ncommands: [{name: run}, {name: run}]\n",
			want:    "duplicate command",
		},
		{
			name:    "default is a namespace",
			grammar: "version: 1.0.0\nbinary: tool\ndefault: ns\ncommands: [{name: ns, namespace: true, commands: [{name: x}]}]\n",
			want:    "not a runnable top-level command",
		},
		{
			name:    "not yaml",
			grammar: "version: [",
			want:    "cannot decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse([]byte(tt.grammar))
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, clherrors.IsErrorType(err, clherrors.ErrGrammar), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIsSemver(t *testing.T) {
	assert.True(t, isSemver("1.2.3"))
	assert.True(t, isSemver("v1.2.3"))
	assert.True(t, isSemver("4.0.0-rc.1"))
	assert.False(t, isSemver("four"))
	assert.True(t, isSemver(42), "non-strings are left to type validation")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tool.yaml")
	require.NoError(t, os.WriteFile(file, []byte(tinyGrammar), 0o644))

	g, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "tool", g.Binary())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, clherrors.IsErrorType(err, clherrors.ErrGrammar))
}

func TestSuggest(t *testing.T) {
	g := yarn(t)

	got := g.Suggest("instal", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "install", got[0])

	assert.Contains(t, g.Suggest("isntall", 3), "install")
	assert.Contains(t, g.Suggest("foreach", 3), "workspaces foreach")
	assert.LessOrEqual(t, len(g.Suggest("a", 2)), 2)
	assert.Empty(t, g.Suggest("  ", 3))
	assert.Empty(t, g.Suggest("zzzzzzzzzz", 3))
}

func TestGenerateDocs(t *testing.T) {
	g, err := Parse(yarnGrammar)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "cli")
	require.NoError(t, g.GenerateDocs(dir))

	page, err := os.ReadFile(filepath.Join(dir, "yarn_add.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "add dependencies to the project")
	assert.Contains(t, string(page), "--dev")

	_, err = os.Stat(filepath.Join(dir, "yarn_workspaces_foreach.md"))
	assert.NoError(t, err)

	// the help command cobra adds while generating is not part of the grammar
	m, err := g.Process([]string{"help"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, m.Path)
}
