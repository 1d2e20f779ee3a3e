package parser

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/clh/pkgs/ast"
	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ast.Line
	}{
		{
			name:  "simple command",
			input: `yarn add lodash`,
			want:  ast.NewLine(ast.NewChain(ast.Words("yarn", "add", "lodash"))),
		},
		{
			name:  "empty line",
			input: ``,
			want:  ast.NewLine(),
		},
		{
			name:  "logical and",
			input: `yarn install && yarn build`,
			want: ast.NewLine(ast.NewChain(
				ast.Words("yarn", "install"),
				ast.Then(ast.JoinAnd, ast.Words("yarn", "build")),
			)),
		},
		{
			name:  "pipe binds tighter than or",
			input: `yarn info react --json | jq .version || echo missing`,
			want: ast.NewLine(ast.NewChain(
				ast.Words("yarn", "info", "react", "--json"),
				ast.Then(ast.JoinPipe, ast.Words("jq", ".version")),
				ast.Then(ast.JoinOr, ast.Words("echo", "missing")),
			)),
		},
		{
			name:  "and followed by pipe",
			input: `yarn build && cat out.txt | wc -l`,
			want: ast.NewLine(ast.NewChain(
				ast.Words("yarn", "build"),
				ast.Then(ast.JoinAnd, ast.Words("cat", "out.txt")),
				ast.Then(ast.JoinPipe, ast.Words("wc", "-l")),
			)),
		},
		{
			name:  "pipe all",
			input: `yarn test |& tee log`,
			want: ast.NewLine(ast.NewChain(
				ast.Words("yarn", "test"),
				ast.Then(ast.JoinPipeAll, ast.Words("tee", "log")),
			)),
		},
		{
			name:  "sequence",
			input: `yarn build; yarn test`,
			want: ast.NewLine(
				ast.NewChain(ast.Words("yarn", "build")),
				ast.NewChain(ast.Words("yarn", "test")),
			),
		},
		{
			name:  "background",
			input: `yarn start & yarn watch`,
			want: ast.NewLine(
				ast.NewChain(ast.Words("yarn", "start")).Background(),
				ast.NewChain(ast.Words("yarn", "watch")),
			),
		},
		{
			name:  "trailing background",
			input: `yarn start &`,
			want:  ast.NewLine(ast.NewChain(ast.Words("yarn", "start")).Background()),
		},
		{
			name:  "environment prefix",
			input: `NODE_ENV=production DEBUG= yarn build`,
			want: ast.NewLine(ast.NewChain(
				ast.Words("yarn", "build").WithEnv(
					ast.Env("NODE_ENV", "production"),
					&ast.EnvAssign{Name: "DEBUG"},
				),
			)),
		},
		{
			name:  "command substitution",
			input: `yarn node --inspect $(yarn bin jest)`,
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("yarn"), ast.Lit("node"), ast.Lit("--inspect"),
				ast.Word(ast.Subst("yarn bin jest", ast.NewLine(ast.NewChain(ast.Words("yarn", "bin", "jest"))))),
			))),
		},
		{
			name:  "quoted command substitution",
			input: `cd "$(yarn workspace app exec pwd)"`,
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("cd"),
				ast.Word(ast.Subst("yarn workspace app exec pwd", ast.NewLine(ast.NewChain(
					ast.Words("yarn", "workspace", "app", "exec", "pwd"),
				))).InQuotes()),
			))),
		},
		{
			name:  "backquote substitution",
			input: "echo `yarn bin`",
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("echo"),
				ast.Word(&ast.Segment{
					Type:      ast.SegmentShell,
					Text:      "yarn bin",
					Shell:     ast.NewLine(ast.NewChain(ast.Words("yarn", "bin"))),
					Backquote: true,
				}),
			))),
		},
		{
			name:  "quoting",
			input: `echo 'single quoted' "double $HOME" ""`,
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("echo"),
				ast.Lit("'single quoted'"),
				ast.Word(ast.Quoted("double "), ast.Quoted("$HOME")),
				ast.Lit(`""`),
			))),
		},
		{
			name:  "adjacent double quotes",
			input: `yarn add "a""b"`,
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("yarn"), ast.Lit("add"),
				ast.Word(ast.Quoted("a"), ast.Quoted("b").Reopened()),
			))),
		},
		{
			name:  "mixed word",
			input: `yarn config set npmRegistryServer=https://$HOST/`,
			want: ast.NewLine(ast.NewChain(ast.Cmd(
				ast.Lit("yarn"), ast.Lit("config"), ast.Lit("set"),
				ast.Word(ast.Text("npmRegistryServer=https://"), ast.Text("$HOST"), ast.Text("/")),
			))),
		},
		{
			name:  "trailing comment",
			input: `yarn add lodash # adds lodash`,
			want: ast.NewLine(ast.NewChain(ast.Words("yarn", "add", "lodash"))).
				WithComment("# adds lodash"),
		},
		{
			name:  "placeholder token is one word",
			input: `yarn add __placeholder_abc-DEF_123`,
			want:  ast.NewLine(ast.NewChain(ast.Words("yarn", "add", "__placeholder_abc-DEF_123"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AST mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseKeepsUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType ast.CommandType
		wantRaw  string
	}{
		{"subshell", `(cd app && yarn build)`, ast.CommandSubshell, `(cd app && yarn build)`},
		{"group", `{ yarn build; }`, ast.CommandGroup, `{ yarn build; }`},
		{"negation", `! yarn test`, ast.CommandNegated, `! yarn test`},
		{"if clause", `if true; then yarn; fi`, ast.CommandCompound, `if true; then yarn; fi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, line.Chains, 1)
			require.Len(t, line.Chains[0].Commands, 1)

			cmd := line.Chains[0].Commands[0]
			assert.Equal(t, tt.wantType, cmd.Type)
			assert.Equal(t, tt.wantRaw, cmd.Raw)
		})
	}
}

func TestParseRedirection(t *testing.T) {
	line, err := Parse(`yarn build > out.log`)
	require.NoError(t, err)

	cmd := line.Chains[0].Commands[0]
	require.Len(t, cmd.Args, 3)
	assert.Equal(t, ast.ArgumentRedirect, cmd.Args[2].Type)
	assert.Equal(t, "> out.log", cmd.Args[2].String())
}

func TestParseProcessSubstitution(t *testing.T) {
	line, err := Parse(`diff <(yarn info a) <(yarn info b)`)
	require.NoError(t, err)

	cmd := line.Chains[0].Commands[0]
	require.Len(t, cmd.Args, 3)
	assert.Equal(t, ast.ArgumentProcess, cmd.Args[1].Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated double quote", `yarn add "lodash`},
		{"unterminated substitution", `yarn node $(yarn bin`},
		{"dangling operator", `yarn build &&`},
		{"stray paren", `yarn )`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, line)
			assert.True(t, clherrors.IsErrorType(err, clherrors.ErrShellParse), "got %v", err)

			var perr *ParseError
			require.True(t, stderrors.As(err, &perr))
			assert.Equal(t, 1, perr.Line)
			assert.Positive(t, perr.Column)
			assert.True(t, strings.Contains(perr.Error(), " 1 | "+tt.input), "snippet missing from %q", perr.Error())
		})
	}
}
