package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightErrorMessage(t *testing.T) {
	err := New(ErrShellParse, "unexpected token")
	assert.Equal(t, "SHELL_PARSE_ERROR: unexpected token", err.Error())

	wrapped := Wrap(ErrInputRead, "cannot read docs/cli.md", io.ErrUnexpectedEOF)
	assert.Equal(t, "INPUT_READ_ERROR: cannot read docs/cli.md (caused by: unexpected EOF)", wrapped.Error())
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestIsErrorType(t *testing.T) {
	inner := NewUnsupportedConstruct("subshell", "(yarn build)")
	outer := fmt.Errorf("line 3: %w", inner)

	assert.True(t, IsErrorType(outer, ErrUnsupportedConstruct))
	assert.False(t, IsErrorType(outer, ErrShellParse))
	assert.Equal(t, ErrUnsupportedConstruct, TypeOf(outer))
	assert.Equal(t, "", TypeOf(io.EOF))

	nested := Wrap(ErrCommandResolution, "outer", New(ErrGrammar, "inner"))
	assert.True(t, IsErrorType(nested, ErrGrammar))
}

func TestWithContext(t *testing.T) {
	err := NewCommandResolutionError("yarn", []string{"ad"}, io.EOF)

	binary, ok := err.GetContext("binary")
	assert.True(t, ok)
	assert.Equal(t, "yarn", binary)

	_, ok = err.GetContext("missing")
	assert.False(t, ok)
}
