package placeholder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
	"github.com/aledsdavies/clh/pkgs/segment"
)

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"<package>",
		"<name>@<range>",
		"$(yarn bin jest)",
		`"$(pwd)/dist"`,
		"",
		"unicode ✓ text",
	}

	store := New()
	for _, raw := range inputs {
		token, err := store.Create(raw, nil)
		require.NoError(t, err)

		value, err := store.Resolve(token)
		require.NoError(t, err)
		assert.Equal(t, raw, value.Raw)
		assert.Nil(t, value.Fragment)
	}
	assert.Equal(t, len(inputs), store.Len())
}

func TestTokensAreDeterministic(t *testing.T) {
	first, err := New().Create("<package>", nil)
	require.NoError(t, err)
	second, err := New().Create("<package>", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := New().Create("<packages>", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestTokensAreSingleShellWords(t *testing.T) {
	store := New()
	for _, raw := range []string{"<a b>", "'quoted'", "$(x)", "a;b|c&d"} {
		token, err := store.Create(raw, nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, Prefix))
		assert.True(t, IsToken(token))
		assert.NotContainsf(t, token, " ", "token %q contains whitespace", token)
		for _, meta := range []string{"'", `"`, "$", ";", "|", "&", "(", ")", "<", ">", "=", "#", "`"} {
			assert.NotContainsf(t, token, meta, "token %q contains %q", token, meta)
		}
	}
}

func TestFragmentsAreStored(t *testing.T) {
	store := New()
	fragment := segment.New(segment.Span, segment.NewText("$("), segment.NewText(")"))

	token, err := store.Create("$(yarn bin)", fragment)
	require.NoError(t, err)

	value, err := store.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, fragment, value.Fragment)

	// Re-creating without a fragment keeps the stored one.
	again, err := store.Create("$(yarn bin)", nil)
	require.NoError(t, err)
	assert.Equal(t, token, again)
	value, err = store.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, fragment, value.Fragment)
}

func TestResolvePassesThroughPlainText(t *testing.T) {
	store := New()
	for _, text := range []string{"lodash", "--json", "__placeholder_", "x__placeholder_abc"} {
		value, err := store.Resolve(text)
		require.NoError(t, err)
		assert.Equal(t, text, value.Raw)
	}
}

func TestResolvePassesThroughAdjacentTokens(t *testing.T) {
	store := New()
	scope, err := store.Create("<scope>", nil)
	require.NoError(t, err)
	name, err := store.Create("<name>", nil)
	require.NoError(t, err)

	for _, text := range []string{scope + name, name + "x", scope + "-" + name} {
		assert.False(t, IsToken(text), text)
		value, err := store.Resolve(text)
		require.NoError(t, err)
		assert.Equal(t, text, value.Raw)
	}
	assert.Equal(t, "<scope><name>", store.Expand(scope+name))
	assert.Equal(t, "<name>x", store.Expand(name+"x"))
}

func TestResolveMissingTokenFails(t *testing.T) {
	token := Prefix + Key("never stored")

	_, err := New().Resolve(token)
	require.Error(t, err)
	assert.True(t, clherrors.IsErrorType(err, clherrors.ErrPlaceholder))
}

func TestCollisionFailsLoudly(t *testing.T) {
	store := New()
	// Simulate a digest collision by planting a different raw text under the key.
	store.entries[Key("<a>")] = Value{Raw: "<b>"}

	_, err := store.Create("<a>", nil)
	require.Error(t, err)
	assert.True(t, clherrors.IsErrorType(err, clherrors.ErrPlaceholder))
}

func TestExpand(t *testing.T) {
	store := New()
	token, err := store.Create("<value>", nil)
	require.NoError(t, err)

	assert.Equal(t, "FOO=<value> --flag=<value>", store.Expand("FOO="+token+" --flag="+token))
	assert.Equal(t, "no tokens here", store.Expand("no tokens here"))
}

func TestExpandNested(t *testing.T) {
	store := New()
	inner, err := store.Create("<pkg>", nil)
	require.NoError(t, err)
	outer, err := store.Create("$(yarn add "+inner+")", segment.NewText("rendered"))
	require.NoError(t, err)

	assert.Equal(t, "echo $(yarn add <pkg>)", store.Expand("echo "+outer))

	missing := Prefix + Key("never created")
	assert.Equal(t, missing, store.Expand(missing))
}
