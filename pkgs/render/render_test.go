package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/clh/pkgs/segment"
)

func sample() *segment.Node {
	return segment.New(segment.Block,
		segment.New(segment.BlockLine,
			segment.New(segment.Fragment,
				segment.New(segment.Fragment,
					segment.Leaf(segment.Span, "CI=1 "),
					segment.New(segment.Command,
						segment.Leaf(segment.Binary, "yarn"),
						segment.Leaf(segment.Path, "add").WithTooltip("Add dependencies to the project").WithHref("/cli/add"),
						segment.Leaf(segment.Option, "-D").WithTooltip("Add a package as a dev dependency"),
						segment.Leaf(segment.Positional, "<pkg>"),
					),
				),
			),
		),
		segment.New(segment.Spacer),
		segment.Leaf(segment.Verbatim, `echo "unterminated`),
	)
}

func TestMDX(t *testing.T) {
	m := &MDX{Namespace: "CLH"}
	got, err := m.String(sample())
	require.NoError(t, err)

	want := `<CLH.Block><CLH.BlockLine><><><span>{"CI=1 "}</span>` +
		`<CLH.Command><CLH.Binary>{"yarn"}</CLH.Binary>` +
		`<CLH.Path tooltip={"Add dependencies to the project"} href={"/cli/add"}>{"add"}</CLH.Path>` +
		`<CLH.Option tooltip={"Add a package as a dev dependency"}>{"-D"}</CLH.Option>` +
		`<CLH.Positional>{"<pkg>"}</CLH.Positional></CLH.Command></></></CLH.BlockLine>` +
		`<div>{" "}</div>` +
		`<div>{"echo \"unterminated"}</div></CLH.Block>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MDX mismatch (-want +got):\n%s", diff)
	}
}

func TestMDXEscapesExpressions(t *testing.T) {
	m := &MDX{Namespace: DefaultNamespace}
	got, err := m.String(segment.Leaf(segment.Comment, "# {braces} `ticks` </tags> "))
	require.NoError(t, err)
	assert.Equal(t, `<CommandLineHighlight.Comment>{"# {braces} `+"`ticks`"+` </tags> "}</CommandLineHighlight.Comment>`, got)
}

func TestImportStatement(t *testing.T) {
	assert.Equal(t,
		"import * as CommandLineHighlight from '@site/src/components/CommandLineHighlight2.tsx';",
		ImportStatement(DefaultNamespace, DefaultImportSource))
}

func TestHTML(t *testing.T) {
	h := &HTML{ClassPrefix: "clh-"}
	want := `<div class="clh-block"><div class="clh-blockline"><span>CI=1 </span>` +
		`<span class="clh-command"><span class="clh-binary">yarn</span> ` +
		`<a class="clh-path" href="/cli/add" title="Add dependencies to the project">add</a> ` +
		`<span class="clh-option" title="Add a package as a dev dependency">-D</span> ` +
		`<span class="clh-positional">&lt;pkg&gt;</span></span></div>` +
		`<div class="clh-spacer"> </div>` +
		`<div class="clh-verbatim">echo &quot;unterminated</div></div>`
	if diff := cmp.Diff(want, h.String(sample())); diff != "" {
		t.Errorf("HTML mismatch (-want +got):\n%s", diff)
	}
}

func TestANSIWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	a := &ANSI{Color: false}
	require.NoError(t, a.Render(&buf, sample()))
	assert.Equal(t, sample().PlainText()+"\n", buf.String())
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"ansi", "cbor", "html", "json", "mdx", "text"}, Formats())

	f, err := ParseFormat("MDX")
	require.NoError(t, err)
	assert.Equal(t, FormatMDX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorContains(t, err, "unknown format")
}

func TestNew(t *testing.T) {
	tree := sample()

	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			r, err := New(Format(name), DefaultOptions())
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tree))
			assert.NotEmpty(t, buf.Bytes())
		})
	}

	_, err := New("pdf", DefaultOptions())
	assert.Error(t, err)
}

func TestEncodersRoundTrip(t *testing.T) {
	tree := sample()

	var jsonOut bytes.Buffer
	require.NoError(t, writeJSON(&jsonOut, tree))
	var fromJSON segment.Node
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	assert.Equal(t, tree.PlainText(), fromJSON.PlainText())

	var cborOut bytes.Buffer
	require.NoError(t, writeCBOR(&cborOut, tree))
	var fromCBOR segment.Node
	require.NoError(t, cbor.Unmarshal(cborOut.Bytes(), &fromCBOR))
	assert.Equal(t, tree.PlainText(), fromCBOR.PlainText())

	var text bytes.Buffer
	require.NoError(t, writeText(&text, tree))
	assert.Equal(t, "CI=1 yarn add -D <pkg>\n\necho \"unterminated\n", text.String())
}
