package grammar

import (
	"os"

	cobradoc "github.com/spf13/cobra/doc"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

// GenerateDocs writes one Markdown reference page per command into dir.
//
// cobra adds its help command to the tree while generating, so GenerateDocs must not run
// concurrently with other methods.
func (g *Grammar) GenerateDocs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return clherrors.NewGrammarError("cannot create docs directory", err).WithContext("dir", dir)
	}
	if err := cobradoc.GenMarkdownTree(g.root, dir); err != nil {
		return clherrors.NewGrammarError("cannot generate grammar docs", err).WithContext("dir", dir)
	}
	return nil
}
