package importer

import (
	"io"
	"strings"

	"github.com/dgallion1/mdwiki/internal/doctree"
	"github.com/dgallion1/mdwiki/internal/toc"
)

// MarkdownImporter passes wiki markdown through unchanged. The title is the
// first level-1 heading, falling back to the filename.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	source := strings.ReplaceAll(string(src), "\r\n", "\n")

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	for e := range toc.All(source) {
		if e.Depth == 1 {
			tree.Title = e.Title
			break
		}
	}
	if body := strings.TrimSpace(source); body != "" {
		tree.Children = []*doctree.DocNode{{Text: body}}
	}
	return tree, nil
}
