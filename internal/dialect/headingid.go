package dialect

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/mdwiki/internal/anchor"
)

const priorityHeadingIDTransformer = 500

type headingIDExtension struct{}

// HeadingID gives every heading the same id the TOC links to.
var HeadingID Extension = headingIDExtension{}

func (headingIDExtension) Name() string { return "headingid" }

func (headingIDExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(headingIDTransformer{}, priorityHeadingIDTransformer),
	))
}

type headingIDTransformer struct{}

func (headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		// Raw source text, so markup is treated the same way the TOC
		// extractor treats it.
		var raw []byte
		lines := heading.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			raw = append(raw, line.Value(source)...)
		}
		if id := anchor.ID(string(raw)); id != "" {
			heading.SetAttributeString("id", []byte(id))
		}
		return ast.WalkSkipChildren, nil
	})
}
