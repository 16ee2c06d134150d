package dialect

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Ahead of the autolink (300) and raw HTML (400) parsers, which also
// trigger on '<'.
const priorityArrowParser = 90

type arrowsExtension struct{}

// Arrows replaces -> <- and <-> (any number of dashes) with arrow glyphs.
var Arrows Extension = arrowsExtension{}

func (arrowsExtension) Name() string { return "arrows" }

func (arrowsExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(arrowParser{}, priorityArrowParser),
	))
}

type arrowParser struct{}

func (arrowParser) Trigger() []byte {
	return []byte{'<', '-'}
}

func (arrowParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	glyph, n := matchArrow(line)
	if n == 0 {
		return nil
	}
	block.Advance(n)
	return ast.NewString([]byte(glyph))
}

// matchArrow matches the longest arrow at the start of line and returns its
// glyph and byte length.
func matchArrow(line []byte) (string, int) {
	if len(line) < 2 {
		return "", 0
	}
	i := 0
	left := line[0] == '<'
	if left {
		i++
	}
	dashes := i
	for i < len(line) && line[i] == '-' {
		i++
	}
	if i == dashes {
		return "", 0
	}
	right := i < len(line) && line[i] == '>'
	switch {
	case left && right:
		return "↔", i + 1
	case left:
		return "←", i
	case right:
		return "→", i + 1
	}
	return "", 0
}
