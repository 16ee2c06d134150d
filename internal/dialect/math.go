package dialect

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	priorityMathBlockParser  = 690 // ahead of fenced code (700)
	priorityMathInlineParser = 150
	priorityMathTransformer  = 100
	priorityMathRenderer     = 500
	mathFenceInfo            = "math"
	mathDelimiter            = "$$"
)

type mathExtension struct{}

// Math adds $$ blocks, inline $ and $$ spans, and ```math fences. Output
// keeps TeX delimiters for client-side typesetting.
var Math Extension = mathExtension{}

func (mathExtension) Name() string { return "math" }

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(mathBlockParser{}, priorityMathBlockParser)),
		parser.WithInlineParsers(util.Prioritized(inlineMathParser{}, priorityMathInlineParser)),
		parser.WithASTTransformers(util.Prioritized(mathFenceTransformer{}, priorityMathTransformer)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(mathRenderer{}, priorityMathRenderer),
	))
}

type mathBlockParser struct{}

func (mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte(mathDelimiter)) {
		return nil, parser.NoChildren
	}
	node := NewMathBlock()
	start := pos + len(mathDelimiter)
	rest := line[start:]

	if end := bytes.Index(rest, []byte(mathDelimiter)); end >= 0 {
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Start+start+end))
		node.closed = true
		return node, parser.NoChildren
	}
	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Stop))
	}
	return node, parser.NoChildren
}

func (mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if end := bytes.Index(line, []byte(mathDelimiter)); end >= 0 {
		if !util.IsBlank(line[:end]) {
			n.Lines().Append(text.NewSegment(segment.Start, segment.Start+end))
		}
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		n.closed = true
		return parser.Close
	}
	n.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (mathBlockParser) CanInterruptParagraph() bool { return true }

func (mathBlockParser) CanAcceptIndentedLine() bool { return false }

type inlineMathParser struct{}

func (inlineMathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse matches $tex$ and $$tex$$ on a single line. A single-dollar span may
// not start or end with a space, so "$5 and $6" stays text.
func (inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	body := line[delim:]
	end := bytes.Index(body, line[:delim])
	if end <= 0 {
		return nil
	}
	if delim == 1 && (util.IsSpace(body[0]) || util.IsSpace(body[end-1])) {
		return nil
	}
	start := segment.Start + delim
	node := NewInlineMath(text.NewSegment(start, start+end), delim == 2)
	block.Advance(delim + end + delim)
	return node
}

// mathFenceTransformer turns fenced code whose info is exactly "math" into a
// MathBlock.
type mathFenceTransformer struct{}

func (mathFenceTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok && fcb.Info != nil {
			if string(fcb.Info.Segment.Value(source)) == mathFenceInfo {
				fences = append(fences, fcb)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, fcb := range fences {
		mb := NewMathBlock()
		mb.SetLines(fcb.Lines())
		parent := fcb.Parent()
		parent.ReplaceChild(parent, fcb, mb)
	}
}

type mathRenderer struct{}

func (mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathBlock, renderMathBlock)
	reg.Register(KindInlineMath, renderInlineMath)
}

func renderMathBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="math math-display">\[`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	_, _ = w.WriteString("\\]</div>\n")
	return ast.WalkSkipChildren, nil
}

func renderInlineMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*InlineMath)
	open, closing := `\(`, `\)`
	class := "math math-inline"
	if n.Display {
		open, closing = `\[`, `\]`
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">` + open)
	_, _ = w.Write(util.EscapeHTML(n.Segment.Value(source)))
	_, _ = w.WriteString(closing + "</span>")
	return ast.WalkSkipChildren, nil
}
