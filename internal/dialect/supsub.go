package dialect

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	prioritySupSubParser   = 500
	prioritySupSubRenderer = 500
)

type supSubExtension struct{}

// SupSub adds ^superscript^ and ~subscript~. Double tildes stay literal:
// there is no strikethrough.
var SupSub Extension = supSubExtension{}

func (supSubExtension) Name() string { return "supsub" }

func (supSubExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(newScriptParser('^', func() ast.Node { return NewSuperscript() }), prioritySupSubParser),
		util.Prioritized(newScriptParser('~', func() ast.Node { return NewSubscript() }), prioritySupSubParser),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(supSubRenderer{}, prioritySupSubRenderer),
	))
}

type scriptDelimiterProcessor struct {
	char byte
	node func() ast.Node
}

func (p *scriptDelimiterProcessor) IsDelimiter(b byte) bool {
	return b == p.char
}

func (p *scriptDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *scriptDelimiterProcessor) OnMatch(consumes int) ast.Node {
	return p.node()
}

type scriptParser struct {
	processor *scriptDelimiterProcessor
}

func newScriptParser(char byte, node func() ast.Node) parser.InlineParser {
	return &scriptParser{processor: &scriptDelimiterProcessor{char: char, node: node}}
}

func (s *scriptParser) Trigger() []byte {
	return []byte{s.processor.char}
}

func (s *scriptParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, s.processor)
	if node == nil || node.OriginalLength != 1 || before == rune(s.processor.char) {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func (s *scriptParser) CloseBlock(parent ast.Node, pc parser.Context) {}

type supSubRenderer struct{}

func (supSubRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSuperscript, renderSuperscript)
	reg.Register(KindSubscript, renderSubscript)
}

func renderSuperscript(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<sup>")
	} else {
		_, _ = w.WriteString("</sup>")
	}
	return ast.WalkContinue, nil
}

// Subscripts are parenthesised so they never read as struck-through text.
func renderSubscript(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<sub>(")
	} else {
		_, _ = w.WriteString(")</sub>")
	}
	return ast.WalkContinue, nil
}
