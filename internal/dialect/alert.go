package dialect

import (
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	priorityAlertTransformer = 50
	priorityAlertRenderer    = 500
)

type alertExtension struct{}

// AlertExtension turns paragraphs opening with a run of ! into banners.
var AlertExtension Extension = alertExtension{}

func (alertExtension) Name() string { return "alert" }

func (alertExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithParagraphTransformers(
		util.Prioritized(alertTransformer{}, priorityAlertTransformer),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(alertRenderer{}, priorityAlertRenderer),
	))
}

// alertTransformer runs on raw paragraph lines, before table and link
// reference transformers get to them.
type alertTransformer struct{}

func (alertTransformer) Transform(node *ast.Paragraph, reader text.Reader, pc parser.Context) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}
	source := reader.Source()
	first := trimLeft(lines.At(0), source)
	level := bangRun(first.Value(source))
	if level == 0 {
		return
	}

	alert := NewAlert(level)
	title := ast.NewParagraph()
	title.SetAttributeString("class", []byte("alert-title"))
	title.Lines().Append(trimLeft(first.WithStart(first.Start+level), source))
	alert.AppendChild(alert, title)

	var desc *ast.Paragraph
	for i := 1; i < lines.Len(); i++ {
		seg := trimLeft(lines.At(i), source)
		if n := bangRun(seg.Value(source)); n > 0 {
			seg = trimLeft(seg.WithStart(seg.Start+n), source)
			desc = nil
		}
		if util.IsBlank(seg.Value(source)) {
			continue
		}
		if desc == nil {
			desc = ast.NewParagraph()
			alert.AppendChild(alert, desc)
		}
		desc.Lines().Append(seg)
	}

	for c := alert.FirstChild(); c != nil; c = c.NextSibling() {
		trimLastLine(c, source)
	}

	parent := node.Parent()
	parent.ReplaceChild(parent, node, alert)
}

// bangRun returns the length of the ! run opening line, or 0 when the line
// does not open a banner. "![" starts an image, not a banner.
func bangRun(line []byte) int {
	n := 0
	for n < len(line) && line[n] == '!' {
		n++
	}
	if n < len(line) && line[n] == '[' {
		return 0
	}
	return n
}

func trimLeft(seg text.Segment, source []byte) text.Segment {
	return seg.TrimLeftSpace(source)
}

func trimLastLine(n ast.Node, source []byte) {
	lines := n.Lines()
	if last := lines.Len() - 1; last >= 0 {
		seg := lines.At(last)
		lines.Set(last, seg.TrimRightSpace(source))
	}
}

type alertRenderer struct{}

func (alertRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAlert, renderAlert)
}

func renderAlert(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Alert)
	if entering {
		_, _ = w.WriteString(`<div class="alert alert-`)
		_, _ = w.WriteString(LevelName(n.Level))
		_, _ = w.WriteString(`" data-level="`)
		_, _ = w.WriteString(strconv.Itoa(n.Level))
		_, _ = w.WriteString("\" role=\"alert\">\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
