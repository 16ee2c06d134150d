package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Ahead of the default HTML (1000), table (500) and highlighting (200)
// renderers.
const priorityNodeRenderer = 100

// nodeRenderer maps images, paragraphs and tables to the wiki's markup.
type nodeRenderer struct{}

func (r nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(east.KindTable, r.renderTable)
}

// renderImage writes a zoomable figure for images standing alone in a
// paragraph, and an inline span with the same content elsewhere.
func (r nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	alt := ParseImageAlt(plainText(n, source))

	wrapper, caption := "span", "span"
	if p, ok := n.Parent().(*ast.Paragraph); ok && imageOnly(p, source) {
		wrapper, caption = "figure", "figcaption"
	}

	_, _ = w.WriteString("<" + wrapper + ` class="image-zoom" data-zoomable><img src="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(alt.Text)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	if style := alt.Style(); style != "" {
		_, _ = w.WriteString(` style="`)
		_, _ = w.Write(util.EscapeHTML([]byte(style)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')
	if alt.Caption != "" {
		if caption == "span" {
			_, _ = w.WriteString(`<span class="image-caption">`)
		} else {
			_, _ = w.WriteString("<figcaption>")
		}
		_, _ = w.Write(util.EscapeHTML([]byte(alt.Caption)))
		_, _ = w.WriteString("</" + caption + ">")
	}
	_, _ = w.WriteString("</" + wrapper + ">")
	return ast.WalkSkipChildren, nil
}

// renderParagraph drops the <p> around paragraphs that only hold images,
// since a figure cannot sit inside a paragraph.
func (r nodeRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if imageOnly(n, source) {
		if !entering {
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}
	if entering {
		if n.Attributes() != nil {
			_, _ = w.WriteString("<p")
			html.RenderAttributes(w, n, html.ParagraphAttributeFilter)
			_ = w.WriteByte('>')
		} else {
			_, _ = w.WriteString("<p>")
		}
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r nodeRenderer) renderTable(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<div class="table-wrapper"><table`)
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, html.GlobalAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</table></div>\n")
	}
	return ast.WalkContinue, nil
}

// imageOnly reports whether n's children are images and whitespace only.
func imageOnly(n ast.Node, source []byte) bool {
	images := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Image:
			images++
		case *ast.Text:
			if !util.IsBlank(t.Segment.Value(source)) {
				return false
			}
		default:
			return false
		}
	}
	return images > 0
}

// plainText flattens n's inline children to text.
func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	writePlainText(&buf, n, source)
	return buf.String()
}

func writePlainText(buf *bytes.Buffer, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			writePlainText(buf, c, source)
		}
	}
}

// linkTransformer opens external links in a new tab.
type linkTransformer struct{}

func (linkTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Link:
			if isExternal(n.Destination) {
				markExternal(n)
			}
		case *ast.AutoLink:
			if n.AutoLinkType == ast.AutoLinkURL {
				markExternal(n)
			}
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest []byte) bool {
	d := strings.ToLower(string(dest))
	return strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") || strings.HasPrefix(d, "//")
}

func markExternal(n ast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noopener noreferrer"))
}
