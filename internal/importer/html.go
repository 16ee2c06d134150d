package importer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/dgallion1/mdwiki/internal/doctree"
)

// HTMLImporter converts the body of an HTML page to markdown. The <title>
// element, when present, names the document.
type HTMLImporter struct {
	conv *converter.Converter
}

func NewHTMLImporter() *HTMLImporter {
	return &HTMLImporter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	if title := findTitle(doc); title != "" {
		tree.Title = title
	}

	content := doc
	if body := findElement(doc, "body"); body != nil {
		content = body
	}
	stripElements(content, "script", "style", "nav", "footer", "header")

	var buf strings.Builder
	if err := html.Render(&buf, content); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}
	md, err := p.conv.ConvertString(buf.String())
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}
	if md = strings.TrimSpace(md); md != "" {
		tree.Children = []*doctree.DocNode{{Text: md}}
	}
	return tree, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return textContent(t)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// stripElements removes non-content elements from the subtree under n.
func stripElements(n *html.Node, tags ...string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && slices.Contains(tags, c.Data) {
			n.RemoveChild(c)
		} else {
			stripElements(c, tags...)
		}
		c = next
	}
}
