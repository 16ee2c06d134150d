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
	priorityEmbedParser      = 180 // ahead of links (200)
	priorityEmbedTransformer = 300
	priorityEmbedRenderer    = 500
)

// DefaultEmbedBaseURL is the player URL a video id is appended to.
const DefaultEmbedBaseURL = "https://www.youtube-nocookie.com/embed/"

type embedExtension struct {
	baseURL string
}

// NewEmbed replaces paragraphs holding @[videoId] tokens with one player per
// token.
func NewEmbed(baseURL string) Extension {
	if baseURL == "" {
		baseURL = DefaultEmbedBaseURL
	}
	return &embedExtension{baseURL: baseURL}
}

func (e *embedExtension) Name() string { return "embed" }

func (e *embedExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(embedParser{}, priorityEmbedParser)),
		parser.WithASTTransformers(util.Prioritized(embedTransformer{}, priorityEmbedTransformer)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&embedRenderer{baseURL: e.baseURL}, priorityEmbedRenderer),
	))
}

type embedParser struct{}

func (embedParser) Trigger() []byte {
	return []byte{'@'}
}

func (embedParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 4 || line[1] != '[' {
		return nil
	}
	i := 2
	for i < len(line) && isVideoIDChar(line[i]) {
		i++
	}
	if i == 2 || i >= len(line) || line[i] != ']' {
		return nil
	}
	id := string(line[2:i])
	block.Advance(i + 1)
	return NewEmbedToken(id)
}

func isVideoIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

type embedTransformer struct{}

// Transform swaps each paragraph (or tight list item text block) holding
// embed tokens for one Embed block per token, in order. The rest of the
// block's text is dropped.
func (embedTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var blocks []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			blocks = append(blocks, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, b := range blocks {
		ids := embedTokens(b)
		if len(ids) == 0 {
			continue
		}
		parent := b.Parent()
		for _, id := range ids {
			parent.InsertBefore(parent, b, NewEmbedNode(id))
		}
		parent.RemoveChild(parent, b)
	}
}

func embedTokens(block ast.Node) []string {
	var ids []string
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if tok, ok := n.(*EmbedToken); ok && entering {
			ids = append(ids, tok.VideoID)
		}
		return ast.WalkContinue, nil
	})
	return ids
}

type embedRenderer struct {
	baseURL string
}

func (r *embedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEmbed, r.renderEmbed)
	reg.Register(KindEmbedToken, r.renderToken)
}

func (r *embedRenderer) renderEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Embed)
	_, _ = w.WriteString(`<div class="embed"><iframe src="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.baseURL + n.VideoID)))
	_, _ = w.WriteString(`" title="video" loading="lazy" allowfullscreen></iframe></div>` + "\n")
	return ast.WalkSkipChildren, nil
}

// renderToken writes a token found outside a paragraph back as text.
func (r *embedRenderer) renderToken(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("@[")
		_, _ = w.Write(util.EscapeHTML([]byte(node.(*EmbedToken).VideoID)))
		_, _ = w.WriteString("]")
	}
	return ast.WalkContinue, nil
}
