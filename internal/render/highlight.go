package render

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/mdwiki/internal/dialect"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

func newHighlighting(style string) goldmark.Extender {
	return highlighting.NewHighlighting(
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
		),
		highlighting.WithWrapperRenderer(wrapCodeBlock),
	)
}

// wrapCodeBlock puts every fenced block in a code-block div with an optional
// title bar. Blocks chroma has no lexer for get a plain <pre><code>.
func wrapCodeBlock(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if !entering {
		if !ctx.Highlighted() {
			_, _ = w.WriteString("</code></pre>")
		}
		_, _ = w.WriteString("</div>\n")
		return
	}

	_, _ = w.WriteString(`<div class="code-block">`)
	if title := codeTitle(ctx); title != "" {
		_, _ = w.WriteString(`<div class="code-title">`)
		_, _ = w.Write(util.EscapeHTML([]byte(title)))
		_, _ = w.WriteString("</div>")
	}
	if !ctx.Highlighted() {
		_, _ = w.WriteString("<pre><code")
		if lang, ok := ctx.Language(); ok && len(lang) > 0 {
			_, _ = w.WriteString(` class="language-`)
			_, _ = w.Write(util.EscapeHTML(lang))
			_ = w.WriteByte('"')
		}
		_ = w.WriteByte('>')
	}
}

func codeTitle(ctx highlighting.CodeBlockContext) string {
	attrs := ctx.Attributes()
	if attrs == nil {
		return ""
	}
	v, ok := attrs.GetString(dialect.AttrTitle)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	}
	return ""
}

// StyleCSS returns the stylesheet for the class names the highlighter emits.
func StyleCSS(style string) (string, error) {
	s, ok := styles.Registry[strings.ToLower(style)]
	if !ok {
		return "", fmt.Errorf("unknown highlight style %q", style)
	}
	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, s); err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}
	return b.String(), nil
}
