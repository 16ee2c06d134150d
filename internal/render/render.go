// Package render turns wiki markdown into HTML with the full dialect,
// syntax highlighting and sanitisation.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/mdwiki/internal/dialect"
	"github.com/dgallion1/mdwiki/internal/stats"
	"github.com/dgallion1/mdwiki/internal/toc"
)

const priorityLinkTransformer = 900

// OpRender is the stats operation name for Render calls.
const OpRender = "render"

type Config struct {
	HighlightStyle string
	EmbedBaseURL   string
	CodeTitleSpace string
	Sanitize       bool
}

// Result is a rendered document and its table of contents.
type Result struct {
	HTML string      `json:"html"`
	TOC  []toc.Entry `json:"toc"`
}

// Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  *Cache
	stats  *stats.Recorder
}

type Option func(*Renderer)

// WithCache memoises Render results.
func WithCache(c *Cache) Option {
	return func(r *Renderer) { r.cache = c }
}

// WithStats records the latency of each uncached Render.
func WithStats(s *stats.Recorder) Option {
	return func(r *Renderer) { r.stats = s }
}

func New(cfg Config, opts ...Option) *Renderer {
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = DefaultStyle
	}
	if cfg.EmbedBaseURL == "" {
		cfg.EmbedBaseURL = dialect.DefaultEmbedBaseURL
	}

	pipeline := dialect.Default(
		dialect.WithCodeTitleSpace(cfg.CodeTitleSpace),
		dialect.WithEmbedBaseURL(cfg.EmbedBaseURL),
	)
	r := &Renderer{
		md: pipeline.Markdown(
			goldmark.WithExtensions(newHighlighting(cfg.HighlightStyle)),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(util.Prioritized(linkTransformer{}, priorityLinkTransformer)),
			),
			goldmark.WithRendererOptions(
				renderer.WithNodeRenderers(util.Prioritized(nodeRenderer{}, priorityNodeRenderer)),
			),
		),
	}
	if cfg.Sanitize {
		r.policy = newPolicy(cfg.EmbedBaseURL)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts source to HTML and extracts its TOC. Blank source gives
// empty HTML and an empty TOC.
func (r *Renderer) Render(source string) (Result, error) {
	if r.cache != nil {
		if res, ok := r.cache.Get(source); ok {
			return res, nil
		}
	}

	start := time.Now()
	html, err := r.HTML(source)
	if err != nil {
		return Result{}, err
	}
	res := Result{HTML: html, TOC: toc.Extract(source)}
	if r.stats != nil {
		r.stats.Since(OpRender, start)
	}

	if r.cache != nil {
		r.cache.Put(source, res)
	}
	return res, nil
}

// HTML converts source without extracting the TOC.
func (r *Renderer) HTML(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	if r.policy != nil {
		return string(r.policy.SanitizeBytes(buf.Bytes())), nil
	}
	return buf.String(), nil
}

// RenderHunks renders each hunk on its own, as the editor previews them.
func (r *Renderer) RenderHunks(hunks []string) ([]string, error) {
	out := make([]string, len(hunks))
	for i, h := range hunks {
		html, err := r.HTML(h)
		if err != nil {
			return nil, fmt.Errorf("hunk %d: %w", i, err)
		}
		out[i] = html
	}
	return out, nil
}
