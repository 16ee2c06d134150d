// Package dialect holds the wiki's markdown extensions to goldmark and the
// pipeline that puts them together in order.
package dialect

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Extension is a named goldmark extension.
type Extension interface {
	goldmark.Extender
	Name() string
}

type gfmExtension struct{}

// GFM is tables, task lists, footnotes and linkify. Strikethrough is left
// out so ~ is free for subscripts.
var GFM Extension = gfmExtension{}

func (gfmExtension) Name() string { return "gfm" }

func (gfmExtension) Extend(m goldmark.Markdown) {
	extension.Table.Extend(m)
	extension.TaskList.Extend(m)
	extension.Footnote.Extend(m)
	extension.Linkify.Extend(m)
}

// Option configures Default.
type Option func(*options)

type options struct {
	titleSpace   string
	embedBaseURL string
}

// WithCodeTitleSpace sets the token that stands for a space in code titles.
func WithCodeTitleSpace(token string) Option {
	return func(o *options) { o.titleSpace = token }
}

// WithEmbedBaseURL sets the player URL video ids are appended to.
func WithEmbedBaseURL(url string) Option {
	return func(o *options) { o.embedBaseURL = url }
}

// Pipeline is an ordered extension list. It holds no parser state, so one
// Pipeline can build any number of goldmark instances.
type Pipeline struct {
	Extensions []Extension
}

// Default returns the full wiki dialect.
func Default(opts ...Option) *Pipeline {
	o := options{titleSpace: DefaultTitleSpace, embedBaseURL: DefaultEmbedBaseURL}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{Extensions: []Extension{
		AlertExtension,
		Arrows,
		SupSub,
		GFM,
		Math,
		NewCodeInfo(o.titleSpace),
		NewEmbed(o.embedBaseURL),
		HeadingID,
	}}
}

// Names lists the extensions in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.Extensions))
	for i, e := range p.Extensions {
		names[i] = e.Name()
	}
	return names
}

// Markdown builds a goldmark instance with the pipeline's extensions
// followed by extra.
func (p *Pipeline) Markdown(extra ...goldmark.Option) goldmark.Markdown {
	exts := make([]goldmark.Extender, len(p.Extensions))
	for i, e := range p.Extensions {
		exts[i] = e
	}
	opts := append([]goldmark.Option{goldmark.WithExtensions(exts...)}, extra...)
	return goldmark.New(opts...)
}

// Parse parses source into a tree.
func (p *Pipeline) Parse(source []byte) ast.Node {
	return p.Markdown().Parser().Parse(text.NewReader(source))
}
