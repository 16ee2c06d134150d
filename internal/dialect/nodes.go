package dialect

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	KindAlert       = ast.NewNodeKind("Alert")
	KindSuperscript = ast.NewNodeKind("Superscript")
	KindSubscript   = ast.NewNodeKind("Subscript")
	KindMathBlock   = ast.NewNodeKind("MathBlock")
	KindInlineMath  = ast.NewNodeKind("InlineMath")
	KindEmbed       = ast.NewNodeKind("Embed")
	KindEmbedToken  = ast.NewNodeKind("EmbedToken")
)

// Alert is a banner block. Its first child is the title paragraph; any
// further paragraphs are the description.
type Alert struct {
	ast.BaseBlock
	Level int
}

func NewAlert(level int) *Alert {
	return &Alert{Level: level}
}

func (n *Alert) Kind() ast.NodeKind { return KindAlert }

func (n *Alert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Level": strconv.Itoa(n.Level)}, nil)
}

// LevelName maps a banner's ! count to its severity name.
func LevelName(level int) string {
	switch {
	case level <= 1:
		return "info"
	case level == 2:
		return "warning"
	default:
		return "danger"
	}
}

type Superscript struct {
	ast.BaseInline
}

func NewSuperscript() *Superscript { return &Superscript{} }

func (n *Superscript) Kind() ast.NodeKind { return KindSuperscript }

func (n *Superscript) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type Subscript struct {
	ast.BaseInline
}

func NewSubscript() *Subscript { return &Subscript{} }

func (n *Subscript) Kind() ast.NodeKind { return KindSubscript }

func (n *Subscript) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// MathBlock holds display TeX in its lines.
type MathBlock struct {
	ast.BaseBlock
	closed bool
}

func NewMathBlock() *MathBlock { return &MathBlock{} }

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// InlineMath is TeX inside a line of text. Display is set for $$...$$.
type InlineMath struct {
	ast.BaseInline
	Segment text.Segment
	Display bool
}

func NewInlineMath(segment text.Segment, display bool) *InlineMath {
	return &InlineMath{Segment: segment, Display: display}
}

func (n *InlineMath) Kind() ast.NodeKind { return KindInlineMath }

func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value":   string(n.Segment.Value(source)),
		"Display": strconv.FormatBool(n.Display),
	}, nil)
}

// Embed is a video player block.
type Embed struct {
	ast.BaseBlock
	VideoID string
}

func NewEmbedNode(id string) *Embed { return &Embed{VideoID: id} }

func (n *Embed) Kind() ast.NodeKind { return KindEmbed }

func (n *Embed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"VideoID": n.VideoID}, nil)
}

// EmbedToken is an @[id] found by the inline parser. Tokens inside
// paragraphs become Embed blocks; tokens anywhere else render as text.
type EmbedToken struct {
	ast.BaseInline
	VideoID string
}

func NewEmbedToken(id string) *EmbedToken { return &EmbedToken{VideoID: id} }

func (n *EmbedToken) Kind() ast.NodeKind { return KindEmbedToken }

func (n *EmbedToken) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"VideoID": n.VideoID}, nil)
}
