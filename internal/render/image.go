package render

import (
	"regexp"
	"strings"
)

// ImageAlt is an image's alt text split into the caption and the
// max-size hints (width-300, height-50%) it carries. Text is every token
// that is not a size hint and becomes the img alt attribute.
type ImageAlt struct {
	Caption   string
	Text      string
	MaxWidth  string
	MaxHeight string
}

var sizePattern = regexp.MustCompile(`^\d+(\.\d+)?(px|%|em|rem|vw|vh)?$`)

// ParseImageAlt pulls width-<size> and height-<size> tokens out of alt. The
// first remaining token is the caption. A bare number is taken as pixels; a
// token with an invalid size is treated as text.
func ParseImageAlt(alt string) ImageAlt {
	var out ImageAlt
	var words []string
	for _, tok := range strings.Fields(alt) {
		if v, ok := sizeToken(tok, "width-"); ok {
			out.MaxWidth = v
			continue
		}
		if v, ok := sizeToken(tok, "height-"); ok {
			out.MaxHeight = v
			continue
		}
		words = append(words, tok)
	}
	if len(words) > 0 {
		out.Caption = words[0]
	}
	out.Text = strings.Join(words, " ")
	return out
}

// Style renders the size hints as an inline style, or "" when there are
// none.
func (a ImageAlt) Style() string {
	var parts []string
	if a.MaxWidth != "" {
		parts = append(parts, "max-width:"+a.MaxWidth)
	}
	if a.MaxHeight != "" {
		parts = append(parts, "max-height:"+a.MaxHeight)
	}
	return strings.Join(parts, ";")
}

func sizeToken(tok, prefix string) (string, bool) {
	v, ok := strings.CutPrefix(tok, prefix)
	if !ok || !sizePattern.MatchString(v) {
		return "", false
	}
	if v[len(v)-1] >= '0' && v[len(v)-1] <= '9' {
		v += "px"
	}
	return v, true
}
