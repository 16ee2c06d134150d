package dialect

import (
	"slices"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// After the math fence transformer so ```math never gets here.
const priorityCodeInfoTransformer = 200

// DefaultTitleSpace stands in for a space inside a code title.
const DefaultTitleSpace = "^"

// Attribute names read by the code block renderer.
const (
	AttrTitle   = "title"
	AttrHLLines = "hl_lines"
)

// CodeInfo is a parsed fenced code info string:
// lang:title^with^spaces{2-4,6}
type CodeInfo struct {
	Language string
	Title    string
	Lines    []int
}

// ParseCodeInfo splits an info string into its language, title and
// highlighted lines. Lines are 1-indexed, sorted and unique. titleSpace
// defaults to DefaultTitleSpace when empty.
func ParseCodeInfo(info, titleSpace string) CodeInfo {
	if titleSpace == "" {
		titleSpace = DefaultTitleSpace
	}
	info = strings.TrimSpace(info)

	var ci CodeInfo
	if strings.HasSuffix(info, "}") {
		if open := strings.LastIndexByte(info, '{'); open >= 0 {
			ci.Lines = parseLineRanges(info[open+1 : len(info)-1])
			info = strings.TrimSpace(info[:open])
		}
	}

	lang, title, ok := strings.Cut(info, ":")
	ci.Language = strings.TrimSpace(lang)
	if ok {
		ci.Title = strings.TrimSpace(strings.Join(strings.Split(title, titleSpace), " "))
	}
	return ci
}

const maxHighlightSpan = 10000

// parseLineRanges parses "n", "n,m-k" and similar. Malformed parts are
// skipped.
func parseLineRanges(s string) []int {
	var lines []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || from < 1 {
			continue
		}
		to := from
		if isRange {
			to, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || to < 1 {
				continue
			}
			if to < from {
				from, to = to, from
			}
		}
		if to-from > maxHighlightSpan {
			continue
		}
		for n := from; n <= to; n++ {
			lines = append(lines, n)
		}
	}
	slices.Sort(lines)
	return slices.Compact(lines)
}

type codeInfoExtension struct {
	titleSpace string
}

// NewCodeInfo handles code titles and highlighted lines on fenced code.
// titleSpace is the token replaced by spaces in titles.
func NewCodeInfo(titleSpace string) Extension {
	return &codeInfoExtension{titleSpace: titleSpace}
}

func (e *codeInfoExtension) Name() string { return "codeinfo" }

func (e *codeInfoExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&codeInfoTransformer{titleSpace: e.titleSpace}, priorityCodeInfoTransformer),
	))
}

type codeInfoTransformer struct {
	titleSpace string
}

// Transform sets the title and hl_lines attributes and narrows the info
// string to the bare language, which is what the highlighter looks up.
func (t *codeInfoTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		seg := fcb.Info.Segment
		raw := string(seg.Value(source))
		ci := ParseCodeInfo(raw, t.titleSpace)

		if ci.Title != "" {
			fcb.SetAttributeString(AttrTitle, []byte(ci.Title))
		}
		if len(ci.Lines) > 0 {
			hl := make([]interface{}, len(ci.Lines))
			for i, l := range ci.Lines {
				hl[i] = float64(l)
			}
			fcb.SetAttributeString(AttrHLLines, hl)
		}
		if ci.Language == "" {
			fcb.Info = nil
		} else if ci.Language != raw {
			// The language is always a prefix of the raw info.
			start := seg.Start + strings.Index(raw, ci.Language)
			fcb.Info = ast.NewTextSegment(text.NewSegment(start, start+len(ci.Language)))
		}
		return ast.WalkSkipChildren, nil
	})
}
