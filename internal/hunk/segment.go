// Package hunk splits markdown source into independently editable blocks
// ("hunks") and keeps the editor's ordered hunk list.
//
// Joining hunks with a blank line reproduces a document that renders the same
// as the original. Footnote definitions move next to the first hunk that
// references them so a hunk can be rendered on its own.
package hunk

import (
	"strings"
)

// Separator joins hunks in persisted content.
const Separator = "\n\n"

// Segment splits source into hunks. Fenced code (``` or ~~~) and $$ math
// blocks are opaque: they run to the next occurrence of their delimiter, or to
// the end of the source when unterminated. Everything else is split on blank
// lines. The result is never nil.
func Segment(source string) []string {
	s := &scanner{src: source}
	hunks := []string{}
	for {
		h, ok := s.next()
		if !ok {
			break
		}
		hunks = append(hunks, h)
	}
	return hunks
}

// Join reassembles hunks into document content.
func Join(hunks []string) string {
	return strings.Join(hunks, Separator)
}

// scanner walks the source once. src shrinks as footnote definitions are
// taken out of the unread part; everything before pos is never touched again.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (string, bool) {
	s.skipBlankLines()
	if s.pos >= len(s.src) {
		return "", false
	}
	rest := s.src[s.pos:]

	if delim, ok := opaqueDelimiter(rest); ok {
		end := closingIndex(rest, fenceRun(rest, delim))
		s.pos += end
		return rest[:end], true
	}

	end := paragraphEnd(rest)
	s.pos += end
	return s.attachFootnotes(strings.TrimRight(rest[:end], " \t\r\n")), true
}

// skipBlankLines moves past whole blank lines. Indentation of the first
// non-blank line is kept: it decides whether the line is indented code or a
// list item continuation.
func (s *scanner) skipBlankLines() {
	for s.pos < len(s.src) {
		end := lineEndAt(s.src, s.pos)
		if !isBlank(s.src[s.pos:end]) {
			return
		}
		s.pos = end
		if s.pos < len(s.src) {
			s.pos++
		}
	}
}

// opaqueDelimiter reports the block delimiter text starts with, if any.
func opaqueDelimiter(text string) (string, bool) {
	for _, d := range []string{"```", "~~~", "$$"} {
		if strings.HasPrefix(text, d) {
			return d, true
		}
	}
	return "", false
}

// fenceRun returns the full opening run of a code fence at the start of
// text. A fence only closes on a run at least this long.
func fenceRun(text, delim string) string {
	if delim == "$$" {
		return delim
	}
	return text[:runLength(text, delim[0])]
}

// closingIndex returns the offset just past the delimiter closing the block
// opened at the start of text, or len(text) when there is none.
func closingIndex(text, run string) int {
	if end := closingAfter(text, len(run), run); end >= 0 {
		return end
	}
	return len(text)
}

// closingAfter returns the offset just past the first closing run at or after
// from, or -1. A backtick or tilde run is consumed whole.
func closingAfter(text string, from int, run string) int {
	i := strings.Index(text[from:], run)
	if i < 0 {
		return -1
	}
	i += from
	if run[0] == '$' {
		return i + len(run)
	}
	return i + runLength(text[i:], run[0])
}

// paragraphEnd returns the offset where the paragraph starting at text ends:
// the newline before a blank line, the newline before a column-zero fence or
// math line, or len(text). Indented fences (inside list items) are stepped
// over whole, so blank lines in them do not split the hunk.
func paragraphEnd(text string) int {
	lineStart := 0
	for {
		line := text[lineStart:lineEndAt(text, lineStart)]
		if delim, indent, ok := indentedDelimiter(line); ok {
			run := fenceRun(line[indent:], delim)
			end := closingAfter(text, lineStart+indent+len(run), run)
			if end < 0 {
				return len(text)
			}
			lineStart = end
		}

		lineEnd := lineEndAt(text, lineStart)
		if lineEnd >= len(text) {
			return len(text)
		}
		next := lineEnd + 1
		nextLine := text[next:lineEndAt(text, next)]
		if isBlank(nextLine) {
			return lineEnd
		}
		if _, ok := opaqueDelimiter(nextLine); ok {
			return lineEnd
		}
		lineStart = next
	}
}

// indentedDelimiter matches a fence or math delimiter preceded by spaces.
func indentedDelimiter(line string) (string, int, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	if indent == 0 {
		return "", 0, false
	}
	delim, ok := opaqueDelimiter(line[indent:])
	return delim, indent, ok
}

func lineEndAt(text string, from int) int {
	if i := strings.IndexByte(text[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(text)
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
