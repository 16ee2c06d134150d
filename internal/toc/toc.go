// Package toc derives a heading outline straight from raw markdown source,
// without running the full parser.
package toc

import (
	"iter"
	"slices"
	"strings"

	"github.com/dgallion1/mdwiki/internal/anchor"
)

// Entry is one heading in the outline.
type Entry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// Extract returns every ATX heading outside fenced code and math blocks,
// in document order. The result is never nil.
func Extract(source string) []Entry {
	entries := slices.Collect(All(source))
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// All yields headings lazily. Each iteration rescans source.
func All(source string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		var fence fenceState
		for line := range lines(source) {
			if fence.step(line) {
				continue
			}
			e, ok := parseHeading(line)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// lines yields source line by line without the trailing "\n" or "\r\n".
func lines(source string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(source) > 0 {
			var line string
			if i := strings.IndexByte(source, '\n'); i >= 0 {
				line, source = source[:i], source[i+1:]
			} else {
				line, source = source, ""
			}
			if !yield(strings.TrimSuffix(line, "\r")) {
				return
			}
		}
	}
}

// parseHeading matches "#{1,6} .+" at column zero.
func parseHeading(line string) (Entry, bool) {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 {
		return Entry{}, false
	}
	if depth >= len(line)-1 || line[depth] != ' ' {
		return Entry{}, false
	}

	title := trimClosingHashes(strings.TrimSpace(line[depth+1:]))
	if title == "" {
		return Entry{}, false
	}
	return Entry{
		URL:   anchor.Derive(title),
		Title: title,
		Depth: depth,
	}, true
}

// trimClosingHashes drops an optional closing "###" sequence, which must be
// separated from the title by a space.
func trimClosingHashes(title string) string {
	end := len(title)
	for end > 0 && title[end-1] == '#' {
		end--
	}
	switch {
	case end == len(title):
		return title
	case end == 0:
		return ""
	case title[end-1] == ' ' || title[end-1] == '\t':
		return strings.TrimSpace(title[:end])
	}
	return title
}
