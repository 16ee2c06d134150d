package hunk

import "strings"

// attachFootnotes appends the definition of every footnote h references but
// does not define, taking each definition out of the unread source so it is
// emitted exactly once. A definition already taken by an earlier hunk is not
// found again and the later reference stays unresolved.
func (s *scanner) attachFootnotes(h string) string {
	ids := references(h)
	if len(ids) == 0 {
		return h
	}

	var b strings.Builder
	b.WriteString(h)
	for _, id := range ids {
		if definitionAt(h, id) >= 0 {
			continue
		}
		def, ok := s.takeDefinition(id)
		if !ok {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(def)
	}
	return b.String()
}

// references returns the distinct footnote ids referenced as [^id] in text,
// in first-appearance order. A [^id]: at the start of a line is a
// definition, not a reference.
func references(text string) []string {
	var ids []string
	seen := map[string]bool{}

	for i := 0; i < len(text); {
		j := strings.Index(text[i:], "[^")
		if j < 0 {
			break
		}
		start := i + j
		id, end, ok := footnoteLabel(text, start)
		if !ok {
			i = start + 2
			continue
		}
		i = end
		atLineStart := start == 0 || text[start-1] == '\n'
		if atLineStart && end < len(text) && text[end] == ':' {
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// footnoteLabel parses "[^id]" at text[start:] and returns the id and the
// offset just past the closing bracket.
func footnoteLabel(text string, start int) (string, int, bool) {
	i := start + 2
	for i < len(text) {
		switch c := text[i]; c {
		case ']':
			if i == start+2 {
				return "", 0, false
			}
			return text[start+2 : i], i + 1, true
		case '[', ' ', '\t', '\n', '\r':
			return "", 0, false
		}
		i++
	}
	return "", 0, false
}

// definitionAt returns the offset of the line defining id in text, or -1.
// Lines inside fenced or math blocks are skipped.
func definitionAt(text, id string) int {
	marker := "[^" + id + "]:"
	lineStart := 0
	for lineStart < len(text) {
		line := text[lineStart:lineEndAt(text, lineStart)]

		if delim, ok := opaqueDelimiter(strings.TrimLeft(line, " ")); ok {
			from := lineStart + strings.Index(line, delim) + len(delim)
			i := strings.Index(text[from:], delim)
			if i < 0 {
				return -1
			}
			lineStart = lineEndAt(text, from+i) + 1
			continue
		}
		if strings.HasPrefix(line, marker) {
			return lineStart
		}
		lineStart += len(line) + 1
	}
	return -1
}

// takeDefinition removes the definition of id from the unread source and
// returns it: the definition line plus any indented continuation lines.
func (s *scanner) takeDefinition(id string) (string, bool) {
	rest := s.src[s.pos:]
	start := definitionAt(rest, id)
	if start < 0 {
		return "", false
	}

	end := lineEndAt(rest, start)
	for end < len(rest) {
		next := end + 1
		line := rest[next:lineEndAt(rest, next)]
		if isBlank(line) || !(strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")) {
			break
		}
		end = lineEndAt(rest, next)
	}

	def := strings.TrimRight(rest[start:end], " \t\r\n")
	cut := end
	if cut < len(rest) {
		cut++ // the newline ending the definition
	}
	s.src = s.src[:s.pos+start] + rest[cut:]
	return def, true
}
