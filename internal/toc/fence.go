package toc

import "strings"

// fenceState tracks whether the scanner is inside a fenced code block
// (``` or ~~~) or a $$ math block.
type fenceState struct {
	char   byte // '`', '~' or '$'; zero when outside
	length int
}

// step consumes one line and reports whether it belongs to a fenced region,
// delimiter lines included.
func (f *fenceState) step(line string) bool {
	indent := 0
	for indent < len(line) && indent < 4 && line[indent] == ' ' {
		indent++
	}
	if indent > 3 {
		return f.char != 0
	}
	rest := line[indent:]

	if f.char != 0 {
		if f.char == '$' {
			// "\end{aligned} $$" closes the block too.
			if strings.Contains(rest, "$$") {
				f.char, f.length = 0, 0
			}
			return true
		}
		if n := runLength(rest, f.char); n >= f.length && strings.TrimSpace(rest[n:]) == "" {
			f.char, f.length = 0, 0
		}
		return true
	}

	switch {
	case strings.HasPrefix(rest, "```"), strings.HasPrefix(rest, "~~~"):
		f.char = rest[0]
		f.length = runLength(rest, f.char)
		return true
	case strings.HasPrefix(rest, "$$"):
		if strings.Contains(rest[2:], "$$") {
			// Single-line block: "$$ x^2 $$".
			return true
		}
		f.char, f.length = '$', 2
		return true
	}
	return false
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
