package hunk

import (
	"strings"
	"testing"
)

func assertHunks(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d hunks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSegment_Paragraphs(t *testing.T) {
	got := Segment("# Title\n\nFirst paragraph\nstill first.\n\n\n\nSecond.  \n")
	assertHunks(t, got, []string{
		"# Title",
		"First paragraph\nstill first.",
		"Second.",
	})
}

func TestSegment_WhitespaceOnlyLineSeparates(t *testing.T) {
	got := Segment("one\n   \ntwo")
	assertHunks(t, got, []string{"one", "two"})
}

func TestSegment_Empty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "  \t\n"} {
		got := Segment(in)
		if got == nil || len(got) != 0 {
			t.Errorf("input %q: expected empty non-nil slice, got %q", in, got)
		}
	}
}

func TestSegment_CodeFenceIsOpaque(t *testing.T) {
	input := "Text\n\n```go\nfunc main() {\n\n}\n```\n\nAfter"
	got := Segment(input)
	assertHunks(t, got, []string{
		"Text",
		"```go\nfunc main() {\n\n}\n```",
		"After",
	})
	if Classify(got[1]) != KindCode {
		t.Errorf("expected code kind, got %q", Classify(got[1]))
	}
}

func TestSegment_TildeFence(t *testing.T) {
	got := Segment("~~~\na\n\nb\n~~~")
	assertHunks(t, got, []string{"~~~\na\n\nb\n~~~"})
}

func TestSegment_MathBlock(t *testing.T) {
	got := Segment("$$\na^2\n\nb$$\n\nText")
	assertHunks(t, got, []string{"$$\na^2\n\nb$$", "Text"})
	if Classify(got[0]) != KindMath {
		t.Errorf("expected math kind, got %q", Classify(got[0]))
	}
	if Classify(got[1]) != KindParagraph {
		t.Errorf("expected paragraph kind, got %q", Classify(got[1]))
	}
}

func TestSegment_UnterminatedFenceRunsToEnd(t *testing.T) {
	input := "```js\nconst a = 1;\n\nconst b"
	got := Segment(input)
	assertHunks(t, got, []string{input})
}

func TestSegment_FenceInterruptsParagraph(t *testing.T) {
	got := Segment("Intro line\n```\ncode\n```")
	assertHunks(t, got, []string{"Intro line", "```\ncode\n```"})
}

func TestSegment_IndentedFenceStaysInListItem(t *testing.T) {
	input := "- item\n  ```\n  a\n\n  b\n  ```\n- next\n\nPara"
	got := Segment(input)
	assertHunks(t, got, []string{
		"- item\n  ```\n  a\n\n  b\n  ```\n- next",
		"Para",
	})
}

func TestSegment_KeepsIndentation(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Intro\n\n    indented code\n    more", []string{"Intro", "    indented code\n    more"}},
		{"- item\n\n  continued paragraph of item", []string{"- item", "  continued paragraph of item"}},
		{"\n  \n  lead", []string{"  lead"}},
	}
	for _, tt := range tests {
		assertHunks(t, Segment(tt.in), tt.want)
	}
}

func TestSegment_LongFenceClosesOnMatchingRun(t *testing.T) {
	assertHunks(t, Segment("````\ncode\n````\n\nafter"), []string{"````\ncode\n````", "after"})

	input := "````md\n```go\nx\n```\n\ny\n````"
	assertHunks(t, Segment(input), []string{input})
}

func TestSegment_IndentedLongFenceInListItem(t *testing.T) {
	input := "- item\n  ````\n  ```\n\n  ```\n  ````\n\nPara"
	assertHunks(t, Segment(input), []string{
		"- item\n  ````\n  ```\n\n  ```\n  ````",
		"Para",
	})
}

func TestSegment_FootnoteReattached(t *testing.T) {
	got := Segment("See this[^a].\n\nMiddle\n\n[^a]: the note")
	assertHunks(t, got, []string{
		"See this[^a].\n[^a]: the note",
		"Middle",
	})
}

func TestSegment_FootnoteEmittedOnce(t *testing.T) {
	docs := []string{
		"See[^a].\n\n[^a]: xyzzy",
		"[^a]: xyzzy\n\nSee[^a]",
		"A[^a]\n\nB[^a]\n\n[^a]: xyzzy",
		"A[^a] and again[^a]\n\n[^a]: xyzzy",
	}
	for _, doc := range docs {
		count := 0
		for _, h := range Segment(doc) {
			count += strings.Count(h, "xyzzy")
		}
		if count != 1 {
			t.Errorf("doc %q: expected definition in exactly one hunk, got %d", doc, count)
		}
	}
}

func TestSegment_FootnoteFirstReferenceWins(t *testing.T) {
	got := Segment("A[^n]\n\nB[^n]\n\n[^n]: note")
	assertHunks(t, got, []string{"A[^n]\n[^n]: note", "B[^n]"})
}

func TestSegment_FootnoteOrderFollowsReferences(t *testing.T) {
	got := Segment("X[^b] Y[^a]\n\n[^a]: first\n\n[^b]: second")
	assertHunks(t, got, []string{"X[^b] Y[^a]\n[^b]: second\n[^a]: first"})
}

func TestSegment_FootnoteInsideFenceIgnored(t *testing.T) {
	got := Segment("A[^x]\n\n```\n[^x]: fake\n```")
	assertHunks(t, got, []string{"A[^x]", "```\n[^x]: fake\n```"})
}

func TestSegment_FootnoteContinuationLines(t *testing.T) {
	got := Segment("A[^x]\n\n[^x]: first\n    second\n\nB")
	assertHunks(t, got, []string{"A[^x]\n[^x]: first\n    second", "B"})
}

func TestSegment_MissingFootnoteLeftAlone(t *testing.T) {
	got := Segment("A[^nope] and [^] and [^ x]")
	assertHunks(t, got, []string{"A[^nope] and [^] and [^ x]"})
}

func TestSegment_RejoinIsStable(t *testing.T) {
	docs := []string{
		"# Title\n\nIntro[^a]\n\n```go\nx := 1\n\ny := 2\n```\n\n$$\nE = mc^2\n$$\n\n- a\n- b\n\n[^a]: note\n",
		"Intro line\n```\ncode\n```\nTrailer",
		"A[^a]\n\nB[^a]\n\n[^a]: note",
		"```\nunterminated\n\nstill code",
		"Intro\n\n    indented code\n\n    more code\n\n- item\n\n  continued",
		"````\n```\n\n```\n````",
	}
	for _, doc := range docs {
		first := Segment(doc)
		second := Segment(Join(first))
		if len(first) != len(second) {
			t.Errorf("doc %q: hunk count changed from %d to %d", doc, len(first), len(second))
			continue
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("doc %q hunk %d: expected %q, got %q", doc, i, first[i], second[i])
			}
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"a", "b", "c"}); got != "a\n\nb\n\nc" {
		t.Errorf("expected %q, got %q", "a\n\nb\n\nc", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
