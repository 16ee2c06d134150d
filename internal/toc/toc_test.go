package toc

import (
	"testing"
)

func TestExtract_Basic(t *testing.T) {
	input := `# Title

Intro text.

## Section A

### Subsection A1

## Section B
`
	got := Extract(input)
	want := []Entry{
		{URL: "#title", Title: "Title", Depth: 1},
		{URL: "#section-a", Title: "Section A", Depth: 2},
		{URL: "#subsection-a1", Title: "Subsection A1", Depth: 3},
		{URL: "#section-b", Title: "Section B", Depth: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestExtract_FenceOpacity(t *testing.T) {
	input := "# Real\n\n```bash\n# not a heading\n## nor this\n```\n\n~~~\n# tilde fenced\n~~~\n\n$$\n# inside math\n$$\n\n## After"
	got := Extract(input)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Real" || got[1].Title != "After" {
		t.Errorf("unexpected titles: %+v", got)
	}
}

func TestExtract_UnterminatedFenceSwallowsRest(t *testing.T) {
	input := "# One\n\n```\n# two\n\n# three"
	got := Extract(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(got), got)
	}
}

func TestExtract_LongerFenceNeedsMatchingClose(t *testing.T) {
	input := "````md\n```\n# still code\n```\n````\n# Out"
	got := Extract(input)
	if len(got) != 1 || got[0].Title != "Out" {
		t.Fatalf("expected only %q, got %+v", "Out", got)
	}
}

func TestExtract_SingleLineMathDoesNotOpenBlock(t *testing.T) {
	input := "$$ x^2 $$\n# Heading"
	got := Extract(input)
	if len(got) != 1 || got[0].Title != "Heading" {
		t.Fatalf("expected heading after inline math block, got %+v", got)
	}
}

func TestExtract_NotHeadings(t *testing.T) {
	tests := []string{
		"#NoSpace",
		"####### seven",
		" # indented",
		"# ",
		"#",
		"text # not heading",
	}
	for _, in := range tests {
		if got := Extract(in); len(got) != 0 {
			t.Errorf("input %q: expected no entries, got %+v", in, got)
		}
	}
}

func TestExtract_ClosingHashesAndCRLF(t *testing.T) {
	got := Extract("## Setup ##\r\n### C# tips\r\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Title != "Setup" || got[0].URL != "#setup" {
		t.Errorf("expected closing hashes stripped, got %+v", got[0])
	}
	if got[1].Title != "C# tips" {
		t.Errorf("expected %q, got %q", "C# tips", got[1].Title)
	}
}

func TestExtract_DuplicateAnchorsKept(t *testing.T) {
	got := Extract("## Notes\n\n## Notes")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].URL != got[1].URL {
		t.Errorf("expected identical anchors, got %q and %q", got[0].URL, got[1].URL)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	got := Extract("")
	if got == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 entries, got %d", len(got))
	}
}

func TestAll_Restartable(t *testing.T) {
	seq := All("# A\n## B")
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 2 || b != 2 {
		t.Errorf("expected 2 entries on both passes, got %d and %d", a, b)
	}
}

func TestAll_EarlyBreak(t *testing.T) {
	for e := range All("# A\n# B\n# C") {
		if e.Title != "A" {
			t.Errorf("expected first entry %q, got %q", "A", e.Title)
		}
		break
	}
}
