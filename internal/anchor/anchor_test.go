package anchor

import "testing"

func TestDerive(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "#hello-world"},
		{"  Hello \t  World  ", "#hello-world"},
		{"", ""},
		{"   ", ""},
		{"!!! ???", ""},
		{"fooBar baz", "#foo-bar-baz"},
		{"XMLHttpRequest", "#xml-http-request"},
		{"Don't panic", "#dont-panic"},
		{"C++ & Go", "#c-go"},
		{"Version 2.0 notes", "#version-2-0-notes"},
		{"**Bold** title", "#bold-title"},
		{"안녕 하세요", "#안녕-하세요"},
		{"Ünïcödé Straße", "#ünïcödé-straße"},
	}
	for _, tt := range tests {
		if got := Derive(tt.in); got != tt.want {
			t.Errorf("Derive(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a := Derive("Hello World")
	b := Derive("Hello World")
	if a != b {
		t.Errorf("expected identical anchors, got %q and %q", a, b)
	}
}

func TestDerive_HangulNotCorrupted(t *testing.T) {
	// Decomposed jamo must come out composed, never split mid-rune.
	decomposed := "\u1112\u1161\u11ab\u1100\u1173\u11af"
	if got := Derive(decomposed); got != "#한글" {
		t.Errorf("expected %q, got %q", "#한글", got)
	}
}

func TestID_NoPrefix(t *testing.T) {
	if got := ID("Getting Started"); got != "getting-started" {
		t.Errorf("expected %q, got %q", "getting-started", got)
	}
}

func TestDerive_DuplicatesNotDisambiguated(t *testing.T) {
	if Derive("Notes") != Derive("notes") {
		t.Error("expected headings with the same words to share an anchor")
	}
}
