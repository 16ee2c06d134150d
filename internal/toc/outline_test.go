package toc

import "testing"

func TestOutline_Nesting(t *testing.T) {
	entries := Extract("# Title\n## A\n### A1\n## B\n# Appendix")
	tree := Outline(entries)

	if len(tree) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(tree))
	}
	h1 := tree[0]
	if h1.Title != "Title" {
		t.Errorf("expected %q, got %q", "Title", h1.Title)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 children under Title, got %d", len(h1.Children))
	}
	if len(h1.Children[0].Children) != 1 || h1.Children[0].Children[0].Title != "A1" {
		t.Errorf("expected A1 nested under A, got %+v", h1.Children[0].Children)
	}
	if tree[1].Title != "Appendix" {
		t.Errorf("expected %q, got %q", "Appendix", tree[1].Title)
	}
}

func TestOutline_SkippedLevels(t *testing.T) {
	tree := Outline(Extract("# Top\n### Deep\n## Mid"))
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}
	if len(tree[0].Children) != 2 {
		t.Fatalf("expected Deep and Mid as siblings, got %d children", len(tree[0].Children))
	}
}

func TestOutline_StartsBelowH1(t *testing.T) {
	tree := Outline(Extract("## One\n## Two"))
	if len(tree) != 2 {
		t.Errorf("expected 2 roots, got %d", len(tree))
	}
}

func TestOutline_Empty(t *testing.T) {
	tree := Outline(nil)
	if tree == nil || len(tree) != 0 {
		t.Errorf("expected empty non-nil outline, got %v", tree)
	}
}
