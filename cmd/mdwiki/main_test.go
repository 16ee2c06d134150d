package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	out := execute(t, "# Title\n\nH~2~O", "render")
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<sub>(2)</sub>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestRenderCommand_JSON(t *testing.T) {
	out := execute(t, "## Sub", "render", "--json", "-")
	var res struct {
		HTML string `json:"html"`
		TOC  []struct {
			URL string `json:"url"`
		} `json:"toc"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(res.TOC) != 1 || res.TOC[0].URL != "#sub" {
		t.Errorf("unexpected toc %+v", res.TOC)
	}
	renderCmd.Flags().Set("json", "false")
}

func TestHunksCommand(t *testing.T) {
	out := execute(t, "a\n\n```\nb\n\nc\n```", "hunks", "--kinds")
	var hunks []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &hunks); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(hunks) != 2 || hunks[1].Kind != "code" {
		t.Errorf("unexpected hunks %+v", hunks)
	}
	hunksCmd.Flags().Set("kinds", "false")
}

func TestTOCCommand_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(path, []byte("# A\n\n## B"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := execute(t, "", "toc", "--outline", path)
	if !strings.Contains(out, `"children"`) || !strings.Contains(out, `"#b"`) {
		t.Errorf("expected nested outline, got %s", out)
	}
	tocCmd.Flags().Set("outline", "false")
}

func TestImportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte("k,v\nx,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := execute(t, "", "import", path)
	want := "| k | v |\n| --- | --- |\n| x | 1 |\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestCSSCommand(t *testing.T) {
	if out := execute(t, "", "css", "monokai"); !strings.Contains(out, ".chroma") {
		t.Errorf("expected chroma css, got %q", out)
	}
}
