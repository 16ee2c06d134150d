package render

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/mdwiki/internal/hunk"
	"github.com/dgallion1/mdwiki/internal/stats"
)

func mustHTML(t *testing.T, r *Renderer, src string) string {
	t.Helper()
	html, err := r.HTML(src)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	return html
}

func assertContains(t *testing.T, html string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, html)
		}
	}
}

func TestRender_ImageOnlyParagraphUnwrapped(t *testing.T) {
	r := New(Config{})
	html := mustHTML(t, r, `![Diagram width-300 height-50% of things](/img/a.png "T")`)
	want := `<figure class="image-zoom" data-zoomable><img src="/img/a.png" alt="Diagram of things" title="T" style="max-width:300px;max-height:50%"><figcaption>Diagram</figcaption></figure>`
	if !strings.HasPrefix(html, want) {
		t.Errorf("expected output to start with %q, got %q", want, html)
	}
	if strings.Contains(html, "<p>") {
		t.Errorf("expected no paragraph wrapper, got %q", html)
	}
}

func TestRender_InlineImageIsSpan(t *testing.T) {
	html := mustHTML(t, New(Config{}), "See ![My cat width-300](a.png) here")
	assertContains(t, html,
		`<p>See <span class="image-zoom" data-zoomable><img src="a.png" alt="My cat" style="max-width:300px">`,
		`<span class="image-caption">My</span></span> here</p>`,
	)
	if strings.Contains(html, "<figure") {
		t.Errorf("expected no figure inside a paragraph, got %q", html)
	}
}

func TestRender_TableWrapped(t *testing.T) {
	html := mustHTML(t, New(Config{}), "| a | b |\n|---|---|\n| 1 | 2 |")
	assertContains(t, html, `<div class="table-wrapper"><table>`, "</table></div>")
}

func TestRender_CodeBlockTitleAndHighlight(t *testing.T) {
	src := "```go:main^file.go{2}\npackage main\nfunc main() {}\n```"
	html := mustHTML(t, New(Config{}), src)
	assertContains(t, html,
		`<div class="code-block"><div class="code-title">main file.go</div>`,
		`class="chroma"`,
		`class="line hl"`,
	)
}

func TestRender_UnknownLanguageFallsBackToPlain(t *testing.T) {
	html := mustHTML(t, New(Config{}), "```nosuchlang:A^B\nx < y\n```\n\n```\nplain\n```")
	assertContains(t, html,
		`<div class="code-block"><div class="code-title">A B</div><pre><code class="language-nosuchlang">x &lt; y`+"\n</code></pre></div>",
		"<div class=\"code-block\"><pre><code>plain\n</code></pre></div>",
	)
}

func TestRender_ExternalLinks(t *testing.T) {
	html := mustHTML(t, New(Config{}), "[out](https://example.com) [in](/wiki/page)")
	assertContains(t, html,
		`<a href="https://example.com" target="_blank" rel="noopener noreferrer">out</a>`,
		`<a href="/wiki/page">in</a>`,
	)
}

func TestRender_ResultCarriesTOC(t *testing.T) {
	res, err := New(Config{}).Render("# Alpha\n\ntext\n\n## Beta Gamma")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(res.TOC) != 2 || res.TOC[1].URL != "#beta-gamma" {
		t.Fatalf("unexpected TOC: %+v", res.TOC)
	}
	assertContains(t, res.HTML, `<h1 id="alpha">`, `<h2 id="beta-gamma">`)
}

func TestRender_EmptySource(t *testing.T) {
	res, err := New(Config{}).Render(" \n\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.HTML != "" {
		t.Errorf("expected empty HTML, got %q", res.HTML)
	}
	if res.TOC == nil || len(res.TOC) != 0 {
		t.Errorf("expected empty non-nil TOC, got %v", res.TOC)
	}
}

func TestRender_Sanitized(t *testing.T) {
	r := New(Config{Sanitize: true})
	html := mustHTML(t, r, "<script>alert(1)</script>\n\n! Heads up\n\n@[vid42]\n\n# Heading\n\n![cap width-10](a.png)")
	if strings.Contains(html, "<script") {
		t.Errorf("expected script removed, got:\n%s", html)
	}
	assertContains(t, html,
		`class="alert alert-info"`,
		`<iframe src="https://www.youtube-nocookie.com/embed/vid42"`,
		`id="heading"`,
		`<figcaption>cap</figcaption>`,
		"max-width",
	)
}

func TestRenderHunks_FootnotesTravelWithHunk(t *testing.T) {
	hunks := hunk.Segment("Claim[^1]\n\nOther text\n\n[^1]: the source")
	previews, err := New(Config{}).RenderHunks(hunks)
	if err != nil {
		t.Fatalf("RenderHunks: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(previews))
	}
	assertContains(t, previews[0], "the source", `role="doc-endnotes"`)
	if strings.Contains(previews[1], "the source") {
		t.Errorf("expected footnote only in first preview, got %q", previews[1])
	}
}

func TestRender_CacheAndStats(t *testing.T) {
	cache := NewCache(time.Minute, 8)
	rec := stats.NewRecorder(time.Hour)
	r := New(Config{}, WithCache(cache), WithStats(rec))

	first, err := r.Render("# Cached")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render("# Cached")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first.HTML != second.HTML {
		t.Errorf("expected identical results, got %q and %q", first.HTML, second.HTML)
	}
	if n := rec.Snapshot(OpRender).Count; n != 1 {
		t.Errorf("expected 1 uncached render recorded, got %d", n)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", cache.Len())
	}
}

func TestRender_ConcurrentDeterministic(t *testing.T) {
	r := New(Config{Sanitize: true})
	src := "# T\n\n!! warn\n\nx^2^ -> H~2~O $a+b$\n\n```go\nfmt.Println(1)\n```"
	want := mustHTML(t, r, src)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.HTML(src)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if got != want {
			t.Errorf("goroutine %d: output differs", i)
		}
	}
}

func TestStyleCSS(t *testing.T) {
	css, err := StyleCSS("github")
	if err != nil {
		t.Fatalf("StyleCSS: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("expected chroma classes in css, got %q", css)
	}
	if _, err := StyleCSS("no-such-style"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestRender_RejoinedHunksRenderTheSame(t *testing.T) {
	docs := []string{
		"Intro\n\n    indented code\n    more",
		"- item\n\n  continued paragraph of item\n\n- next",
		"````md\n```go\nx\n```\n\ny\n````\n\nafter",
		"Intro line\n```\ncode\n```\nTrailer",
		"1. one\n\n   ```\n   a\n\n   b\n   ```\n\n2. two",
		"A[^a]\n\nB\n\n[^a]: note",
	}
	r := New(Config{})
	for _, doc := range docs {
		want := mustHTML(t, r, doc)
		if got := mustHTML(t, r, hunk.Join(hunk.Segment(doc))); got != want {
			t.Errorf("doc %q: expected\n%s\ngot\n%s", doc, want, got)
		}
	}
}
