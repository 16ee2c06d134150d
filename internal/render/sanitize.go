package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classPattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)
	idPattern    = regexp.MustCompile(`^[\p{L}\p{N}\p{M}:._-]+$`)
	rolePattern  = regexp.MustCompile(`^(alert|doc-endnotes|doc-noteref|doc-backlink)$`)
)

// newPolicy extends the UGC policy with the markup the dialect and the
// node renderers emit. Embeds are only kept when they point at embedBaseURL.
func newPolicy(embedBaseURL string) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("div", "span", "section", "figure", "figcaption", "sup", "sub")
	p.AllowAttrs("class").Matching(classPattern).Globally()
	p.AllowAttrs("id").Matching(idPattern).Globally()
	p.AllowAttrs("role").Matching(rolePattern).Globally()
	p.AllowDataAttributes()

	p.AllowStyles("max-width", "max-height").OnElements("img")
	p.AllowStyles("text-align").OnElements("th", "td")

	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(regexp.MustCompile("^" + regexp.QuoteMeta(embedBaseURL))).OnElements("iframe")
	p.AllowAttrs("title", "loading", "allowfullscreen").OnElements("iframe")

	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	return p
}
