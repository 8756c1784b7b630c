// Package sanitize strips rich-text input down to a fixed allow-list before it is persisted.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	// block-level formatting
	p.AllowElements("p", "br", "hr", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "code")
	// inline emphasis
	p.AllowElements("strong", "b", "em", "i", "u", "s", "del", "mark", "sub", "sup")
	// lists
	p.AllowLists()

	// links keep only href, target and rel
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("rel").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	p.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(false)

	// outbound links open in a new tab with rel="noopener noreferrer"
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return p
}

// HTML returns s with every tag, attribute and URL scheme outside the allow-list removed.
func HTML(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// OptionalHTML sanitizes a nullable rich-text value.
func OptionalHTML(s *string) *string {
	if s == nil {
		return nil
	}
	clean := HTML(*s)
	return &clean
}
