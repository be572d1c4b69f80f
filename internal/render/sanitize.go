package render

import "github.com/microcosm-cc/bluemonday"

// markupPolicy keeps table structure, simple inline formatting and class
// attributes. Everything else in verbatim cell text is stripped.
func markupPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("div", "table", "thead", "tbody", "tr", "th", "td")
	p.AllowElements("b", "strong", "i", "em", "u", "s", "del", "code", "span", "br")
	p.AllowElements("p", "h6", "hr")

	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(
		"div", "table", "tr", "th", "td", "span", "p", "code",
	)
	return p
}
