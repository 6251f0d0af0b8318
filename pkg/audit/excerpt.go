package audit

import (
	"html"
	"regexp"
)

const (
	// excerptLeadIn is the fixed number of characters taken before the match
	// start; the total window is the keyword length plus excerptWindow.
	excerptLeadIn = 30
	excerptWindow = 60

	ellipsis = "…"
)

// BuildExcerpt produces a bounded, ellipsis-truncated, highlight-wrapped
// excerpt around one match inside a text node. The raw window is HTML-escaped
// and the keyword is wrapped, case-insensitively, in a <mark> element for
// display purposes only.
func BuildExcerpt(nodeText string, matchOffset, keywordLength int) string {
	if matchOffset < 0 || keywordLength <= 0 || matchOffset >= len(nodeText) {
		return ""
	}

	winStart := matchOffset - excerptLeadIn
	if winStart < 0 {
		winStart = 0
	}
	winEnd := winStart + keywordLength + excerptWindow
	if winEnd > len(nodeText) {
		winEnd = len(nodeText)
	}

	kwEnd := matchOffset + keywordLength
	if kwEnd > len(nodeText) {
		kwEnd = len(nodeText)
	}
	keyword := nodeText[matchOffset:kwEnd]

	excerpt := nodeText[winStart:winEnd]
	if winStart > 0 {
		excerpt = ellipsis + excerpt
	}
	if winEnd < len(nodeText) {
		excerpt += ellipsis
	}

	escaped := html.EscapeString(excerpt)

	highlight, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(html.EscapeString(keyword)))
	if err != nil {
		return escaped
	}
	return highlight.ReplaceAllString(escaped, "<mark>$0</mark>")
}
