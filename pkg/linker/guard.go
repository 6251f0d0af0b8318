package linker

import (
	"regexp"
	"strings"
)

var (
	anchorOpenExpr  = regexp.MustCompile(`(?i)<a[\s>]`)
	anchorCloseExpr = regexp.MustCompile(`(?i)</a\s*>`)
)

// InsertionUnsafe reports whether the given offset in the content string is
// an unsafe place to insert markup. It is a lightweight heuristic over raw
// markup, not a full parse: the Transformer must run cheaply on every render
// of every content item.
//
// An offset is unsafe when either:
//   - the substring before it contains more anchor-opening tags than
//     anchor-closing tags, meaning the offset sits inside an already-open,
//     unclosed anchor; or
//   - the last '<' before the offset occurs after the last '>', meaning the
//     offset falls inside an open tag's angle brackets.
func InsertionUnsafe(content string, offset int) bool {
	if offset < 0 {
		return true
	}
	if offset > len(content) {
		offset = len(content)
	}
	prefix := content[:offset]

	opens := len(anchorOpenExpr.FindAllStringIndex(prefix, -1))
	closes := len(anchorCloseExpr.FindAllStringIndex(prefix, -1))
	if opens > closes {
		return true
	}

	lastOpen := strings.LastIndex(prefix, "<")
	lastClose := strings.LastIndex(prefix, ">")
	return lastOpen > lastClose
}
