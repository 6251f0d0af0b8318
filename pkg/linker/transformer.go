// Package linker implements the live transformer: it rewrites a content
// string at render time by inserting anchor elements around matching keyword
// occurrences under strict non-overlap and per-rule-limit constraints.
//
// The transformer operates on raw markup without a full parse. Structural
// safety of inserted anchors is enforced by two mechanisms: exclusion spans,
// which claim character ranges already occupied by inserted anchors, and the
// boundary guard heuristic in InsertionUnsafe.
//
// Transform is not idempotent on its own output. Callers must apply it
// exactly once, to the unannotated source, as the last step before caching or
// serving; the boundary guard only prevents re-linking text already inside an
// anchor, it does not make a second pass safe or cheap.
package linker

import (
	"html"
	"strings"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
	"github.com/linkweaver/linkweaver-oss/pkg/rules"
)

// Stats summarises one transform call.
type Stats struct {
	AnchorsInserted int
	SkippedOverlap  int
	SkippedBoundary int
	SkippedLimit    int
	RulesSkipped    int
}

// span is an exclusion span: a [start, end) range in the current content
// string already claimed by an inserted anchor. Scoped to one call.
type span struct {
	start int
	end   int
}

// Transform rewrites raw content by inserting anchors for every applicable
// rule, and returns the annotated content. A content item with no applicable
// rules is returned unchanged. Rule failures (empty keyword, pattern
// compilation) skip the offending rule and never fail the call: a rendering
// failure must never break page display.
func Transform(raw string, item domain.ContentItem, ruleSet []domain.LinkRule) string {
	annotated, _ := TransformWithStats(raw, item, ruleSet)
	return annotated
}

// TransformWithStats is Transform plus per-call counters for observability.
func TransformWithStats(raw string, item domain.ContentItem, ruleSet []domain.LinkRule) (string, Stats) {
	var stats Stats

	ordered := rules.Order(rules.Select(ruleSet, item.Type, item.ID))
	if len(ordered) == 0 {
		return raw, stats
	}

	content := raw
	var claimed []span

	for _, rule := range ordered {
		expr, err := rules.CompilePattern(rule)
		if err != nil {
			stats.RulesSkipped++
			continue
		}

		locs := expr.FindAllStringIndex(content, -1)
		inserted := 0

		// Apply matches in descending offset order: inserting a longer
		// replacement at a later position never shifts the offsets of
		// matches still pending at earlier positions in this same pass.
		for i := len(locs) - 1; i >= 0; i-- {
			start, end := locs[i][0], locs[i][1]

			if rule.LinkLimit > 0 && inserted >= rule.LinkLimit {
				stats.SkippedLimit++
				continue
			}
			if overlapsAny(claimed, start, end) {
				stats.SkippedOverlap++
				continue
			}
			if InsertionUnsafe(content, start) {
				stats.SkippedBoundary++
				continue
			}

			anchor := buildAnchor(rule, content[start:end])
			content = content[:start] + anchor + content[end:]

			// Keep previously claimed spans valid against the new string
			// coordinates before claiming the freshly inserted anchor.
			delta := len(anchor) - (end - start)
			shiftSpans(claimed, end, delta)
			claimed = append(claimed, span{start: start, end: start + len(anchor)})

			inserted++
			stats.AnchorsInserted++
		}
	}

	return content, stats
}

func overlapsAny(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// shiftSpans moves every span starting at or after from by delta.
func shiftSpans(claimed []span, from, delta int) {
	if delta == 0 {
		return
	}
	for i := range claimed {
		if claimed[i].start >= from {
			claimed[i].start += delta
			claimed[i].end += delta
		}
	}
}

// buildAnchor renders the anchor element wrapping the matched text. The rel
// attribute is composed from the rule's presentation flags; target="_blank"
// is added for rules that open in a new tab.
func buildAnchor(rule domain.LinkRule, matched string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(rule.TargetURL))
	b.WriteString(`"`)

	var rel []string
	if rule.Nofollow {
		rel = append(rel, "nofollow")
	}
	if rule.OpenInNewTab {
		rel = append(rel, "noopener", "noreferrer")
	}
	if len(rel) > 0 {
		b.WriteString(` rel="`)
		b.WriteString(strings.Join(rel, " "))
		b.WriteString(`"`)
	}
	if rule.OpenInNewTab {
		b.WriteString(` target="_blank"`)
	}

	b.WriteString(">")
	b.WriteString(matched)
	b.WriteString("</a>")
	return b.String()
}
