package audit

import (
	"strings"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// excerptSeparator joins per-item excerpts in a usage entry.
const excerptSeparator = " … "

// Auditor produces per-rule usage reports over a candidate corpus. The
// candidate set is expected to be pre-filtered externally (coarse substring
// containment, allowed types, exclusions, visibility); the auditor
// re-validates every candidate with the precise tree-scoped matcher.
type Auditor struct {
	// EditRefs decorates report entries with editing URLs. Optional.
	EditRefs domain.EditReferenceResolver
}

// Audit scans the candidate items for the rule's keyword and returns a usage
// report. Items with empty markup or zero surviving matches contribute
// nothing; a pattern compilation failure yields an empty report for this
// rule rather than an error surfaced per item.
func (a Auditor) Audit(rule domain.LinkRule, candidates []domain.ContentItem) domain.UsageReport {
	report := domain.UsageReport{RuleID: rule.ID}

	for _, item := range candidates {
		if strings.TrimSpace(item.RawMarkup) == "" {
			continue
		}

		matches, err := FindMatches(item, rule)
		if err != nil || len(matches) == 0 {
			continue
		}

		excerpts := make([]string, 0, len(matches))
		for _, m := range matches {
			excerpts = append(excerpts, BuildExcerpt(m.NodeText, m.Start, m.End-m.Start))
		}

		entry := domain.UsageEntry{
			ItemID:  item.ID,
			Title:   item.Title,
			Type:    item.Type,
			Count:   len(matches),
			Excerpt: strings.Join(excerpts, excerptSeparator),
		}
		if a.EditRefs != nil {
			entry.EditReference = a.EditRefs.EditURLFor(item.ID)
		}

		report.Entries = append(report.Entries, entry)
		report.TotalCount += len(matches)
		report.DistinctItemCount++
	}

	return report
}
