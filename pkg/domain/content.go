package domain

// ContentItem is a read-only view of a piece of content supplied per call.
// The engine never mutates or persists it.
type ContentItem struct {
	ID        string
	Type      string
	Title     string
	RawMarkup string
}

// Match is an ephemeral, per-call record of one keyword occurrence. For the
// Transformer, offsets are byte positions in the content string being
// rewritten. For the Auditor, offsets are positions within one text node's
// value.
type Match struct {
	RuleID      string
	StartOffset int
	EndOffset   int
	MatchedText string
}

// UsageEntry describes keyword usage within a single content item.
type UsageEntry struct {
	ItemID        string `json:"item_id" yaml:"item_id"`
	Title         string `json:"title" yaml:"title"`
	Type          string `json:"type" yaml:"type"`
	Count         int    `json:"count" yaml:"count"`
	Excerpt       string `json:"excerpt" yaml:"excerpt"`
	EditReference string `json:"edit_reference,omitempty" yaml:"edit_reference,omitempty"`
}

// UsageReport aggregates keyword usage for one rule across a candidate
// corpus. It is the Auditor's output and is never persisted by the engine.
type UsageReport struct {
	ReportID          string       `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	RuleID            string       `json:"rule_id" yaml:"rule_id"`
	TotalCount        int          `json:"total_count" yaml:"total_count"`
	DistinctItemCount int          `json:"distinct_item_count" yaml:"distinct_item_count"`
	Entries           []UsageEntry `json:"entries" yaml:"entries"`
}
