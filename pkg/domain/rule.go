package domain

import (
	"net/url"
	"strings"
)

// LinkRule is an externally persisted keyword→link configuration. The engine
// only ever reads an immutable snapshot of the active rule set for the
// duration of one transform or audit call; rule lifecycle is owned by the
// RuleStore implementation.
type LinkRule struct {
	ID            string
	Keyword       string
	TargetURL     string
	CaseSensitive bool

	// LinkLimit caps matches consumed by this rule within one pass over one
	// content item. Zero means unlimited.
	LinkLimit int

	// Priority orders rule processing; higher values run first.
	Priority int

	// AllowedContentTypes restricts the rule to content items of these types.
	// An empty slice means the rule applies to all types.
	AllowedContentTypes []string

	// ExcludedContentIDs lists content items this rule must never touch.
	ExcludedContentIDs []string

	Nofollow     bool
	OpenInNewTab bool
}

// Validate reports whether the rule satisfies its structural invariants:
// trimmed non-empty keyword, parseable target URL, non-negative link limit.
func (r LinkRule) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return ErrEmptyKeyword
	}
	if _, err := url.Parse(r.TargetURL); err != nil || strings.TrimSpace(r.TargetURL) == "" {
		return ErrInvalidTargetURL
	}
	if r.LinkLimit < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// AppliesTo reports whether the rule is applicable to a content item with the
// given type and id: the type must be allowed (empty allow-list allows all)
// and the id must not be excluded.
func (r LinkRule) AppliesTo(itemType, itemID string) bool {
	for _, excluded := range r.ExcludedContentIDs {
		if excluded == itemID {
			return false
		}
	}
	if len(r.AllowedContentTypes) == 0 {
		return true
	}
	for _, allowed := range r.AllowedContentTypes {
		if allowed == itemType {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the rule to avoid shared mutable state.
func (r LinkRule) Clone() LinkRule {
	clone := r
	if len(r.AllowedContentTypes) > 0 {
		clone.AllowedContentTypes = append([]string(nil), r.AllowedContentTypes...)
	}
	if len(r.ExcludedContentIDs) > 0 {
		clone.ExcludedContentIDs = append([]string(nil), r.ExcludedContentIDs...)
	}
	return clone
}

// CloneRules deep-copies a rule slice.
func CloneRules(rules []LinkRule) []LinkRule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]LinkRule, len(rules))
	for i, rule := range rules {
		out[i] = rule.Clone()
	}
	return out
}

// RuleSnapshot is a point-in-time view of the active rule set.
type RuleSnapshot struct {
	Generation int64
	Rules      []LinkRule
}
