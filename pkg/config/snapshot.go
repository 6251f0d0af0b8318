// Package config loads link rule configuration from YAML or JSON files and
// exposes it as immutable snapshots, with optional hot reload through a file
// watcher. The engine itself never reads configuration; it is handed a rule
// slice per call.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// RuleSpec is the file representation of a link rule (DTO).
type RuleSpec struct {
	ID                  string   `json:"id" yaml:"id"`
	Keyword             string   `json:"keyword" yaml:"keyword"`
	TargetURL           string   `json:"target_url" yaml:"target_url"`
	CaseSensitive       bool     `json:"case_sensitive" yaml:"case_sensitive"`
	LinkLimit           int      `json:"link_limit" yaml:"link_limit"`
	Priority            int      `json:"priority" yaml:"priority"`
	AllowedContentTypes []string `json:"allowed_content_types" yaml:"allowed_content_types"`
	ExcludedContentIDs  []string `json:"excluded_content_ids" yaml:"excluded_content_ids"`
	Nofollow            bool     `json:"nofollow" yaml:"nofollow"`
	OpenInNewTab        bool     `json:"open_in_new_tab" yaml:"open_in_new_tab"`
}

// Snapshot is the immutable file representation of a rule set (DTO).
type Snapshot struct {
	Generation int64      `json:"generation" yaml:"generation"`
	ReceivedAt time.Time  `json:"-" yaml:"-"`
	Rules      []RuleSpec `json:"rules" yaml:"rules"`
}

// ToDomain converts the snapshot into domain rules. Malformed specs are
// skipped rather than failing the snapshot: an empty keyword or unparseable
// target URL drops the rule, a negative link limit is clamped to zero. The
// skipped ids are returned so callers can log them.
func (s Snapshot) ToDomain() (rules []domain.LinkRule, skipped []string) {
	for _, spec := range s.Rules {
		keyword := strings.TrimSpace(spec.Keyword)
		if keyword == "" {
			skipped = append(skipped, spec.ID)
			continue
		}
		target := strings.TrimSpace(spec.TargetURL)
		if target == "" {
			skipped = append(skipped, spec.ID)
			continue
		}
		if _, err := url.Parse(target); err != nil {
			skipped = append(skipped, spec.ID)
			continue
		}

		limit := spec.LinkLimit
		if limit < 0 {
			limit = 0
		}

		rules = append(rules, domain.LinkRule{
			ID:                  spec.ID,
			Keyword:             keyword,
			TargetURL:           target,
			CaseSensitive:       spec.CaseSensitive,
			LinkLimit:           limit,
			Priority:            spec.Priority,
			AllowedContentTypes: append([]string(nil), spec.AllowedContentTypes...),
			ExcludedContentIDs:  append([]string(nil), spec.ExcludedContentIDs...),
			Nofollow:            spec.Nofollow,
			OpenInNewTab:        spec.OpenInNewTab,
		})
	}
	return rules, skipped
}
