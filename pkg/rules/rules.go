// Package rules implements rule selection, ordering and keyword pattern
// compilation for the annotation engine.
//
// Selection and ordering are pure functions over rule slices. Pattern
// compilation turns a rule's keyword into a word-bounded regular expression
// with the keyword treated as a literal string.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// Select filters the rule set down to the rules applicable to a content item
// with the given type and id. Rules whose keyword is empty after trimming are
// silently excluded.
func Select(ruleSet []domain.LinkRule, itemType, itemID string) []domain.LinkRule {
	if len(ruleSet) == 0 {
		return nil
	}

	selected := make([]domain.LinkRule, 0, len(ruleSet))
	for _, rule := range ruleSet {
		if strings.TrimSpace(rule.Keyword) == "" {
			continue
		}
		if !rule.AppliesTo(itemType, itemID) {
			continue
		}
		selected = append(selected, rule)
	}
	if len(selected) == 0 {
		return nil
	}
	return selected
}

// Order sorts the selected rules into processing order: priority descending,
// then keyword length descending so longer, more specific phrases are linked
// before shorter ones that might be substrings of them. The sort is stable,
// so remaining ties keep insertion order.
func Order(selected []domain.LinkRule) []domain.LinkRule {
	if len(selected) == 0 {
		return nil
	}

	ordered := append([]domain.LinkRule(nil), selected...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return len(ordered[i].Keyword) > len(ordered[j].Keyword)
	})
	return ordered
}

// CompilePattern builds the rule's keyword pattern: the keyword as a literal
// string, anchored to a word boundary on the left, honoring CaseSensitive.
// The right edge is intentionally open: a keyword may match the prefix of a
// longer word ("shoe" links the "shoe" of "shoes"), and longer phrases beat
// their substrings through the orderer's length tie-break plus the
// transformer's overlap skip. Returns domain.ErrInvalidPattern (wrapped) if
// compilation fails, which should not occur for ordinary text.
func CompilePattern(rule domain.LinkRule) (*regexp.Regexp, error) {
	keyword := strings.TrimSpace(rule.Keyword)
	if keyword == "" {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, domain.ErrEmptyKeyword)
	}

	pattern := `\b` + regexp.QuoteMeta(keyword)
	if !rule.CaseSensitive {
		pattern = `(?i)` + pattern
	}

	expr, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w: %v", rule.ID, domain.ErrInvalidPattern, err)
	}
	return expr, nil
}
