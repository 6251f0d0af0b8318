package domain

import "context"

// RuleStore exposes read access to the active rule set. Create/update/delete
// is owned by the implementation; the engine only consumes snapshots.
type RuleStore interface {
	// ListActiveRules returns an immutable snapshot of the active rules.
	ListActiveRules(ctx context.Context) ([]LinkRule, error)

	// GetRule returns a single rule by id, or ErrRuleNotFound.
	GetRule(ctx context.Context, id string) (*LinkRule, error)
}

// ContentRepository exposes read access to the content corpus.
type ContentRepository interface {
	// GetRawContent returns the content item with the given id, or
	// ErrContentNotFound.
	GetRawContent(ctx context.Context, itemID string) (*ContentItem, error)

	// FindCandidates performs a coarse substring pre-filter over the corpus:
	// items whose raw markup contains the substring (case-insensitively),
	// restricted to the allowed types (empty means all) and excluding the
	// given ids. The precise matching pass re-validates every candidate.
	FindCandidates(ctx context.Context, substring string, allowedTypes, excludedIDs []string) ([]ContentItem, error)
}

// EditReferenceResolver maps a content item id to an editing URL. Used only
// to decorate usage report entries.
type EditReferenceResolver interface {
	EditURLFor(itemID string) string
}

// EditReferenceFunc adapts a plain function to the EditReferenceResolver
// interface.
type EditReferenceFunc func(itemID string) string

// EditURLFor implements EditReferenceResolver.
func (f EditReferenceFunc) EditURLFor(itemID string) string { return f(itemID) }
