package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

func TestMemoryRuleStore_ListAndGet(t *testing.T) {
	store := NewMemoryRuleStore([]domain.LinkRule{
		{ID: "a", Keyword: "alpha", TargetURL: "https://a.example"},
		{ID: "b", Keyword: "beta", TargetURL: "https://b.example"},
	})

	ruleSet, err := store.ListActiveRules(context.Background())
	require.NoError(t, err)
	assert.Len(t, ruleSet, 2)

	rule, err := store.GetRule(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "beta", rule.Keyword)

	_, err = store.GetRule(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestMemoryRuleStore_ListReturnsCopies(t *testing.T) {
	store := NewMemoryRuleStore([]domain.LinkRule{
		{ID: "a", Keyword: "alpha", TargetURL: "https://a.example"},
	})

	ruleSet, err := store.ListActiveRules(context.Background())
	require.NoError(t, err)
	ruleSet[0].Keyword = "mutated"

	again, err := store.ListActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alpha", again[0].Keyword)
}

func TestMemoryRuleStore_Replace(t *testing.T) {
	store := NewMemoryRuleStore(nil)
	store.Replace([]domain.LinkRule{{ID: "x", Keyword: "new", TargetURL: "https://x.example"}})

	rule, err := store.GetRule(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "new", rule.Keyword)
}

func TestMemoryContentStore_GetRawContent(t *testing.T) {
	store := NewMemoryContentStore()
	store.Put(domain.ContentItem{ID: "c1", Type: "post", RawMarkup: "<p>hello</p>"})

	item, err := store.GetRawContent(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", item.RawMarkup)

	_, err = store.GetRawContent(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestMemoryContentStore_FindCandidates(t *testing.T) {
	store := NewMemoryContentStore()
	store.Put(domain.ContentItem{ID: "c1", Type: "post", RawMarkup: "<p>Keyword here</p>"})
	store.Put(domain.ContentItem{ID: "c2", Type: "page", RawMarkup: "<p>keyword there</p>"})
	store.Put(domain.ContentItem{ID: "c3", Type: "post", RawMarkup: "<p>unrelated</p>"})
	store.Put(domain.ContentItem{ID: "c4", Type: "post", RawMarkup: "<p>keyword excluded</p>"})

	ctx := context.Background()

	// Case-insensitive substring containment.
	found, err := store.FindCandidates(ctx, "keyword", nil, nil)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	// Restricted to allowed types.
	found, err = store.FindCandidates(ctx, "keyword", []string{"post"}, nil)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Exclusions drop candidates.
	found, err = store.FindCandidates(ctx, "keyword", []string{"post"}, []string{"c4"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].ID)
}
