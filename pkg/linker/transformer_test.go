package linker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

func post(id string) domain.ContentItem {
	return domain.ContentItem{ID: id, Type: "post"}
}

func TestTransform_NoApplicableRules(t *testing.T) {
	raw := "nothing to see here"
	assert.Equal(t, raw, Transform(raw, post("p1"), nil))

	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "see", TargetURL: "https://example.com", AllowedContentTypes: []string{"page"}},
	}
	assert.Equal(t, raw, Transform(raw, post("p1"), ruleSet))
}

func TestTransform_SingleMatch(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "gopher", TargetURL: "https://go.dev"},
	}

	got := Transform("the gopher digs", post("p1"), ruleSet)
	assert.Equal(t, `the <a href="https://go.dev">gopher</a> digs`, got)
}

func TestTransform_PreservesMatchedCase(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "gopher", TargetURL: "https://go.dev"},
	}

	got := Transform("GOPHER alert", post("p1"), ruleSet)
	assert.Equal(t, `<a href="https://go.dev">GOPHER</a> alert`, got)
}

func TestTransform_PresentationFlags(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "docs", TargetURL: "https://example.com/docs", Nofollow: true, OpenInNewTab: true},
	}

	got := Transform("read the docs now", post("p1"), ruleSet)
	assert.Equal(t,
		`read the <a href="https://example.com/docs" rel="nofollow noopener noreferrer" target="_blank">docs</a> now`,
		got)
}

func TestTransform_NofollowOnly(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "docs", TargetURL: "https://example.com", Nofollow: true},
	}

	got := Transform("docs", post("p1"), ruleSet)
	assert.Equal(t, `<a href="https://example.com" rel="nofollow">docs</a>`, got)
}

func TestTransform_EscapesTargetURL(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "docs", TargetURL: `https://example.com/?a=1&b="x"`},
	}

	got := Transform("docs", post("p1"), ruleSet)
	assert.Contains(t, got, `href="https://example.com/?a=1&amp;b=&#34;x&#34;"`)
}

func TestTransform_LinkLimit(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "go", TargetURL: "https://go.dev", LinkLimit: 2},
	}

	got, stats := TransformWithStats("go go go go", post("p1"), ruleSet)
	assert.Equal(t, 2, strings.Count(got, "<a "))
	assert.Equal(t, 2, stats.AnchorsInserted)
	assert.Equal(t, 2, stats.SkippedLimit)
}

func TestTransform_ZeroLimitIsUnlimited(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "go", TargetURL: "https://go.dev", LinkLimit: 0},
	}

	got := Transform("go go go go go", post("p1"), ruleSet)
	assert.Equal(t, 5, strings.Count(got, "<a "))
}

func TestTransform_PriorityWinsOverlap(t *testing.T) {
	// Both keywords cover overlapping text; the higher priority rule links
	// it regardless of input order.
	ruleSet := []domain.LinkRule{
		{ID: "low", Keyword: "smart links", TargetURL: "https://low.example", Priority: 3},
		{ID: "high", Keyword: "smart", TargetURL: "https://high.example", Priority: 5},
	}

	got := Transform("use smart links wisely", post("p1"), ruleSet)
	assert.Contains(t, got, `<a href="https://high.example">smart</a>`)
	assert.NotContains(t, got, "https://low.example")
}

func TestTransform_LengthTieBreak(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "short", Keyword: "cat", TargetURL: "https://cat.example", Priority: 1},
		{ID: "long", Keyword: "category", TargetURL: "https://category.example", Priority: 1},
	}

	got := Transform("browse the category page", post("p1"), ruleSet)
	assert.Contains(t, got, `<a href="https://category.example">category</a>`)
	assert.NotContains(t, got, "https://cat.example")
}

func TestTransform_RunningShoeScenario(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "shoe", Keyword: "shoe", TargetURL: "https://example.com/shoe", Priority: 1},
		{ID: "running-shoe", Keyword: "running shoe", TargetURL: "https://example.com/running-shoe", Priority: 1},
	}

	got := Transform("I bought running shoes yesterday", post("p1"), ruleSet)
	assert.Equal(t,
		`I bought <a href="https://example.com/running-shoe">running shoe</a>s yesterday`,
		got)
}

func TestTransform_ExistingAnchorExcluded(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "keyword", TargetURL: "https://example.com"},
	}

	raw := `<a href='x'>keyword</a>`
	got, stats := TransformWithStats(raw, post("p1"), ruleSet)
	assert.Equal(t, raw, got)
	assert.Equal(t, 0, stats.AnchorsInserted)
	assert.Equal(t, 1, stats.SkippedBoundary)
}

func TestTransform_AttributeTextExcluded(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "keyword", TargetURL: "https://example.com"},
	}

	raw := `<img alt="keyword"> keyword`
	got := Transform(raw, post("p1"), ruleSet)
	assert.Equal(t, `<img alt="keyword"> <a href="https://example.com">keyword</a>`, got)
}

func TestTransform_SkipsDoNotConsumeLimit(t *testing.T) {
	// The first (lowest offset) occurrence sits inside an anchor; the limit
	// must still allow the free occurrence to be linked.
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "keyword", TargetURL: "https://example.com", LinkLimit: 1},
	}

	raw := `keyword <a href='x'>keyword</a>`
	got := Transform(raw, post("p1"), ruleSet)
	assert.Equal(t, `<a href="https://example.com">keyword</a> <a href='x'>keyword</a>`, got)
}

func TestTransform_DeterministicOnCleanInput(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "a", Keyword: "alpha", TargetURL: "https://a.example", Priority: 2},
		{ID: "b", Keyword: "beta", TargetURL: "https://b.example", Priority: 1},
	}
	raw := "alpha and beta walk into alpha"

	first := Transform(raw, post("p1"), ruleSet)
	second := Transform(raw, post("p1"), ruleSet)
	assert.Equal(t, first, second)
}

func TestTransform_MalformedRuleSkipped(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "bad", Keyword: "   ", TargetURL: "https://example.com", Priority: 9},
		{ID: "good", Keyword: "text", TargetURL: "https://example.com"},
	}

	got := Transform("some text", post("p1"), ruleSet)
	assert.Contains(t, got, `<a href="https://example.com">text</a>`)
}

func TestTransform_ExcludedContentID(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "r1", Keyword: "text", TargetURL: "https://example.com", ExcludedContentIDs: []string{"p1"}},
	}

	raw := "some text"
	assert.Equal(t, raw, Transform(raw, post("p1"), ruleSet))
	assert.NotEqual(t, raw, Transform(raw, post("p2"), ruleSet))
}

func TestTransform_MultipleRulesDistinctText(t *testing.T) {
	ruleSet := []domain.LinkRule{
		{ID: "a", Keyword: "alpha", TargetURL: "https://a.example"},
		{ID: "b", Keyword: "beta", TargetURL: "https://b.example"},
	}

	got := Transform("alpha meets beta", post("p1"), ruleSet)
	require.Contains(t, got, `<a href="https://a.example">alpha</a>`)
	require.Contains(t, got, `<a href="https://b.example">beta</a>`)
}

func TestTransform_LaterRuleDoesNotLinkInsideInsertedAnchor(t *testing.T) {
	// "dev" occurs inside the first rule's target URL once inserted; the
	// boundary guard and exclusion spans must prevent the second rule from
	// touching it.
	ruleSet := []domain.LinkRule{
		{ID: "a", Keyword: "golang", TargetURL: "https://go.dev/about", Priority: 2},
		{ID: "b", Keyword: "dev", TargetURL: "https://dev.example", Priority: 1},
	}

	got := Transform("golang rocks", post("p1"), ruleSet)
	assert.Equal(t, `<a href="https://go.dev/about">golang</a> rocks`, got)
}
