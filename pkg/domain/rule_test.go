package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkRuleValidate(t *testing.T) {
	valid := LinkRule{ID: "r1", Keyword: "go", TargetURL: "https://go.dev"}
	assert.NoError(t, valid.Validate())

	empty := valid
	empty.Keyword = "   "
	assert.ErrorIs(t, empty.Validate(), ErrEmptyKeyword)

	noURL := valid
	noURL.TargetURL = ""
	assert.ErrorIs(t, noURL.Validate(), ErrInvalidTargetURL)

	negative := valid
	negative.LinkLimit = -1
	assert.ErrorIs(t, negative.Validate(), ErrNegativeLimit)
}

func TestLinkRuleAppliesTo(t *testing.T) {
	rule := LinkRule{
		ID:                  "r1",
		Keyword:             "go",
		AllowedContentTypes: []string{"post", "page"},
		ExcludedContentIDs:  []string{"item-9"},
	}

	assert.True(t, rule.AppliesTo("post", "item-1"))
	assert.True(t, rule.AppliesTo("page", "item-1"))
	assert.False(t, rule.AppliesTo("product", "item-1"))
	assert.False(t, rule.AppliesTo("post", "item-9"))

	anyType := LinkRule{ID: "r2", Keyword: "go"}
	assert.True(t, anyType.AppliesTo("anything", "item-1"))
}

func TestLinkRuleClone(t *testing.T) {
	rule := LinkRule{
		ID:                  "r1",
		Keyword:             "go",
		AllowedContentTypes: []string{"post"},
	}

	clone := rule.Clone()
	clone.AllowedContentTypes[0] = "mutated"
	assert.Equal(t, "post", rule.AllowedContentTypes[0])
}
