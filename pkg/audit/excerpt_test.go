package audit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildExcerpt_MiddleOfLongText(t *testing.T) {
	text := strings.Repeat("a", 100) + "keyword" + strings.Repeat("b", 93)
	excerpt := BuildExcerpt(text, 100, 7)

	assert.True(t, strings.HasPrefix(excerpt, ellipsis))
	assert.True(t, strings.HasSuffix(excerpt, ellipsis))
	assert.Contains(t, excerpt, "<mark>keyword</mark>")

	// Window is at most 30 + keyword + 60 characters plus two ellipses,
	// before highlight markup.
	plain := strings.NewReplacer("<mark>", "", "</mark>", "").Replace(excerpt)
	assert.LessOrEqual(t, utf8.RuneCountInString(plain), 30+7+60+2)
}

func TestBuildExcerpt_AtTextStart(t *testing.T) {
	text := "keyword and then a long tail that exceeds the window size for sure, definitely long enough"
	excerpt := BuildExcerpt(text, 0, 7)

	assert.False(t, strings.HasPrefix(excerpt, ellipsis))
	assert.True(t, strings.HasSuffix(excerpt, ellipsis))
	assert.Contains(t, excerpt, "<mark>keyword</mark>")
}

func TestBuildExcerpt_AtTextEnd(t *testing.T) {
	text := strings.Repeat("x", 50) + " keyword"
	excerpt := BuildExcerpt(text, 51, 7)

	assert.True(t, strings.HasPrefix(excerpt, ellipsis))
	assert.False(t, strings.HasSuffix(excerpt, ellipsis))
	assert.Contains(t, excerpt, "<mark>keyword</mark>")
}

func TestBuildExcerpt_ShortTextNoEllipses(t *testing.T) {
	text := "short keyword text"
	excerpt := BuildExcerpt(text, 6, 7)

	assert.Equal(t, "short <mark>keyword</mark> text", excerpt)
}

func TestBuildExcerpt_EscapesMarkup(t *testing.T) {
	text := `x <b>bold</b> keyword & more`
	excerpt := BuildExcerpt(text, 14, 7)

	assert.Contains(t, excerpt, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, excerpt, "&amp; more")
	assert.Contains(t, excerpt, "<mark>keyword</mark>")
	assert.NotContains(t, excerpt, "<b>")
}

func TestBuildExcerpt_HighlightIsCaseInsensitive(t *testing.T) {
	text := "find KEYWORD here and keyword there"
	excerpt := BuildExcerpt(text, 5, 7)

	assert.Contains(t, excerpt, "<mark>KEYWORD</mark>")
	assert.Contains(t, excerpt, "<mark>keyword</mark>")
}

func TestBuildExcerpt_InvalidArguments(t *testing.T) {
	assert.Empty(t, BuildExcerpt("text", -1, 3))
	assert.Empty(t, BuildExcerpt("text", 0, 0))
	assert.Empty(t, BuildExcerpt("text", 10, 3))
}
