package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertionUnsafe_PlainText(t *testing.T) {
	content := "just some plain text"
	assert.False(t, InsertionUnsafe(content, 0))
	assert.False(t, InsertionUnsafe(content, 10))
}

func TestInsertionUnsafe_InsideTag(t *testing.T) {
	content := `<img src="keyword.png"> keyword`
	// Offset 10 is inside the src attribute.
	assert.True(t, InsertionUnsafe(content, 10))
	// Offset 24 is after the tag closed.
	assert.False(t, InsertionUnsafe(content, 24))
}

func TestInsertionUnsafe_InsideOpenAnchor(t *testing.T) {
	content := `<a href="x">keyword</a> keyword`
	// Offset 12 is the anchor's text.
	assert.True(t, InsertionUnsafe(content, 12))
	// Offset 24 is past the closing tag.
	assert.False(t, InsertionUnsafe(content, 24))
}

func TestInsertionUnsafe_AnchorCaseInsensitive(t *testing.T) {
	content := `<A HREF="x">keyword</A> tail`
	assert.True(t, InsertionUnsafe(content, 12))
	assert.False(t, InsertionUnsafe(content, 24))
}

func TestInsertionUnsafe_UnclosedTagAtStart(t *testing.T) {
	content := `<p class="intro`
	assert.True(t, InsertionUnsafe(content, len(content)))
}

func TestInsertionUnsafe_NegativeOffset(t *testing.T) {
	assert.True(t, InsertionUnsafe("text", -1))
}

func TestInsertionUnsafe_NestedContext(t *testing.T) {
	content := `<p>before <a href="x">inside</a> after</p>`
	// "before" text is safe.
	assert.False(t, InsertionUnsafe(content, 3))
	// "inside" is within the anchor.
	assert.True(t, InsertionUnsafe(content, 23))
	// "after" follows the closed anchor.
	assert.False(t, InsertionUnsafe(content, 33))
}
