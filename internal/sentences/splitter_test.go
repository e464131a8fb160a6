package sentences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentencesOf(t *testing.T, text string) []string {
	t.Helper()
	spans := NewSplitter().Split(text)
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = text[sp.Start:sp.End]
	}
	return out
}

func TestSplit_Basic(t *testing.T) {
	got := sentencesOf(t, "First sentence. Second one! Third?")
	assert.Equal(t, []string{"First sentence.", "Second one!", "Third?"}, got)
}

func TestSplit_BlankLineBoundary(t *testing.T) {
	got := sentencesOf(t, "A heading without punctuation\n\nNext paragraph.")
	assert.Equal(t, []string{"A heading without punctuation", "Next paragraph."}, got)
}

func TestSplit_EllipsisAndClusters(t *testing.T) {
	got := sentencesOf(t, "Wait... Really?! Yes.")
	assert.Equal(t, []string{"Wait...", "Really?!", "Yes."}, got)
}

func TestSplit_NoTerminator(t *testing.T) {
	got := sentencesOf(t, "trailing text without punctuation")
	assert.Equal(t, []string{"trailing text without punctuation"}, got)
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, NewSplitter().Split(""))
	assert.Empty(t, NewSplitter().Split("   \n\n  "))
}

func TestSplit_DecimalNotSplit(t *testing.T) {
	// A period inside a number is not followed by whitespace.
	got := sentencesOf(t, "The value is 3.14 exactly. Done.")
	assert.Equal(t, []string{"The value is 3.14 exactly.", "Done."}, got)
}

func TestSplit_SpansAreOrderedAndDisjoint(t *testing.T) {
	text := "One. Two. Three.\n\nFour without end"
	spans := NewSplitter().Split(text)
	require.NotEmpty(t, spans)
	for i := 1; i < len(spans); i++ {
		assert.GreaterOrEqual(t, spans[i].Start, spans[i-1].End)
	}
}
