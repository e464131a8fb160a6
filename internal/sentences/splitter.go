// Package sentences provides sentence-boundary detection for the chunker.
package sentences

import (
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.SentenceSplitter = (*Splitter)(nil)

// Splitter segments text into sentence spans using punctuation heuristics:
// a sentence ends at '.', '!' or '?' followed by whitespace, or at a blank
// line. Spans exclude surrounding whitespace so adjacent spans never overlap.
type Splitter struct{}

// NewSplitter creates a sentence splitter.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Split returns the ordered sentence spans covering text.
func (s *Splitter) Split(text string) []driven.SentenceSpan {
	var spans []driven.SentenceSpan
	start := -1

	flush := func(end int) {
		for end > start && isSpace(text[end-1]) {
			end--
		}
		if start >= 0 && end > start {
			spans = append(spans, driven.SentenceSpan{Start: start, End: end})
		}
		start = -1
	}

	i := 0
	for i < len(text) {
		c := text[i]

		if start == -1 {
			if isSpace(c) {
				i++
				continue
			}
			start = i
		}

		switch {
		case isTerminator(c):
			// Consume a run of terminators ("...", "?!").
			j := i + 1
			for j < len(text) && isTerminator(text[j]) {
				j++
			}
			if j >= len(text) || isSpace(text[j]) {
				flush(j)
			}
			i = j

		case c == '\n' && i+1 < len(text) && text[i+1] == '\n':
			// Blank line is a hard boundary even without punctuation.
			flush(i)
			i += 2

		default:
			i++
		}
	}

	flush(len(text))
	return spans
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
