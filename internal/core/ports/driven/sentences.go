package driven

// SentenceSplitter segments text into sentence spans.
// Sentence-boundary detection is locale dependent and treated as an
// external capability; the chunker consumes it as a pure function.
type SentenceSplitter interface {
	// Split returns the ordered sentence spans covering text.
	// Spans are [Start, End) character offsets into the input.
	Split(text string) []SentenceSpan
}

// SentenceSpan is a half-open character range of one sentence.
type SentenceSpan struct {
	Start int
	End   int
}
