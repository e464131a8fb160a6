package domain

import (
	"fmt"
	"strings"
)

// MarkerKind distinguishes internal chunk citations from external
// bibliographic references.
type MarkerKind string

// Marker kinds as they appear in generated text.
const (
	// MarkerInternal is an inline [SRC:<chunk_id>] citation.
	MarkerInternal MarkerKind = "SRC"

	// MarkerExternal is an inline [REF:<ref_id>] citation.
	MarkerExternal MarkerKind = "REF"
)

// Marker is a citation anchor parsed from generated text.
// Markers are never persisted independently of the text they annotate.
type Marker struct {
	// Kind is the marker variant (internal source or external reference).
	Kind MarkerKind

	// ID is the referenced chunk or reference identifier, matched
	// literally against the known id sets.
	ID string
}

// String renders the marker in its wire format, e.g. "[SRC:doc1:3]".
func (m Marker) String() string {
	return fmt.Sprintf("[%s:%s]", m.Kind, m.ID)
}

// Classification is the per-paragraph verdict of the citation validator.
type Classification string

// Paragraph classifications.
const (
	// ClassSourced means at least one marker resolves to a known id.
	ClassSourced Classification = "sourced"

	// ClassUnsourced means the paragraph has no marker, or only markers
	// referencing unknown ids.
	ClassUnsourced Classification = "unsourced"
)

// InferenceTag is appended to unsourced paragraphs so the report stays
// complete and auditable instead of silently losing content.
const InferenceTag = "*[Unsupported inference - no source]*"

// ParagraphVerdict is the validator's result for a single paragraph.
// Computed fresh per validation run; not persisted.
type ParagraphVerdict struct {
	// Text is the paragraph content as scanned.
	Text string

	// Markers are all citation markers found in the paragraph,
	// resolved or not.
	Markers []Marker

	// Class is the sourced/unsourced classification.
	Class Classification
}

// DanglingCitation records a marker referencing an id absent from the
// known chunk and reference sets. A dangling citation is a defect even
// inside an otherwise sourced paragraph.
type DanglingCitation struct {
	// Marker is the unresolved citation.
	Marker Marker

	// Paragraph is the index of the paragraph the marker appeared in.
	Paragraph int
}

// ValidationReport aggregates citation coverage over all paragraphs of a
// section or report.
type ValidationReport struct {
	// Verdicts holds the per-paragraph results in document order.
	Verdicts []ParagraphVerdict

	// Dangling lists every marker referencing an unknown id.
	Dangling []DanglingCitation

	// Sourced and Unsourced count classified paragraphs.
	Sourced   int
	Unsourced int

	// Strict records the mode the report was produced under.
	Strict bool
}

// Passed reports whether the validation succeeds under the active mode.
// In non-strict mode the report is advisory and always passes.
func (r *ValidationReport) Passed() bool {
	if !r.Strict {
		return true
	}
	return r.Unsourced == 0 && len(r.Dangling) == 0
}

// Summary renders a one-line human-readable overview.
func (r *ValidationReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "citation coverage: %d sourced, %d unsourced", r.Sourced, r.Unsourced)
	if len(r.Dangling) > 0 {
		ids := make([]string, 0, len(r.Dangling))
		for _, d := range r.Dangling {
			ids = append(ids, d.Marker.String())
		}
		fmt.Fprintf(&b, ", %d dangling (%s)", len(r.Dangling), strings.Join(ids, ", "))
	}
	return b.String()
}
