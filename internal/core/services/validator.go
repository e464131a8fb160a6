package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driving"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.ValidationService = (*ValidationService)(nil)

// Citation markers use a fixed, unambiguous wire format inside generated
// text: [SRC:<chunk_id>] for internal sources, [REF:<ref_id>] for external
// references. Both are matched literally against the known id sets.
var (
	markerRe    = regexp.MustCompile(`\[(SRC|REF):([^\]\s]+)\]`)
	paraSplitRe = regexp.MustCompile(`\n{2,}`)
)

// ValidationService enforces the claim-to-source rule: every substantive
// paragraph of generated text must carry at least one resolvable citation
// marker or be visibly tagged as an unsupported inference.
//
// Generator output is untrusted input. The validator re-derives every
// verdict from the text itself and the known id sets; it never assumes
// the generator followed its citation instructions.
type ValidationService struct {
	docStore driven.DocumentStore
	refStore driven.ReferenceStore
}

// NewValidationService creates a new citation validator.
func NewValidationService(docStore driven.DocumentStore, refStore driven.ReferenceStore) *ValidationService {
	return &ValidationService{
		docStore: docStore,
		refStore: refStore,
	}
}

// Validate classifies every paragraph and aggregates coverage. In strict
// mode any unsourced paragraph or dangling citation fails the call with a
// *domain.CoverageError carrying the full report; the report itself is
// returned alongside the error so callers can always show it.
func (s *ValidationService) Validate(ctx context.Context, text string, strict bool) (*domain.ValidationReport, error) {
	logger.Section("Citation Validation")

	chunkIDs, refIDs, err := s.knownIDs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Known ids: %d chunks, %d references", len(chunkIDs), len(refIDs))

	report := buildReport(text, chunkIDs, refIDs)
	report.Strict = strict

	logger.Info("%s", report.Summary())

	if !report.Passed() {
		return report, &domain.CoverageError{Report: *report}
	}
	return report, nil
}

// Annotate appends the inference tag to every unsourced paragraph and
// returns the annotated text. Paragraphs are never deleted: the report
// must remain complete and auditable.
func (s *ValidationService) Annotate(ctx context.Context, text string) (string, error) {
	chunkIDs, refIDs, err := s.knownIDs(ctx)
	if err != nil {
		return "", err
	}

	paragraphs := paraSplitRe.Split(text, -1)
	annotated := make([]string, 0, len(paragraphs))
	tagged := 0

	for _, para := range paragraphs {
		stripped := strings.TrimSpace(para)
		if stripped == "" {
			continue
		}
		if isStructural(stripped) ||
			strings.HasSuffix(stripped, domain.InferenceTag) ||
			classify(stripped, chunkIDs, refIDs) == domain.ClassSourced {
			annotated = append(annotated, para)
			continue
		}
		annotated = append(annotated, strings.TrimRight(para, " \t\n")+"\n"+domain.InferenceTag)
		tagged++
	}

	if tagged > 0 {
		logger.Info("Annotated %d unsourced paragraph(s)", tagged)
	}
	return strings.Join(annotated, "\n\n"), nil
}

// knownIDs loads the chunk and reference id sets the markers resolve
// against. A missing reference store simply means no external ids.
func (s *ValidationService) knownIDs(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	chunkIDs, err := s.docStore.ChunkIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading chunk ids: %w", err)
	}

	refIDs := map[string]struct{}{}
	if s.refStore != nil {
		refIDs, err = s.refStore.ReferenceIDs(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading reference ids: %w", err)
		}
	}
	return chunkIDs, refIDs, nil
}

// buildReport runs the per-paragraph state machine:
// Start -> ScanMarkers -> Classify -> {Sourced, Unsourced}.
func buildReport(text string, chunkIDs, refIDs map[string]struct{}) *domain.ValidationReport {
	report := &domain.ValidationReport{}

	for _, para := range paraSplitRe.Split(text, -1) {
		stripped := strings.TrimSpace(para)
		if stripped == "" || isStructural(stripped) {
			continue
		}

		markers := scanMarkers(stripped)
		verdict := domain.ParagraphVerdict{
			Text:    stripped,
			Markers: markers,
			Class:   domain.ClassUnsourced,
		}
		paraIdx := len(report.Verdicts)

		for _, m := range markers {
			if resolves(m, chunkIDs, refIDs) {
				verdict.Class = domain.ClassSourced
			} else {
				// A dangling citation is a defect even inside an
				// otherwise sourced paragraph.
				report.Dangling = append(report.Dangling, domain.DanglingCitation{
					Marker:    m,
					Paragraph: paraIdx,
				})
			}
		}

		if verdict.Class == domain.ClassSourced {
			report.Sourced++
		} else {
			report.Unsourced++
		}
		report.Verdicts = append(report.Verdicts, verdict)
	}

	return report
}

// scanMarkers extracts all citation markers from a paragraph.
func scanMarkers(para string) []domain.Marker {
	matches := markerRe.FindAllStringSubmatch(para, -1)
	if len(matches) == 0 {
		return nil
	}
	markers := make([]domain.Marker, len(matches))
	for i, m := range matches {
		markers[i] = domain.Marker{Kind: domain.MarkerKind(m[1]), ID: m[2]}
	}
	return markers
}

// classify is the paragraph-level verdict without defect tracking.
func classify(para string, chunkIDs, refIDs map[string]struct{}) domain.Classification {
	for _, m := range scanMarkers(para) {
		if resolves(m, chunkIDs, refIDs) {
			return domain.ClassSourced
		}
	}
	return domain.ClassUnsourced
}

func resolves(m domain.Marker, chunkIDs, refIDs map[string]struct{}) bool {
	switch m.Kind {
	case domain.MarkerInternal:
		_, ok := chunkIDs[m.ID]
		return ok
	case domain.MarkerExternal:
		_, ok := refIDs[m.ID]
		return ok
	default:
		return false
	}
}

// isStructural reports whether a paragraph is markdown structure
// (heading, code, table, list, rule) rather than report prose. Structure
// carries no claims, so it is exempt from the claim-to-source rule.
func isStructural(para string) bool {
	switch {
	case strings.HasPrefix(para, "#"),
		strings.HasPrefix(para, "```"),
		strings.HasPrefix(para, "    "),
		strings.HasPrefix(para, "|"),
		strings.HasPrefix(para, "---"),
		strings.HasPrefix(para, "==="),
		strings.HasPrefix(para, domain.InferenceTag):
		return true
	}
	if listItemRe.MatchString(para) {
		return true
	}
	return false
}

var listItemRe = regexp.MustCompile(`^(\d+\.|[-*])\s`)
