// Package domain defines the core business entities for Veracite.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with provenance metadata
//   - Chunk: A sentence-bounded span of document text, the atomic retrieval unit
//   - Evidence: A retrieved chunk with its relevance scores
//   - Marker / ParagraphVerdict / ValidationReport: Citation coverage types
//   - Reference: An external bibliographic record
//   - SafeQuery: An outbound query constrained to an allow-listed vocabulary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
