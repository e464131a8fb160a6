// Package file provides a TOML-backed configuration store.
//
// Configuration lives in ~/.veracite/config.toml by default. Nested
// tables are flattened to dot-notation keys, so [retrieval] top_k = 8
// is read as "retrieval.top_k".
package file
