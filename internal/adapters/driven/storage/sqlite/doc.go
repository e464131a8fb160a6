// Package sqlite provides SQLite-backed implementations of the metadata
// store ports (documents, chunks, bibliographic references).
//
// A single Store owns the database connection and hands out typed
// wrappers for each port. The schema is managed through embedded SQL
// migrations applied at startup.
//
// Vectors are not stored here: the vector index persists itself in its
// own binary file, keyed to the embedding model.
package sqlite
