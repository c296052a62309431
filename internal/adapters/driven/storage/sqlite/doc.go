// Package sqlite provides the SQLite implementation of the document and
// vector store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Both stores share one connection pool:
//
//   - DocumentStore: Registered documents
//   - VectorStore: Chunk embeddings keyed by (document_id, chunk_index)
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Vectors
//
// Vectors are stored as little-endian IEEE-754 float64 BLOBs, so values
// round-trip without loss.
//
// # Data Location
//
// By default, the database is stored at ~/.minereg/data/minereg.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
