// Package domain defines the core business entities for minereg.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A registered regulatory document owned by one user
//   - Chunk: A contiguous window of document text
//   - EmbeddingRecord: A persisted chunk together with its vector
//   - SimilarityResult: A ranked, transient projection of a record
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
