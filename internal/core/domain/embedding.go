package domain

import "time"

// ChunkMetadata describes how a stored vector was produced.
type ChunkMetadata struct {
	// Model is the embedding model identifier.
	Model string `json:"model,omitempty"`

	// GeneratedAt is when the vector was computed.
	GeneratedAt time.Time `json:"generatedAt"`

	// OwnerID is the user who triggered the embedding.
	OwnerID string `json:"ownerId,omitempty"`

	// ChunkSize is the window size used by the chunker, zero for direct embeds.
	ChunkSize int `json:"chunkSize,omitempty"`

	// Overlap is the chunker overlap, zero for direct embeds.
	Overlap int `json:"overlap,omitempty"`

	// TotalChunks is the number of chunks produced for the document.
	TotalChunks int `json:"totalChunks,omitempty"`

	// Extra holds open-ended string attributes.
	Extra map[string]string `json:"extra,omitempty"`
}

// ChunkEmbedding is one element of a whole-document replace.
// Its chunk index is its position in the replacement slice.
type ChunkEmbedding struct {
	Content  string
	Vector   []float64
	Metadata ChunkMetadata
}

// EmbeddingRecord is the persisted unit combining a chunk with its vector.
// (DocumentID, ChunkIndex) is unique.
type EmbeddingRecord struct {
	DocumentID string
	ChunkIndex int
	Content    string
	Vector     []float64
	Metadata   ChunkMetadata
}

// Candidate is an embedding record joined with its owning document.
type Candidate struct {
	EmbeddingRecord
	Document DocumentSummary
}

// CandidateFilter bounds a candidate scan.
type CandidateFilter struct {
	// Limit is the maximum number of records returned.
	Limit int

	// OwnerID restricts candidates to one user's documents when set.
	OwnerID string
}

// SimilarityResult is a candidate scored against a query vector.
type SimilarityResult struct {
	Candidate
	Similarity float64
}
