package domain

// Retrieval defaults applied at the API boundary.
const (
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultQueryLimit     = 10
	DefaultThreshold      = 0.7
	DefaultCandidateLimit = 1000
)

// IngestRequest asks for a document's text to be chunked, embedded and stored.
// Zero ChunkSize and nil Overlap select the configured defaults.
type IngestRequest struct {
	DocumentID string
	Content    string
	ChunkSize  int
	Overlap    *int
	Model      string
}

// IngestResult reports the outcome of an ingest.
type IngestResult struct {
	DocumentID          string `json:"documentId"`
	ChunksProcessed     int    `json:"chunksProcessed"`
	EmbeddingsGenerated int    `json:"embeddingsGenerated"`

	// Format is the detected file format for file ingests, empty otherwise.
	Format string `json:"format,omitempty"`
}

// EmbedRequest asks for raw embeddings. Exactly one of Text or Texts is set.
type EmbedRequest struct {
	Text       string
	Texts      []string
	DocumentID string
	Model      string
}

// EmbedResult carries computed vectors in input order.
type EmbedResult struct {
	Embeddings     [][]float64 `json:"embeddings"`
	ProcessedCount int         `json:"processedCount"`
	Model          string      `json:"model"`
	// Persisted reports whether the single-text embedding was stored.
	Persisted bool `json:"persisted"`
}

// QueryRequest asks for the chunks most similar to a text.
// Zero Limit and nil Threshold select the configured defaults.
type QueryRequest struct {
	Text      string
	Limit     int
	Threshold *float64
	Model     string
}

// QueryHit is one ranked query result.
type QueryHit struct {
	DocumentID string          `json:"documentId"`
	ChunkIndex int             `json:"chunkIndex"`
	Content    string          `json:"content"`
	Similarity float64         `json:"similarity"`
	Document   DocumentSummary `json:"document"`
}

// QueryResult is the ranked answer to a query.
type QueryResult struct {
	Query   string     `json:"query"`
	Results []QueryHit `json:"results"`
	// Candidates is the size of the pool that was scanned.
	Candidates int `json:"candidates"`
}

// NewQueryHit projects a similarity result to its response shape.
func NewQueryHit(r SimilarityResult) QueryHit {
	return QueryHit{
		DocumentID: r.DocumentID,
		ChunkIndex: r.ChunkIndex,
		Content:    r.Content,
		Similarity: r.Similarity,
		Document:   r.Document,
	}
}
