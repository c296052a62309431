package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of a registered document owned by the user"`
	Content    string `json:"content" jsonschema:"full document text; replaces any previously ingested text"`
	ChunkSize  int    `json:"chunk_size,omitempty" jsonschema:"characters per chunk (default 1000)"`
	Overlap    *int   `json:"overlap,omitempty" jsonschema:"characters shared by consecutive chunks (default 200)"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID          string `json:"document_id"`
	ChunksProcessed     int    `json:"chunks_processed"`
	EmbeddingsGenerated int    `json:"embeddings_generated"`
}

// QueryInput is the input schema for the query_documents tool.
type QueryInput struct {
	Query     string   `json:"query" jsonschema:"natural-language question about mining regulation"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 10)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity in [0,1] (default 0.7)"`
}

// QueryOutput is the output schema for the query_documents tool.
type QueryOutput struct {
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// QueryResultOutput represents a single ranked chunk.
type QueryResultOutput struct {
	DocumentID   string  `json:"document_id"`
	ChunkIndex   int     `json:"chunk_index"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	Jurisdiction string  `json:"jurisdiction"`
	Language     string  `json:"language"`
	Similarity   float64 `json:"similarity"`
	Content      string  `json:"content"`
}

// EmbedInput is the input schema for the embed_text tool.
type EmbedInput struct {
	Text       string   `json:"text,omitempty" jsonschema:"a single text to embed"`
	Texts      []string `json:"texts,omitempty" jsonschema:"several texts to embed; mutually exclusive with text"`
	DocumentID string   `json:"document_id,omitempty" jsonschema:"store a single text as chunk 0 of this document"`
}

// EmbedOutput is the output schema for the embed_text tool.
type EmbedOutput struct {
	Embeddings     [][]float64 `json:"embeddings"`
	ProcessedCount int         `json:"processed_count"`
	Model          string      `json:"model"`
	Persisted      bool        `json:"persisted"`
}

// AnswerInput is the input schema for the answer_question tool.
type AnswerInput struct {
	Question     string   `json:"question" jsonschema:"legal question about mining regulation"`
	Jurisdiction string   `json:"jurisdiction,omitempty" jsonschema:"jurisdiction the answer applies to (default federal)"`
	Language     string   `json:"language,omitempty" jsonschema:"answer language, en or fr (default en)"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum number of passages given to the model (default 5)"`
	Threshold    *float64 `json:"threshold,omitempty" jsonschema:"minimum cosine similarity in [0,1] (default 0.7)"`
}

// AnswerOutput is the output schema for the answer_question tool.
type AnswerOutput struct {
	Answer       string              `json:"answer"`
	Jurisdiction string              `json:"jurisdiction"`
	Language     string              `json:"language"`
	Model        string              `json:"model,omitempty"`
	Sources      []QueryResultOutput `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Chunk, embed and store the text of a registered regulatory document",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "query_documents",
		Description: "Find the document passages most similar to a question. " +
			"Only the first candidate_limit stored chunks are considered.",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "embed_text",
		Description: "Compute embedding vectors for raw text",
	}, s.handleEmbed)

	if s.ports.Answers != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name: "answer_question",
			Description: "Draft an answer to a legal question from the user's documents. " +
				"Sources are numbered in the order the answer cites them as [n].",
		}, s.handleAnswer)
	}
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	res, err := s.ports.Retrieval.Ingest(ctx, s.ports.UserID, domain.IngestRequest{
		DocumentID: input.DocumentID,
		Content:    input.Content,
		ChunkSize:  input.ChunkSize,
		Overlap:    input.Overlap,
	})
	if err != nil {
		return nil, IngestOutput{}, toolError(err)
	}

	return nil, IngestOutput{
		DocumentID:          res.DocumentID,
		ChunksProcessed:     res.ChunksProcessed,
		EmbeddingsGenerated: res.EmbeddingsGenerated,
	}, nil
}

// handleQuery handles the query_documents tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	res, err := s.ports.Retrieval.Query(ctx, s.ports.UserID, domain.QueryRequest{
		Text:      input.Query,
		Limit:     input.Limit,
		Threshold: input.Threshold,
	})
	if err != nil {
		return nil, QueryOutput{}, toolError(err)
	}

	return nil, QueryOutput{
		Results: toResultOutputs(res.Results),
		Count:   len(res.Results),
	}, nil
}

// handleAnswer handles the answer_question tool invocation.
func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	res, err := s.ports.Answers.Answer(ctx, s.ports.UserID, domain.AnswerRequest{
		Question:     input.Question,
		Jurisdiction: input.Jurisdiction,
		Language:     domain.Language(input.Language),
		Limit:        input.Limit,
		Threshold:    input.Threshold,
	})
	if err != nil {
		return nil, AnswerOutput{}, toolError(err)
	}

	return nil, AnswerOutput{
		Answer:       res.Answer,
		Jurisdiction: res.Jurisdiction,
		Language:     string(res.Language),
		Model:        res.Model,
		Sources:      toResultOutputs(res.Sources),
	}, nil
}

func toResultOutputs(hits []domain.QueryHit) []QueryResultOutput {
	out := make([]QueryResultOutput, len(hits))
	for i, hit := range hits {
		out[i] = QueryResultOutput{
			DocumentID:   hit.DocumentID,
			ChunkIndex:   hit.ChunkIndex,
			Title:        hit.Document.Title,
			Type:         hit.Document.Type.String(),
			Jurisdiction: hit.Document.Jurisdiction,
			Language:     string(hit.Document.Language),
			Similarity:   hit.Similarity,
			Content:      hit.Content,
		}
	}
	return out
}

// handleEmbed handles the embed_text tool invocation.
func (s *Server) handleEmbed(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EmbedInput,
) (*mcp.CallToolResult, EmbedOutput, error) {
	res, err := s.ports.Retrieval.EmbedText(ctx, s.ports.UserID, domain.EmbedRequest{
		Text:       input.Text,
		Texts:      input.Texts,
		DocumentID: input.DocumentID,
	})
	if err != nil {
		return nil, EmbedOutput{}, toolError(err)
	}

	return nil, EmbedOutput{
		Embeddings:     res.Embeddings,
		ProcessedCount: res.ProcessedCount,
		Model:          res.Model,
		Persisted:      res.Persisted,
	}, nil
}
