package mcp

import (
	"context"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

var (
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
	_ driving.DocumentService  = (*mockDocumentService)(nil)
	_ driving.AnswerService    = (*mockAnswerService)(nil)
)

type mockAnswerService struct {
	result *domain.AnswerResult
	err    error

	lastUser string
	lastReq  domain.AnswerRequest
}

func (m *mockAnswerService) Answer(_ context.Context, userID string, req domain.AnswerRequest) (*domain.AnswerResult, error) {
	m.lastUser, m.lastReq = userID, req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockRetrievalService struct {
	ingestResult *domain.IngestResult
	queryResult  *domain.QueryResult
	embedResult  *domain.EmbedResult
	err          error

	lastUser   string
	lastIngest domain.IngestRequest
	lastQuery  domain.QueryRequest
	lastEmbed  domain.EmbedRequest
}

func (m *mockRetrievalService) Ingest(_ context.Context, userID string, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.lastUser, m.lastIngest = userID, req
	if m.err != nil {
		return nil, m.err
	}
	return m.ingestResult, nil
}

func (m *mockRetrievalService) EmbedText(_ context.Context, userID string, req domain.EmbedRequest) (*domain.EmbedResult, error) {
	m.lastUser, m.lastEmbed = userID, req
	if m.err != nil {
		return nil, m.err
	}
	return m.embedResult, nil
}

func (m *mockRetrievalService) Query(_ context.Context, userID string, req domain.QueryRequest) (*domain.QueryResult, error) {
	m.lastUser, m.lastQuery = userID, req
	if m.err != nil {
		return nil, m.err
	}
	return m.queryResult, nil
}

type mockDocumentService struct {
	docs   []domain.Document
	chunks []domain.EmbeddingRecord
	err    error
}

func (m *mockDocumentService) Register(context.Context, string, *domain.Document) error {
	return m.err
}

func (m *mockDocumentService) Get(_ context.Context, _, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(context.Context, string) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Delete(context.Context, string, string) error {
	return m.err
}

func (m *mockDocumentService) Chunks(context.Context, string, string) ([]domain.EmbeddingRecord, error) {
	return m.chunks, m.err
}
