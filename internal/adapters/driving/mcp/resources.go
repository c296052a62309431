package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for minereg resources.
	uriScheme = "minereg://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Regulatory documents registered by the user",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/chunks",
		Name:        "document-chunks",
		Description: "Ingested text chunks of a document, in order",
		MIMEType:    "text/plain",
	}, s.handleChunksResource)
}

// handleDocumentsResource returns the user's documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	docs, err := s.ports.Document.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", toolError(err))
	}

	type docInfo struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Type         string `json:"type"`
		Jurisdiction string `json:"jurisdiction"`
		Language     string `json:"language"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:           docs[i].ID,
			Title:        docs[i].Title,
			Type:         docs[i].Type.String(),
			Jurisdiction: docs[i].Jurisdiction,
			Language:     string(docs[i].Language),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleChunksResource returns a document's chunks separated by blank lines.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Document.Chunks(ctx, s.ports.UserID, docID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[chunk %d]\n%s", r.ChunkIndex, r.Content)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractDocumentID extracts the document ID from minereg://documents/{documentId}/chunks.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
