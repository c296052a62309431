package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

type embedRequest struct {
	Text       string   `json:"text"`
	Texts      []string `json:"texts"`
	DocumentID string   `json:"documentId"`
	Model      string   `json:"model"`
}

type ingestRequest struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
	ChunkSize  int    `json:"chunkSize"`
	Overlap    *int   `json:"overlap"`
	Model      string `json:"model"`
}

type answerRequest struct {
	Question     string   `json:"question"`
	Jurisdiction string   `json:"jurisdiction"`
	Language     string   `json:"language"`
	Limit        int      `json:"limit"`
	Threshold    *float64 `json:"threshold"`
}

// maxUploadBytes bounds a file upload.
const maxUploadBytes = 32 << 20

type documentRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Jurisdiction string `json:"jurisdiction"`
	Language     string `json:"language"`
	Description  string `json:"description"`
}

type documentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Jurisdiction string    `json:"jurisdiction"`
	Language     string    `json:"language"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type chunkResponse struct {
	ChunkIndex int                  `json:"chunkIndex"`
	Content    string               `json:"content"`
	Dimensions int                  `json:"dimensions"`
	Metadata   domain.ChunkMetadata `json:"metadata"`
}

func newDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:           d.ID,
		Title:        d.Title,
		Type:         d.Type.String(),
		Jurisdiction: d.Jurisdiction,
		Language:     string(d.Language),
		Description:  d.Description,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// bind decodes the JSON body, reporting malformed bodies as invalid input.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err))
		return false
	}
	return true
}

func (s *Server) handleEmbed(c *gin.Context) {
	var req embedRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.ports.Retrieval.EmbedText(c.Request.Context(), principal(c), domain.EmbedRequest{
		Text:       req.Text,
		Texts:      req.Texts,
		DocumentID: req.DocumentID,
		Model:      req.Model,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.ports.Retrieval.Ingest(c.Request.Context(), principal(c), domain.IngestRequest{
		DocumentID: req.DocumentID,
		Content:    req.Content,
		ChunkSize:  req.ChunkSize,
		Overlap:    req.Overlap,
		Model:      req.Model,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) handleIngestFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, maxUploadBytes))
			return
		}
		respondError(c, fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrInvalidInput))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("%w: reading upload: %v", domain.ErrInvalidInput, err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, fmt.Errorf("%w: reading upload: %v", domain.ErrInvalidInput, err))
		return
	}

	req := domain.IngestFileRequest{
		DocumentID: c.Param("id"),
		Filename:   header.Filename,
		MIMEType:   header.Header.Get("Content-Type"),
		Data:       data,
		Model:      c.PostForm("model"),
	}
	if raw := c.PostForm("chunkSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: chunkSize must be an integer", domain.ErrInvalidInput))
			return
		}
		req.ChunkSize = size
	}
	if raw := c.PostForm("overlap"); raw != "" {
		overlap, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: overlap must be an integer", domain.ErrInvalidInput))
			return
		}
		req.Overlap = &overlap
	}

	res, err := s.ports.Files.IngestFile(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) handleQuery(c *gin.Context) {
	req := domain.QueryRequest{
		Text:  c.Query("query"),
		Model: c.Query("model"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if raw := c.Query("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, fmt.Errorf("%w: threshold must be a number", domain.ErrInvalidInput))
			return
		}
		req.Threshold = &threshold
	}

	res, err := s.ports.Retrieval.Query(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.ports.Answers.Answer(c.Request.Context(), principal(c), domain.AnswerRequest{
		Question:     req.Question,
		Jurisdiction: req.Jurisdiction,
		Language:     domain.Language(req.Language),
		Limit:        req.Limit,
		Threshold:    req.Threshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (s *Server) handleCreateDocument(c *gin.Context) {
	var req documentRequest
	if !bind(c, &req) {
		return
	}

	doc := &domain.Document{
		ID:           req.ID,
		Title:        req.Title,
		Type:         domain.DocumentType(req.Type),
		Jurisdiction: req.Jurisdiction,
		Language:     domain.Language(req.Language),
		Description:  req.Description,
	}
	if err := s.ports.Document.Register(c.Request.Context(), principal(c), doc); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, newDocumentResponse(doc))
}

func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.ports.Document.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = newDocumentResponse(&docs[i])
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.ports.Document.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	if err := s.ports.Document.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

func (s *Server) handleDocumentChunks(c *gin.Context) {
	records, err := s.ports.Document.Chunks(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]chunkResponse, len(records))
	for i, r := range records {
		out[i] = chunkResponse{
			ChunkIndex: r.ChunkIndex,
			Content:    r.Content,
			Dimensions: len(r.Vector),
			Metadata:   r.Metadata,
		}
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) handleHealth(c *gin.Context) {
	report := s.ports.Health.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, envelope{Success: report.Healthy(), Data: report})
}
