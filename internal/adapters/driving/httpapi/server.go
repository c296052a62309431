// Package httpapi exposes the retrieval and document services over a JSON
// HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
)

// UserHeader carries the authenticated principal, set by the auth proxy.
const UserHeader = "X-User-ID"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Retrieval driving.RetrievalService
	Files     driving.FileIngestService
	Document  driving.DocumentService
	Health    driving.HealthService
	Answers   driving.AnswerService
}

// Server is the HTTP front end.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer builds the router. Files, Document, Health and Answers are
// optional; their routes are only registered when set.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Retrieval == nil {
		return nil, ErrMissingRetrievalService
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, engine: engine}
	s.routes()
	return s, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) routes() {
	if s.ports.Health != nil {
		s.engine.GET("/api/health", s.handleHealth)
	}

	v1 := s.engine.Group("/api/v1", requirePrincipal())
	v1.POST("/embeddings", s.handleEmbed)
	v1.PUT("/embeddings", s.handleIngest)
	v1.GET("/embeddings", s.handleQuery)

	if s.ports.Document != nil {
		docs := v1.Group("/documents")
		docs.POST("", s.handleCreateDocument)
		docs.GET("", s.handleListDocuments)
		docs.GET("/:id", s.handleGetDocument)
		docs.DELETE("/:id", s.handleDeleteDocument)
		docs.GET("/:id/chunks", s.handleDocumentChunks)
	}
	if s.ports.Files != nil {
		v1.POST("/documents/:id/file", s.handleIngestFile)
	}
	if s.ports.Answers != nil {
		v1.POST("/answers", s.handleAnswer)
	}
}
