// Package app wires adapters and core services from application settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/minereg/internal/adapters/driven/ai"
	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/minereg/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/services"
	"github.com/custodia-labs/minereg/internal/logger"
	"github.com/custodia-labs/minereg/internal/normalisers"
	"github.com/custodia-labs/minereg/internal/normalisers/docx"
	"github.com/custodia-labs/minereg/internal/normalisers/html"
	"github.com/custodia-labs/minereg/internal/normalisers/markdown"
	"github.com/custodia-labs/minereg/internal/normalisers/plaintext"
)

// connectTimeout bounds opening the postgres connection.
const connectTimeout = 10 * time.Second

// Storage is the common surface of the store backends.
type Storage interface {
	driven.HealthChecker
	DocumentStore() driven.DocumentStore
	VectorStore() driven.VectorStore
	Close() error
}

// App holds the wired services.
type App struct {
	Settings  *domain.AppSettings
	Retrieval *services.RetrievalService
	Files     *services.FileIngestService
	Answers   *services.AnswerService
	Document  *services.DocumentService
	Health    *services.HealthService

	store     Storage
	embedding *ai.InitResult
	llm       driven.LLMService
}

// New opens the configured store and embedding provider and builds the
// core services. An unconfigured embedding provider leaves retrieval
// returning domain.ErrEmbeddingUnavailable and an unconfigured LLM leaves
// answers returning domain.ErrLLMUnavailable; a broken store is fatal.
func New(ctx context.Context, settings *domain.AppSettings) (*App, error) {
	done := logger.Timed("wiring services")
	defer done()

	store, err := OpenStore(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}

	emb, err := ai.Init(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding disabled: %v", err)
		emb = &ai.InitResult{}
	}

	llm, err := ai.InitLLM(&settings.LLM)
	if err != nil {
		logger.Warn("answers disabled: %v", err)
		llm = nil
	}

	var embedChecker driven.HealthChecker
	if emb.Provider != nil {
		embedChecker = emb.Provider
	}

	retrieval := services.NewRetrievalService(
		emb.Embedding, store.VectorStore(), store.DocumentStore(), settings.Retrieval,
	)
	a := &App{
		Settings:  settings,
		Retrieval: retrieval,
		Files:     services.NewFileIngestService(retrieval, NewNormaliserRegistry()),
		Answers:   services.NewAnswerService(retrieval, llm),
		Document:  services.NewDocumentService(store.DocumentStore(), store.VectorStore()),
		Health:    services.NewHealthService(store, embedChecker, settings.Embedding),
		store:     store,
		embedding: emb,
		llm:       llm,
	}

	logger.Debug("storage=%s provider=%s model=%s llm=%s",
		settings.Storage.Driver, settings.Embedding.Provider, settings.Embedding.Model, settings.LLM.Provider)
	return a, nil
}

// NewNormaliserRegistry returns a registry holding every supported file format.
func NewNormaliserRegistry() *normalisers.Registry {
	return normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
	)
}

// OpenStore opens the store backend selected by settings.
func OpenStore(ctx context.Context, settings domain.StorageSettings) (Storage, error) {
	switch settings.Driver {
	case domain.StorageDriverSQLite, "":
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: opening sqlite: %w", domain.ErrStore, err)
		}
		return store, nil

	case domain.StorageDriverPostgres:
		if settings.DSN == "" {
			return nil, fmt.Errorf("%w: postgres requires storage.dsn or %s", domain.ErrInvalidInput, services.EnvDatabaseURL)
		}
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		store, err := postgres.Open(ctx, settings.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: opening postgres: %w", domain.ErrStore, err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		return store, nil

	case domain.StorageDriverMemory:
		return memoryStorage{memory.NewStore()}, nil

	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", domain.ErrInvalidInput, settings.Driver)
	}
}

// Close releases the AI providers and the store.
func (a *App) Close() error {
	if a.embedding != nil {
		a.embedding.Close()
	}
	if a.llm != nil {
		a.llm.Close()
	}
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return errors.Join(domain.ErrStore, err)
	}
	return nil
}

// memoryStorage adapts the in-memory store, which serves both ports itself.
type memoryStorage struct {
	*memory.Store
}

func (m memoryStorage) DocumentStore() driven.DocumentStore { return m.Store }
func (m memoryStorage) VectorStore() driven.VectorStore     { return m.Store }
func (m memoryStorage) Close() error                        { return nil }
