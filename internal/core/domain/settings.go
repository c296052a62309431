package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or answers.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHuggingFace is the Hugging Face inference API.
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is Anthropic cloud API. It offers no embeddings.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHuggingFace, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderHuggingFace || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHuggingFace:
		return "Hugging Face (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the default embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// BatchSize is the number of texts sent per upstream request.
	BatchSize int

	// Concurrency bounds in-flight upstream requests per batch call.
	Concurrency int

	// RequestsPerSecond rate-limits upstream requests. Zero disables limiting.
	RequestsPerSecond float64

	// Timeout bounds a single upstream request.
	Timeout time.Duration

	// CacheSize is the number of query embeddings kept in memory. Zero disables caching.
	CacheSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds configuration of the model that drafts answers.
// The zero value is unconfigured.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Timeout bounds a single completion request.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds chunking and ranking defaults.
type RetrievalSettings struct {
	ChunkSize      int
	Overlap        int
	Threshold      float64
	Limit          int
	CandidateLimit int

	// OwnerScoped restricts query candidates to the caller's own documents.
	OwnerScoped bool
}

// StorageDriver selects the vector store backend.
type StorageDriver string

// Available storage drivers.
const (
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverMemory   StorageDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageDriverSQLite, StorageDriverPostgres, StorageDriverMemory:
		return true
	default:
		return false
	}
}

// StorageSettings holds vector store configuration.
type StorageSettings struct {
	// Driver is the backend.
	Driver StorageDriver

	// DSN is the postgres connection string.
	DSN string

	// DataDir is the sqlite data directory. Empty means ~/.minereg/data.
	DataDir string
}

// ServerSettings holds configuration for the long-running front ends.
type ServerSettings struct {
	// Addr is the HTTP listen address.
	Addr string

	// UserID is the principal used by the cli, mcp and tui front ends.
	UserID string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Retrieval RetrievalSettings
	Storage   StorageSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from config or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:          AIProviderHuggingFace,
			Model:             DefaultEmbeddingModels()[AIProviderHuggingFace],
			BatchSize:         10,
			Concurrency:       4,
			RequestsPerSecond: 5,
			Timeout:           30 * time.Second,
			CacheSize:         256,
		},
		// LLM is left unconfigured; answers need an explicit provider.
		LLM: LLMSettings{Timeout: 120 * time.Second},
		Retrieval: RetrievalSettings{
			ChunkSize:      DefaultChunkSize,
			Overlap:        DefaultChunkOverlap,
			Threshold:      DefaultThreshold,
			Limit:          DefaultQueryLimit,
			CandidateLimit: DefaultCandidateLimit,
		},
		Storage: StorageSettings{
			Driver: StorageDriverSQLite,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHuggingFace,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// AllLLMProviders returns providers that can draft answers.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderHuggingFace,
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHuggingFace: "meta-llama/Llama-3.1-8B-Instruct",
		AIProviderOpenAI:      "gpt-4o-mini",
		AIProviderOllama:      "llama3.2",
		AIProviderAnthropic:   "claude-3-5-sonnet-latest",
	}
}

// MultilingualEmbeddingModel handles both English and French text.
const MultilingualEmbeddingModel = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHuggingFace: "sentence-transformers/all-MiniLM-L6-v2",
		AIProviderOpenAI:      "text-embedding-3-small",
		AIProviderOllama:      "nomic-embed-text",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"sentence-transformers/all-MiniLM-L6-v2":                      384,
		"sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2": 384,
		"nomic-embed-text":       768,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}
