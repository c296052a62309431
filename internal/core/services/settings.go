package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedConcurrency = "embedding.concurrency"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyEmbedTimeout     = "embedding.timeout_seconds"
	keyEmbedCacheSize   = "embedding.cache_size"

	keyLLMProvider = "llm.provider"
	keyLLMModel    = "llm.model"
	keyLLMBaseURL  = "llm.base_url"
	keyLLMAPIKey   = "llm.api_key"
	keyLLMTimeout  = "llm.timeout_seconds"

	keyChunkSize      = "retrieval.chunk_size"
	keyOverlap        = "retrieval.overlap"
	keyThreshold      = "retrieval.threshold"
	keyLimit          = "retrieval.limit"
	keyCandidateLimit = "retrieval.candidate_limit"
	keyOwnerScoped    = "retrieval.owner_scoped"

	keyStorageDriver  = "storage.driver"
	keyStorageDSN     = "storage.dsn"
	keyStorageDataDir = "storage.data_dir"

	keyServerAddr   = "server.addr"
	keyServerUserID = "server.user_id"
)

// Environment variables consulted when the config file leaves a value empty.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvHuggingFaceAPIKey = "HUGGINGFACE_API_KEY"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	EnvDatabaseURL       = "MINEREG_DATABASE_URL"
	EnvUserID            = "MINEREG_USER_ID"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Values missing from the
// config file fall back to the environment, then to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	model := s.configStore.GetString(keyEmbedModel)
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // empty is valid for cloud providers
			APIKey:            s.apiKey(keyEmbedAPIKey, provider),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			Concurrency:       s.getInt(keyEmbedConcurrency, defaults.Embedding.Concurrency),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, defaults.Embedding.RequestsPerSecond),
			Timeout: time.Duration(s.getInt(keyEmbedTimeout, int(defaults.Embedding.Timeout/time.Second))) *
				time.Second,
			CacheSize: s.getInt(keyEmbedCacheSize, defaults.Embedding.CacheSize),
		},
		LLM: s.getLLM(defaults.LLM),
		Retrieval: domain.RetrievalSettings{
			ChunkSize:      s.getInt(keyChunkSize, defaults.Retrieval.ChunkSize),
			Overlap:        s.getInt(keyOverlap, defaults.Retrieval.Overlap),
			Threshold:      s.getFloat(keyThreshold, defaults.Retrieval.Threshold),
			Limit:          s.getInt(keyLimit, defaults.Retrieval.Limit),
			CandidateLimit: s.getInt(keyCandidateLimit, defaults.Retrieval.CandidateLimit),
			OwnerScoped:    s.getBool(keyOwnerScoped, defaults.Retrieval.OwnerScoped),
		},
		Storage: domain.StorageSettings{
			Driver:  s.getDriver(defaults.Storage.Driver),
			DSN:     s.getString(keyStorageDSN, s.getenv(EnvDatabaseURL)),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Server: domain.ServerSettings{
			Addr:   s.getString(keyServerAddr, defaults.Server.Addr),
			UserID: s.getString(keyServerUserID, s.getenv(EnvUserID)),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []configValue{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedConcurrency, settings.Embedding.Concurrency},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyEmbedTimeout, int(settings.Embedding.Timeout / time.Second)},
		{keyEmbedCacheSize, settings.Embedding.CacheSize},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyChunkSize, settings.Retrieval.ChunkSize},
		{keyOverlap, settings.Retrieval.Overlap},
		{keyThreshold, settings.Retrieval.Threshold},
		{keyLimit, settings.Retrieval.Limit},
		{keyCandidateLimit, settings.Retrieval.CandidateLimit},
		{keyOwnerScoped, settings.Retrieval.OwnerScoped},
		{keyStorageDriver, string(settings.Storage.Driver)},
		{keyStorageDSN, s.unlessEnv(settings.Storage.DSN, EnvDatabaseURL)},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyServerAddr, settings.Server.Addr},
		{keyServerUserID, s.unlessEnv(settings.Server.UserID, EnvUserID)},
	}
	// Only persist API keys that were set explicitly.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envAPIKey(settings.Embedding.Provider) {
		values = append(values, configValue{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		values = append(values, configValue{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the model that drafts answers.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorage configures the vector store backend.
func (s *SettingsService) SetStorage(driver domain.StorageDriver, dsn string) error {
	if !driver.IsValid() {
		return fmt.Errorf("%w: invalid storage driver: %s", domain.ErrInvalidInput, driver)
	}
	if driver == domain.StorageDriverPostgres && dsn == "" && s.getenv(EnvDatabaseURL) == "" {
		return fmt.Errorf("%w: postgres requires a dsn or %s", domain.ErrInvalidInput, EnvDatabaseURL)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Driver = driver
	settings.Storage.DSN = dsn
	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not configured", domain.ErrEmbeddingUnavailable,
			settings.Embedding.Provider)
	}
	r := settings.Retrieval
	if r.ChunkSize <= 0 || r.Overlap < 0 || r.Overlap >= r.ChunkSize {
		return fmt.Errorf("%w: retrieval.overlap must be in [0, chunk_size)", domain.ErrInvalidInput)
	}
	if !(r.Threshold >= 0 && r.Threshold <= 1) {
		return fmt.Errorf("%w: retrieval.threshold must be in [0, 1]", domain.ErrInvalidInput)
	}
	if settings.Storage.Driver == domain.StorageDriverPostgres && settings.Storage.DSN == "" {
		return fmt.Errorf("%w: storage.dsn is required for postgres", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig pings the configured LLM provider. An unconfigured
// provider is not an error.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

type configValue struct {
	key   string
	value any
}

// Helper methods for reading config with defaults.

// unlessEnv returns "" when val only came from the environment variable.
func (s *SettingsService) unlessEnv(val, env string) string {
	if val == s.getenv(env) {
		return ""
	}
	return val
}

func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.envAPIKey(provider)
}

// getLLM reads the llm section. An unset or unknown provider leaves the
// section unconfigured.
func (s *SettingsService) getLLM(defaults domain.LLMSettings) domain.LLMSettings {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaults
	}
	return domain.LLMSettings{
		Provider: provider,
		Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[provider]),
		BaseURL:  s.configStore.GetString(keyLLMBaseURL),
		APIKey:   s.apiKey(keyLLMAPIKey, provider),
		Timeout:  time.Duration(s.getInt(keyLLMTimeout, int(defaults.Timeout/time.Second))) * time.Second,
	}
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderHuggingFace:
		return s.getenv(EnvHuggingFaceAPIKey)
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(s.configStore.GetString(keyStorageDriver))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
