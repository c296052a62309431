// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingProvider: One upstream embedding API (Hugging Face, OpenAI, Ollama)
//   - EmbeddingService: Batching client over a provider
//   - VectorStore: Chunk and vector persistence with whole-document replace
//   - DocumentStore: Document registry persistence
//   - ConfigStore: Application configuration
//   - NormaliserRegistry: Text extraction from uploaded files (HTML, Markdown, DOCX, plain text)
//
// # Optional Interfaces
//
//   - HealthChecker: Stores and providers that can be pinged for liveness
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
