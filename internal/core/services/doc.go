// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// RetrievalService owns the chunk, embed and rank pipeline.
// FileIngestService extracts text from files before handing it over.
// DocumentService, HealthService and SettingsService cover the rest.
package services
