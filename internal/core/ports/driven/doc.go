// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentSource: Lists and loads raw articles from the content tree
//   - Parser: Transforms a raw article into a Document
//   - PostProcessorPipeline: Splits a Document into chunks
//   - EmbeddingService: Generates vector embeddings with token accounting
//   - VectorStore: Persists chunks and answers similarity queries
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
