// Package services contains the core business logic of Scribe,
// implementing the driving ports using the driven ports.
//
// Services coordinate between adapters without knowing their concrete
// types: the retrieval service composes query preprocessing, embedding,
// similarity search and diversity re-ranking into one call, and the
// indexer composes the content source, parser, chunking pipeline,
// embedder and vector store.
package services
