// Package pgvector provides a PostgreSQL-backed vector store using the
// pgvector extension. Similarity search runs inside the database via
// the cosine distance operator, which scales past what the in-process
// SQLite scan can handle.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Store is a PostgreSQL/pgvector-backed vector store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL and ensures the schema exists.
// dimensions sets the vector column size and must match the embedding
// model in use.
func NewStore(ctx context.Context, connString string, dimensions int) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx, dimensions); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// ensureSchema creates the extension and chunks table if missing.
func (s *Store) ensureSchema(ctx context.Context, dimensions int) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}

	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			position INTEGER NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(slug, position)
		)
	`, dimensions))
	if err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_chunks_slug ON chunks(slug)`); err != nil {
		return fmt.Errorf("creating slug index: %w", err)
	}
	return nil
}

// Upsert inserts or replaces chunks keyed by (slug, position).
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		batch.Queue(`
			INSERT INTO chunks (id, slug, position, content, metadata, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug, position) DO UPDATE SET
				id = EXCLUDED.id,
				content = EXCLUDED.content,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding,
				created_at = EXCLUDED.created_at
		`, chunk.ID, chunk.Slug, chunk.Position, chunk.Content,
			string(metadataJSON), pgv.NewVector(chunk.Embedding), createdAt)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("saving chunk %d: %w", i, err)
		}
	}
	return nil
}

// Search returns up to limit chunks whose cosine similarity to the
// query meets the threshold, ordered by descending similarity. The
// `<=>` operator gives cosine distance, so similarity is 1 - distance.
func (s *Store) Search(ctx context.Context, query []float32, limit int, threshold float64) ([]domain.SearchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, slug, position, content, metadata, created_at,
		       1 - (embedding <=> $1) AS similarity
		FROM chunks
		WHERE embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgv.NewVector(query), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var chunk domain.Chunk
		var metadataJSON []byte
		var similarity float64
		if err := rows.Scan(&chunk.ID, &chunk.Slug, &chunk.Position, &chunk.Content,
			&metadataJSON, &chunk.CreatedAt, &similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}

		results = append(results, domain.SearchResult{
			Chunk:      chunk,
			Similarity: similarity,
		})
	}
	return results, rows.Err()
}

// DeleteBySlug removes all chunks belonging to a document.
func (s *Store) DeleteBySlug(ctx context.Context, slug string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM chunks WHERE slug = $1`, slug); err != nil {
		return fmt.Errorf("deleting chunks for %s: %w", slug, err)
	}
	return nil
}

// Stats reports chunk and document counts.
func (s *Store) Stats(ctx context.Context) (*domain.StoreStats, error) {
	var stats domain.StoreStats
	var lastUpdated *time.Time

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT slug), MAX(created_at)
		FROM chunks
	`).Scan(&stats.TotalChunks, &stats.DocumentCount, &lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("scanning stats: %w", err)
	}

	if lastUpdated != nil {
		stats.LastUpdated = *lastUpdated
	}
	return &stats, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
