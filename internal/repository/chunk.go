package repository

import (
	"context"

	"legalassist/internal/model"
)

// ChunkRepository defines persistence and similarity search for document
// chunks. The similarity contract is cosine distance over stored embedding
// vectors; chunks whose embedding is NULL never participate in ranking.
type ChunkRepository interface {
	// BulkCreate inserts all chunks of one document. Seq must reflect the
	// creation order of the chunks within the document.
	BulkCreate(ctx context.Context, chunks []model.Chunk) error

	// SearchSimilar returns up to limit chunks ordered by ascending cosine
	// distance to the query vector, ties broken by insertion order. An
	// empty store yields an empty slice, not an error.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]model.ScoredChunk, error)

	// CountByDocument returns the number of stored chunks for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)
}
