// Package retrieval answers "which stored chunks are most relevant to this
// query" by combining the embedding provider with the chunk store.
package retrieval

import (
	"context"
	"fmt"

	"legalassist/internal/embedding"
	"legalassist/internal/model"
	"legalassist/internal/repository"
)

// DefaultLimit is the number of chunks retrieved when the caller does not
// specify one.
const DefaultLimit = 3

// Service finds stored chunks relevant to a natural-language query.
type Service interface {
	// FindRelevant returns up to limit chunks ordered most relevant first.
	// An empty store yields an empty slice; the caller is responsible for
	// substituting fallback context.
	FindRelevant(ctx context.Context, query string, limit int) ([]model.ScoredChunk, error)
}

type service struct {
	embedder embedding.Embedder
	chunks   repository.ChunkRepository
}

// New constructs the retrieval service.
func New(embedder embedding.Embedder, chunks repository.ChunkRepository) Service {
	return &service{embedder: embedder, chunks: chunks}
}

func (s *service) FindRelevant(ctx context.Context, query string, limit int) ([]model.ScoredChunk, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := s.chunks.SearchSimilar(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return results, nil
}
