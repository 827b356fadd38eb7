package mocks

import (
	"context"

	"legalassist/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) BulkCreate(ctx context.Context, chunks []model.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockChunkRepository) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]model.ScoredChunk, error) {
	args := m.Called(ctx, vector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScoredChunk), args.Error(1)
}

func (m *MockChunkRepository) CountByDocument(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}
