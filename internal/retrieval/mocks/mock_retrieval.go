package mocks

import (
	"context"

	"legalassist/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRetrieval struct {
	mock.Mock
}

func (m *MockRetrieval) FindRelevant(ctx context.Context, query string, limit int) ([]model.ScoredChunk, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScoredChunk), args.Error(1)
}
