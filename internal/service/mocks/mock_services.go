package mocks

import (
	"context"
	"io"

	"legalassist/internal/model"
	"legalassist/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalFilename, organizationID string) (*service.UploadResult, error) {
	args := m.Called(ctx, r, originalFilename, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, organizationID string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

type MockLegalService struct {
	mock.Mock
}

func (m *MockLegalService) Ask(ctx context.Context, query, provider string) (*service.LegalAnswer, error) {
	args := m.Called(ctx, query, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LegalAnswer), args.Error(1)
}

type MockSupervisionService struct {
	mock.Mock
}

func (m *MockSupervisionService) Analyze(ctx context.Context, data []byte, filename string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, data, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockSupervisionService) GenerateReply(ctx context.Context, analysisID string) (string, error) {
	args := m.Called(ctx, analysisID)
	return args.String(0), args.Error(1)
}
