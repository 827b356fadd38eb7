package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"legalassist/internal/chunk"
	"legalassist/internal/embedding"
	"legalassist/internal/extract"
	"legalassist/internal/model"
	"legalassist/internal/repository"
	"legalassist/internal/storage"
)

var (
	ErrReaderNil           = errors.New("reader is nil")
	ErrUnsupportedFileType = errors.New("unsupported file type: allowed extensions are .pdf, .docx, .txt")
)

// embedConcurrency bounds parallel embedding calls during one upload.
const embedConcurrency = 4

// defaultOrganizationID owns uploads that arrive without an organization.
// The column is NOT NULL, so the empty string cannot be bound as a UUID.
const defaultOrganizationID = "00000000-0000-0000-0000-000000000000"

// UploadResult is the service-level DTO returned after a processed upload.
type UploadResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the knowledge-base document use cases.
type DocumentService interface {
	// Upload stores the raw file in object storage, extracts and chunks
	// its text, embeds the chunks and persists everything. Unsupported
	// extensions are rejected before any side effect; failures after the
	// object is stored roll the stored state back.
	Upload(ctx context.Context, r io.Reader, originalFilename, organizationID string) (*UploadResult, error)

	// List returns documents newest first, optionally filtered by organization.
	List(ctx context.Context, organizationID string, limit, offset int) (*DocumentListResult, error)
}

type documentService struct {
	store     storage.Storage
	docs      repository.DocumentRepository
	chunks    repository.ChunkRepository
	extractor extract.Extractor
	splitter  *chunk.Splitter
	embedder  embedding.Embedder
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	docs repository.DocumentRepository,
	chunks repository.ChunkRepository,
	extractor extract.Extractor,
	splitter *chunk.Splitter,
	embedder embedding.Embedder,
) DocumentService {
	return &documentService{
		store:     store,
		docs:      docs,
		chunks:    chunks,
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename, organizationID string) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if organizationID == "" {
		organizationID = defaultOrganizationID
	}
	ext := filepath.Ext(originalFilename)
	fileType, ok := model.FileTypeFromExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedFileType, ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	docID := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("documents", docID+ext))

	_, err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentTypeFor(fileType),
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	text, err := s.extractor.Extract(data, fileType)
	if err != nil {
		return nil, s.rollback(ctx, key, "", fmt.Errorf("extract text: %w", err))
	}

	doc := &model.Document{
		ID:             docID,
		OrganizationID: organizationID,
		Filename:       originalFilename,
		FileType:       fileType,
		FileSize:       int64(len(data)),
		StoragePath:    key,
		CreatedAt:      time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		return nil, s.rollback(ctx, key, "", fmt.Errorf("save document: %w", err))
	}

	chunks := s.buildChunks(ctx, docID, text)
	if err := s.chunks.BulkCreate(ctx, chunks); err != nil {
		return nil, s.rollback(ctx, key, docID, fmt.Errorf("save chunks: %w", err))
	}

	return &UploadResult{ID: stored.ID, Filename: originalFilename, Status: "processed"}, nil
}

// buildChunks splits the extracted text and embeds the segments with
// bounded parallelism. Embedding is best-effort: a failed embedding leaves
// the chunk with a NULL vector (excluded from retrieval) rather than
// failing the upload.
func (s *documentService) buildChunks(ctx context.Context, docID, text string) []model.Chunk {
	segments := s.splitter.Split(text)
	now := time.Now().UTC()
	chunks := make([]model.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = model.Chunk{
			ID:         uuid.New().String(),
			DocumentID: docID,
			Content:    seg,
			Seq:        i,
			CreatedAt:  now,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range chunks {
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunks[i].Content)
			if err == nil {
				chunks[i].Embedding = vec
			}
			return nil
		})
	}
	_ = g.Wait()
	return chunks
}

// rollback undoes the stored object and, when set, the document row, then
// returns the original failure annotated with any rollback problem.
func (s *documentService) rollback(ctx context.Context, key, docID string, cause error) error {
	if docID != "" {
		if delErr := s.docs.Delete(ctx, docID); delErr != nil {
			cause = fmt.Errorf("%v; rollback document delete failed: %v", cause, delErr)
		}
	}
	if delErr := s.store.Delete(ctx, key); delErr != nil {
		return fmt.Errorf("%v; rollback storage delete failed: %v", cause, delErr)
	}
	return cause
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, organizationID string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.docs.List(ctx, repository.ListQuery{
		OrganizationID: organizationID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func contentTypeFor(ft model.FileType) string {
	switch ft {
	case model.FileTypePDF:
		return "application/pdf"
	case model.FileTypeDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
