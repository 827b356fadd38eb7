package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"legalassist/internal/chunk"
	"legalassist/internal/embedding"
	"legalassist/internal/extract"
	"legalassist/internal/model"
	"legalassist/internal/repository"
	repoMocks "legalassist/internal/repository/mocks"
	"legalassist/internal/storage"
	storeMocks "legalassist/internal/storage/mocks"
)

func newTestDocumentService(t *testing.T, mStore *storeMocks.MockStorage, mDocs *repoMocks.MockDocumentRepository, mChunks *repoMocks.MockChunkRepository) DocumentService {
	t.Helper()
	splitter, err := chunk.NewSplitter(1000, 200)
	require.NoError(t, err)
	return NewDocumentService(mStore, mDocs, mChunks, extract.New(), splitter, embedding.NewStub(8))
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		content := "Contract for the management of an apartment building."

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".txt")
		}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == int64(len(content)) &&
				opt.ContentType == "text/plain" &&
				opt.Metadata["original-filename"] == "contract.txt"
		})).Return(storage.ObjectInfo{}, nil)

		mDocs.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Filename == "contract.txt" &&
				doc.FileType == model.FileTypeTXT &&
				doc.FileSize == int64(len(content)) &&
				doc.OrganizationID == "org-1"
		})).Return(&model.Document{ID: "gen-id"}, nil)

		var captured []model.Chunk
		mChunks.On("BulkCreate", ctx, mock.MatchedBy(func(chunks []model.Chunk) bool {
			captured = chunks
			return len(chunks) == 1
		})).Return(nil)

		res, err := svc.Upload(ctx, strings.NewReader(content), "contract.txt", "org-1")

		require.NoError(t, err)
		assert.Equal(t, "gen-id", res.ID)
		assert.Equal(t, "contract.txt", res.Filename)
		assert.Equal(t, "processed", res.Status)

		require.Len(t, captured, 1)
		assert.Equal(t, content, captured[0].Content)
		assert.Equal(t, 0, captured[0].Seq)
		assert.NotNil(t, captured[0].Embedding)

		mStore.AssertExpectations(t)
		mDocs.AssertExpectations(t)
		mChunks.AssertExpectations(t)
	})

	t.Run("missing organization falls back to the default owner", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		// organization_id is a NOT NULL UUID column, so the empty string
		// must never reach the repository.
		mDocs.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.OrganizationID == "00000000-0000-0000-0000-000000000000"
		})).Return(&model.Document{ID: "gen-id"}, nil)
		mChunks.On("BulkCreate", ctx, mock.Anything).Return(nil)

		res, err := svc.Upload(ctx, strings.NewReader("Notice text."), "notice.txt", "")

		require.NoError(t, err)
		assert.Equal(t, "processed", res.Status)
		mDocs.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		_, err := svc.Upload(ctx, nil, "contract.txt", "")

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("unsupported extension rejected before any side effect", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "malware.exe", "")

		assert.ErrorIs(t, err, ErrUnsupportedFileType)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.Upload(ctx, strings.NewReader("hello"), "note.txt", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload to storage: storage fail")
	})

	t.Run("repository error rolls back stored object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mDocs.On("Create", ctx, mock.Anything).
			Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/")
		})).Return(nil)

		_, err := svc.Upload(ctx, strings.NewReader("hello"), "note.txt", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save document: db fail")
		mStore.AssertExpectations(t)
	})

	t.Run("chunk persistence error rolls back document and object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mDocs.On("Create", ctx, mock.Anything).
			Return(&model.Document{ID: "gen-id"}, nil)
		mChunks.On("BulkCreate", ctx, mock.Anything).
			Return(errors.New("chunk fail"))
		mDocs.On("Delete", ctx, mock.Anything).Return(nil)
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Upload(ctx, strings.NewReader("hello"), "note.txt", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save chunks: chunk fail")
		mDocs.AssertCalled(t, "Delete", ctx, mock.Anything)
		mStore.AssertCalled(t, "Delete", ctx, mock.Anything)
	})

	t.Run("failed rollback is annotated on the cause", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mDocs.On("Create", ctx, mock.Anything).
			Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))

		_, err := svc.Upload(ctx, strings.NewReader("hello"), "note.txt", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db fail")
		assert.Contains(t, err.Error(), "rollback storage delete failed: delete fail")
	})

	t.Run("long text produces overlapping chunks", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mDocs := new(repoMocks.MockDocumentRepository)
		mChunks := new(repoMocks.MockChunkRepository)
		svc := newTestDocumentService(t, mStore, mDocs, mChunks)

		content := strings.Repeat("a", 2500)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, nil)
		mDocs.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "gen-id"}, nil)

		var captured []model.Chunk
		mChunks.On("BulkCreate", ctx, mock.MatchedBy(func(chunks []model.Chunk) bool {
			captured = chunks
			return true
		})).Return(nil)

		_, err := svc.Upload(ctx, strings.NewReader(content), "long.txt", "")

		require.NoError(t, err)
		require.Len(t, captured, 4)
		for i, c := range captured {
			assert.Equal(t, i, c.Seq)
			assert.Equal(t, "gen-id", c.DocumentID)
		}
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		orgID      string
		limit      int
		offset     int
		setupMocks func(mDocs *repoMocks.MockDocumentRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *DocumentListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("List", ctx, repository.ListQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{
						Items: []model.Document{{ID: "1"}, {ID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "organization filter is forwarded",
			orgID:  "org-1",
			limit:  5,
			offset: 0,
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("List", ctx, repository.ListQuery{OrganizationID: "org-1", Limit: 5, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("List", ctx, repository.ListQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDocs := new(repoMocks.MockDocumentRepository)
			mChunks := new(repoMocks.MockChunkRepository)
			svc := newTestDocumentService(t, new(storeMocks.MockStorage), mDocs, mChunks)

			tt.setupMocks(mDocs)

			res, err := svc.List(ctx, tt.orgID, tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mDocs.AssertExpectations(t)
		})
	}
}
