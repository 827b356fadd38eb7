package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"legalassist/internal/model"
)

func TestChunkPostgres_BulkCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChunkPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("inserts all chunks in one transaction", func(t *testing.T) {
		chunks := []model.Chunk{
			{ID: "c1", DocumentID: "doc", Content: "first", Embedding: []float32{1, 0}, Seq: 0, CreatedAt: now},
			{ID: "c2", DocumentID: "doc", Content: "second", Seq: 1, CreatedAt: now},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO document_chunks").
			WithArgs("c1", "doc", "first", "[1,0]", 0, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// nil embedding is bound as NULL
		mock.ExpectExec("INSERT INTO document_chunks").
			WithArgs("c2", "doc", "second", nil, 1, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.BulkCreate(ctx, chunks))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		chunks := []model.Chunk{
			{ID: "c3", DocumentID: "doc", Content: "bad", Seq: 0, CreatedAt: now},
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO document_chunks").
			WithArgs("c3", "doc", "bad", nil, 0, now).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		assert.Error(t, repo.BulkCreate(ctx, chunks))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.BulkCreate(ctx, nil))
	})
}

func TestChunkPostgres_SearchSimilar(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChunkPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("excludes NULL embeddings and orders by distance", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "document_id", "content", "seq", "created_at", "filename", "distance"}).
			AddRow("c1", "doc", "closest", 0, now, "contract.txt", 0.1).
			AddRow("c2", "doc", "further", 1, now, "contract.txt", 0.4)

		mock.ExpectQuery("WHERE c.embedding IS NOT NULL").
			WithArgs("[0.5,0.5]", 3).
			WillReturnRows(rows)

		got, err := repo.SearchSimilar(ctx, []float32{0.5, 0.5}, 3)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "closest", got[0].Chunk.Content)
		assert.Equal(t, "contract.txt", got[0].Filename)
		assert.Equal(t, 0.1, got[0].Distance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result set", func(t *testing.T) {
		mock.ExpectQuery("WHERE c.embedding IS NOT NULL").
			WithArgs("[1]", 3).
			WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "content", "seq", "created_at", "filename", "distance"}))

		got, err := repo.SearchSimilar(ctx, []float32{1}, 3)

		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestChunkPostgres_CountByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewChunkPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM document_chunks").
		WithArgs("doc").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByDocument(context.Background(), "doc")

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestEncodeVector(t *testing.T) {
	assert.Equal(t, "[]", encodeVector(nil))
	assert.Equal(t, "[1,-0.5,0.25]", encodeVector([]float32{1, -0.5, 0.25}))
}
