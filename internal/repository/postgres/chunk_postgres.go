package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"legalassist/internal/model"
	"legalassist/internal/repository"
)

// ChunkPostgres is a PostgreSQL implementation of repository.ChunkRepository
// backed by a pgvector column for embeddings.
type ChunkPostgres struct {
	db *sql.DB
}

// NewChunkPostgres creates a new ChunkPostgres repository.
func NewChunkPostgres(db *sql.DB) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

var _ repository.ChunkRepository = (*ChunkPostgres)(nil)

// BulkCreate inserts all chunks of a document in a single transaction so a
// failed upload never leaves a partial chunk set behind.
func (r *ChunkPostgres) BulkCreate(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO document_chunks (id, document_id, content, embedding, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, c := range chunks {
		var emb any
		if c.Embedding != nil {
			emb = encodeVector(c.Embedding)
		}
		if _, err := tx.ExecContext(ctx, q, c.ID, c.DocumentID, c.Content, emb, c.Seq, c.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SearchSimilar ranks embedded chunks by cosine distance to the query
// vector. Chunks with a NULL embedding are excluded by the WHERE clause so
// they can never surface as distance-zero matches; ties are broken by
// insertion order (created_at, seq).
func (r *ChunkPostgres) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]model.ScoredChunk, error) {
	const q = `
		SELECT c.id, c.document_id, c.content, c.seq, c.created_at, d.filename,
		       c.embedding <=> $1::vector AS distance
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.embedding IS NOT NULL
		ORDER BY distance ASC, c.created_at ASC, c.seq ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, encodeVector(vector), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.ScoredChunk, 0, limit)
	for rows.Next() {
		var sc model.ScoredChunk
		if err := rows.Scan(
			&sc.Chunk.ID,
			&sc.Chunk.DocumentID,
			&sc.Chunk.Content,
			&sc.Chunk.Seq,
			&sc.Chunk.CreatedAt,
			&sc.Filename,
			&sc.Distance,
		); err != nil {
			return nil, err
		}
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CountByDocument returns the number of stored chunks for a document.
func (r *ChunkPostgres) CountByDocument(ctx context.Context, documentID string) (int, error) {
	const q = `SELECT COUNT(*) FROM document_chunks WHERE document_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, documentID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// encodeVector renders a pgvector literal ("[1,2,3]") for binding to a
// $n::vector parameter.
func encodeVector(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
