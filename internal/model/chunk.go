package model

import "time"

// Chunk is a bounded text segment derived from a document, the unit of
// retrieval. Embedding is nil until the chunk has been embedded; such chunks
// are excluded from similarity search. Seq preserves creation order within
// the parent document.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"-"`
	Seq        int       `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredChunk is a chunk returned from similarity search together with its
// cosine distance to the query vector (smaller is more relevant) and the
// filename of the owning document for citation purposes.
type ScoredChunk struct {
	Chunk    Chunk
	Filename string
	Distance float64
}
