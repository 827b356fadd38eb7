package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`\p{L}+|\d+`)

// stubEmbedder is a deterministic local embedder used when no embedding
// backend is configured. It hashes tokens into a fixed-dimension bag and
// L2-normalizes the result, so equal texts always map to equal vectors and
// related texts land near each other. It is not a semantic model.
type stubEmbedder struct {
	dimension int
}

// NewStub returns the deterministic hash-based embedder.
func NewStub(dimension int) Embedder {
	if dimension <= 0 {
		dimension = 1536
	}
	return &stubEmbedder{dimension: dimension}
}

func (e *stubEmbedder) Name() string { return "stub" }

func (e *stubEmbedder) Dimension() int { return e.dimension }

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimension]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}
