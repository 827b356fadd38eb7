// Package embedding maps text to fixed-dimension numeric vectors for
// similarity comparison. The backend is a pluggable external capability.
package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations must return vectors of exactly Dimension() entries.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}
