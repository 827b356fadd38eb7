package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubEmbedder(t *testing.T) {
	ctx := context.Background()
	e := NewStub(64)

	t.Run("deterministic", func(t *testing.T) {
		a, err := e.Embed(ctx, "management contract terms")
		require.NoError(t, err)
		b, err := e.Embed(ctx, "management contract terms")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("fixed dimension", func(t *testing.T) {
		vec, err := e.Embed(ctx, "any text at all")
		require.NoError(t, err)
		assert.Len(t, vec, 64)
		assert.Equal(t, 64, e.Dimension())
	})

	t.Run("unit length for non-empty text", func(t *testing.T) {
		vec, err := e.Embed(ctx, "utility services supply")
		require.NoError(t, err)

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, norm, 1e-5)
	})

	t.Run("empty text yields zero vector", func(t *testing.T) {
		vec, err := e.Embed(ctx, "")
		require.NoError(t, err)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	})

	t.Run("case insensitive tokenization", func(t *testing.T) {
		a, _ := e.Embed(ctx, "Contract")
		b, _ := e.Embed(ctx, "contract")
		assert.Equal(t, a, b)
	})

	t.Run("non-positive dimension falls back", func(t *testing.T) {
		assert.Equal(t, 1536, NewStub(0).Dimension())
	})
}

func TestStubEmbedder_Name(t *testing.T) {
	assert.Equal(t, "stub", NewStub(8).Name())
}
