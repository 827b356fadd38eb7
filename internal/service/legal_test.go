package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalassist/internal/llm"
	"legalassist/internal/model"
	retrievalMocks "legalassist/internal/retrieval/mocks"
)

// fakeGenerator records the last gateway call and returns a canned result.
type fakeGenerator struct {
	result      llm.Result
	gotPrompt   string
	gotProvider string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, providerName string, _ map[string]string) llm.Result {
	f.gotPrompt = prompt
	f.gotProvider = providerName
	return f.result
}

func okResult(content string) llm.Result {
	return llm.Result{Provider: "gigachat", Label: "GigaChat", Status: llm.StatusOK, Content: content}
}

func TestLegalService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("grounds the prompt on retrieved chunks", func(t *testing.T) {
		retriever := new(retrievalMocks.MockRetrieval)
		gen := &fakeGenerator{result: okResult("the contract must be in writing")}
		svc := NewLegalService(retriever, gen)

		retriever.On("FindRelevant", ctx, "contract form", 3).Return([]model.ScoredChunk{
			{Chunk: model.Chunk{ID: "c1", Content: "contracts are concluded in writing", Seq: 0}, Filename: "code.txt", Distance: 0.2},
			{Chunk: model.Chunk{ID: "c2", Content: "oral agreements are an exception", Seq: 3}, Filename: "code.txt", Distance: 0.5},
		}, nil)

		answer, err := svc.Ask(ctx, "contract form", "gigachat")

		require.NoError(t, err)
		assert.Equal(t, "the contract must be in writing", answer.Answer)

		require.Len(t, answer.Sources, 2)
		assert.Equal(t, "c1", answer.Sources[0].ID)
		assert.Equal(t, "document", answer.Sources[0].Type)
		assert.InDelta(t, 0.8, answer.Sources[0].Relevance, 1e-9)
		assert.Equal(t, "code.txt, fragment 1", answer.Sources[0].Citation)
		assert.Equal(t, "code.txt, fragment 4", answer.Sources[1].Citation)

		assert.Contains(t, gen.gotPrompt, "contracts are concluded in writing")
		assert.Contains(t, gen.gotPrompt, "contract form")
		assert.Equal(t, "gigachat", gen.gotProvider)

		assert.NotEmpty(t, answer.Risks)
	})

	t.Run("empty knowledge base falls back to static sources", func(t *testing.T) {
		retriever := new(retrievalMocks.MockRetrieval)
		gen := &fakeGenerator{result: okResult("general answer")}
		svc := NewLegalService(retriever, gen)

		retriever.On("FindRelevant", ctx, "question", 3).Return([]model.ScoredChunk{}, nil)

		answer, err := svc.Ask(ctx, "question", "")

		require.NoError(t, err)
		assert.NotEmpty(t, answer.Answer)
		require.NotEmpty(t, answer.Sources)
		assert.Equal(t, "law", answer.Sources[0].Type)
		assert.Contains(t, gen.gotPrompt, answer.Sources[0].Content)
	})

	t.Run("empty provider defaults to gigachat", func(t *testing.T) {
		retriever := new(retrievalMocks.MockRetrieval)
		gen := &fakeGenerator{result: okResult("answer")}
		svc := NewLegalService(retriever, gen)

		retriever.On("FindRelevant", ctx, "q", 3).Return([]model.ScoredChunk{}, nil)

		_, err := svc.Ask(ctx, "q", "")

		require.NoError(t, err)
		assert.Equal(t, "gigachat", gen.gotProvider)
	})

	t.Run("provider failure surfaces as answer text, not error", func(t *testing.T) {
		retriever := new(retrievalMocks.MockRetrieval)
		gen := &fakeGenerator{result: llm.Result{
			Provider: "gigachat", Label: "GigaChat", Status: llm.StatusCallFailed, Detail: "upstream status 503",
		}}
		svc := NewLegalService(retriever, gen)

		retriever.On("FindRelevant", ctx, "q", 3).Return([]model.ScoredChunk{}, nil)

		answer, err := svc.Ask(ctx, "q", "gigachat")

		require.NoError(t, err)
		assert.Equal(t, "[GigaChat] Error: upstream status 503", answer.Answer)
	})

	t.Run("retrieval failure is an error", func(t *testing.T) {
		retriever := new(retrievalMocks.MockRetrieval)
		gen := &fakeGenerator{result: okResult("never reached")}
		svc := NewLegalService(retriever, gen)

		retriever.On("FindRelevant", ctx, "q", 3).Return(nil, errors.New("db down"))

		_, err := svc.Ask(ctx, "q", "gigachat")

		assert.ErrorContains(t, err, "retrieve context")
	})

	t.Run("relevance is clamped to 0..1", func(t *testing.T) {
		assert.Equal(t, 0.0, relevanceFromDistance(1.7))
		assert.Equal(t, 1.0, relevanceFromDistance(-0.2))
		assert.InDelta(t, 0.5, relevanceFromDistance(0.5), 1e-9)
	})
}
