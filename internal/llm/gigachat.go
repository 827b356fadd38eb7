package llm

import (
	"context"
	"net/http"

	"legalassist/internal/config"
)

// gigachat adapts the GigaChat API, which exposes an OpenAI-compatible chat
// completion surface behind a bearer token.
type gigachat struct {
	baseURL string
	model   string
	client  *http.Client
}

func newGigaChat(cfg config.ProviderConfig, client *http.Client) *gigachat {
	return &gigachat{baseURL: cfg.BaseURL, model: cfg.Model, client: client}
}

func (g *gigachat) Name() string { return "gigachat" }

func (g *gigachat) Label() string { return "GigaChat" }

func (g *gigachat) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	return chatCompletion(ctx, g.client, g.baseURL, g.model, apiKey, prompt)
}
