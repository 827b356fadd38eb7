package llm

import (
	"context"
	"net/http"

	"legalassist/internal/config"
)

// deepseek adapts the DeepSeek chat completion API (OpenAI-compatible).
type deepseek struct {
	baseURL string
	model   string
	client  *http.Client
}

func newDeepSeek(cfg config.ProviderConfig, client *http.Client) *deepseek {
	return &deepseek{baseURL: cfg.BaseURL, model: cfg.Model, client: client}
}

func (d *deepseek) Name() string { return "deepseek" }

func (d *deepseek) Label() string { return "DeepSeek" }

func (d *deepseek) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	return chatCompletion(ctx, d.client, d.baseURL, d.model, apiKey, prompt)
}
