package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"legalassist/internal/config"
)

// yandex adapts the YandexGPT foundation models completion API.
type yandex struct {
	baseURL string
	model   string
	client  *http.Client
}

func newYandex(cfg config.ProviderConfig, client *http.Client) *yandex {
	return &yandex{baseURL: cfg.BaseURL, model: cfg.Model, client: client}
}

func (y *yandex) Name() string { return "yandex" }

func (y *yandex) Label() string { return "YandexGPT" }

func (y *yandex) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	reqBody := struct {
		ModelURI          string `json:"modelUri"`
		CompletionOptions struct {
			Stream      bool    `json:"stream"`
			Temperature float64 `json:"temperature"`
		} `json:"completionOptions"`
		Messages []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"messages"`
	}{
		ModelURI: y.model,
		Messages: []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		}{{Role: "user", Text: prompt}},
	}
	reqBody.CompletionOptions.Temperature = 0.3

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.baseURL+"/foundationModels/v1/completion", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Api-Key "+apiKey)

	resp, err := y.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upstream status %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	var out struct {
		Result struct {
			Alternatives []struct {
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
			} `json:"alternatives"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Result.Alternatives) == 0 {
		return "", nil
	}
	return out.Result.Alternatives[0].Message.Text, nil
}
