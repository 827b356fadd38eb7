// Package llm unifies multiple text-generation backends behind one call
// signature. Provider failures are data, not faults: every outcome of a
// generation call is mapped into a typed Result so the surrounding request
// can always render a message instead of crashing.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"legalassist/internal/config"
	"legalassist/internal/pii"
)

// Provider is one generation backend adapter. Generate receives an already
// masked prompt and the resolved credential; it returns the generated text
// or an error describing the upstream failure.
type Provider interface {
	Name() string
	Label() string
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

// Status classifies the outcome of a gateway call.
type Status int

const (
	StatusOK Status = iota
	StatusUnknownProvider
	StatusKeyMissing
	StatusCallFailed
	StatusEmptyResponse
)

// Result is the typed outcome of one generation call. Expected provider
// failures (missing key, upstream error, empty payload) are values here,
// distinguishable from truly unexpected faults which never reach a Result.
type Result struct {
	Provider string
	Label    string
	Status   Status
	Content  string
	Detail   string
}

// OK reports whether generation succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// Text renders the result for display: the generated content on success,
// otherwise a provider-labeled error message.
func (r Result) Text() string {
	switch r.Status {
	case StatusOK:
		return r.Content
	case StatusUnknownProvider:
		return fmt.Sprintf("Error: unknown provider %q", r.Provider)
	case StatusKeyMissing:
		return fmt.Sprintf("[%s] Error: API key is not configured", r.Label)
	case StatusEmptyResponse:
		return fmt.Sprintf("[%s] Error: empty response from provider", r.Label)
	default:
		return fmt.Sprintf("[%s] Error: %s", r.Label, r.Detail)
	}
}

// Masker is the subset of the PII masker the gateway needs. Every prompt
// passes through Mask before an adapter sees it; the successful content is
// unmasked with the same call-scoped mapping.
type Masker interface {
	Mask(text string) (string, map[string]string)
	Unmask(masked string, mapping map[string]string) string
}

// Generator is the gateway contract consumed by orchestrating services.
type Generator interface {
	Generate(ctx context.Context, prompt, providerName string, keys map[string]string) Result
}

// Gateway routes generation calls to a closed, registered set of provider
// adapters, resolving credentials per call and isolating failures per
// provider.
type Gateway struct {
	providers map[string]Provider
	defaults  map[string]string
	masker    Masker
	timeout   time.Duration
}

// NewGateway builds the gateway with the yandex, gigachat and deepseek
// adapters registered. Absent default keys are allowed; calls without a
// resolvable key yield a KeyMissing result.
func NewGateway(cfg config.LLMConfig, masker Masker) *Gateway {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	g := &Gateway{
		providers: make(map[string]Provider),
		defaults:  make(map[string]string),
		masker:    masker,
		timeout:   timeout,
	}
	g.register(newYandex(cfg.Yandex, client), cfg.Yandex.APIKey)
	g.register(newGigaChat(cfg.GigaChat, client), cfg.GigaChat.APIKey)
	g.register(newDeepSeek(cfg.DeepSeek, client), cfg.DeepSeek.APIKey)
	return g
}

func (g *Gateway) register(p Provider, defaultKey string) {
	g.providers[p.Name()] = p
	g.defaults[p.Name()] = defaultKey
}

// Providers returns the registered provider names.
func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	return names
}

// Generate masks the prompt, resolves the credential (request-supplied key
// wins over the configured default) and calls the selected adapter under
// the gateway timeout. It never returns an error: every outcome is a
// Result. The call-scoped PII mapping is discarded after unmasking.
func (g *Gateway) Generate(ctx context.Context, prompt, providerName string, keys map[string]string) Result {
	provider, ok := g.providers[providerName]
	if !ok {
		return Result{Provider: providerName, Label: providerName, Status: StatusUnknownProvider}
	}

	key := keys[providerName]
	if key == "" {
		key = g.defaults[providerName]
	}
	if key == "" {
		return Result{Provider: providerName, Label: provider.Label(), Status: StatusKeyMissing}
	}

	masked, mapping := g.masker.Mask(prompt)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := provider.Generate(callCtx, masked, key)
	if err != nil {
		return Result{Provider: providerName, Label: provider.Label(), Status: StatusCallFailed, Detail: err.Error()}
	}
	if content == "" {
		return Result{Provider: providerName, Label: provider.Label(), Status: StatusEmptyResponse}
	}

	return Result{
		Provider: providerName,
		Label:    provider.Label(),
		Status:   StatusOK,
		Content:  g.masker.Unmask(content, mapping),
	}
}

var (
	_ Masker    = (*pii.Masker)(nil)
	_ Generator = (*Gateway)(nil)
)
