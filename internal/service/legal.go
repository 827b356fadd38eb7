package service

import (
	"context"
	"fmt"
	"strings"

	"legalassist/internal/llm"
	"legalassist/internal/model"
	"legalassist/internal/retrieval"
)

// defaultLegalProvider is used when the request does not name a provider.
const defaultLegalProvider = "gigachat"

// LegalAnswer is the full response of a legal consultation: the generated
// answer plus the grounding sources and a risk assessment.
type LegalAnswer struct {
	Answer  string              `json:"answer"`
	Sources []model.LegalSource `json:"sources"`
	Risks   []model.Risk        `json:"risks"`
}

// LegalService answers legal questions grounded on the document knowledge base.
type LegalService interface {
	Ask(ctx context.Context, query, provider string) (*LegalAnswer, error)
}

type legalService struct {
	retriever retrieval.Service
	gateway   llm.Generator
}

// NewLegalService constructs the RAG question-answering orchestrator.
func NewLegalService(retriever retrieval.Service, gateway llm.Generator) LegalService {
	return &legalService{retriever: retriever, gateway: gateway}
}

// Ask retrieves the most relevant stored chunks, falls back to a static
// legal context when the store has nothing embedded yet, and prompts the
// selected provider with the grounded context. Provider failures surface as
// the answer text, never as an error.
func (s *legalService) Ask(ctx context.Context, query, provider string) (*LegalAnswer, error) {
	if provider == "" {
		provider = defaultLegalProvider
	}

	scored, err := s.retriever.FindRelevant(ctx, query, retrieval.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	var sources []model.LegalSource
	if len(scored) == 0 {
		sources = fallbackSources()
	} else {
		sources = make([]model.LegalSource, 0, len(scored))
		for _, sc := range scored {
			sources = append(sources, model.LegalSource{
				ID:        sc.Chunk.ID,
				Title:     sc.Filename,
				Type:      "document",
				Content:   sc.Chunk.Content,
				Relevance: relevanceFromDistance(sc.Distance),
				Citation:  fmt.Sprintf("%s, fragment %d", sc.Filename, sc.Chunk.Seq+1),
			})
		}
	}

	var contextParts []string
	for _, src := range sources {
		contextParts = append(contextParts, src.Content)
	}
	prompt := fmt.Sprintf(
		"Context from legal sources:\n%s\n\nUser question: %s\nAnswer in detail, citing the applicable provisions.",
		strings.Join(contextParts, "\n"), query,
	)

	result := s.gateway.Generate(ctx, prompt, provider, nil)

	return &LegalAnswer{
		Answer:  result.Text(),
		Sources: sources,
		Risks:   staticRisks(),
	}, nil
}

// relevanceFromDistance maps a cosine distance into a 0..1 relevance score.
func relevanceFromDistance(distance float64) float64 {
	r := 1 - distance
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// fallbackSources is the static grounding context used while the knowledge
// base has no embedded chunks.
func fallbackSources() []model.LegalSource {
	return []model.LegalSource{
		{
			ID:        "fallback-1",
			Title:     "Housing Code",
			Type:      "law",
			Content:   "Owners of premises in an apartment building are required to select one of the management methods for the building.",
			Relevance: 0.95,
			Citation:  "Art. 161, Housing Code",
		},
		{
			ID:        "fallback-2",
			Title:     "Government Decree No. 354",
			Type:      "law",
			Content:   "The service provider is required to supply utility services to the consumer in the necessary volumes.",
			Relevance: 0.88,
			Citation:  "Section IV, para. 31",
		},
	}
}

// staticRisks is the placeholder risk assessment attached to every answer.
func staticRisks() []model.Risk {
	return []model.Risk{
		{
			Category:       "Administrative risk",
			Level:          "medium",
			Description:    "Risk of violating the management method selection procedure.",
			Recommendation: "Verify the general meeting minutes for quorum.",
		},
	}
}
