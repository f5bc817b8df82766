package services

import (
	"context"
	"fmt"
	"log"
)

// TextGenerator is what the pipeline sees: one opaque model id in, markdown
// analysis out.
type TextGenerator interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
	KnownModel(modelID string) bool
}

// ModelSpec maps an opaque model id onto a provider and the provider's own
// model name.
type ModelSpec struct {
	Provider string
	Model    string
}

const (
	ProviderGoogle     = "google"
	ProviderGroq       = "groq"
	ProviderPerplexity = "perplexity"
)

// AvailableModels is the registry of selectable models.
var AvailableModels = map[string]ModelSpec{
	"gemini-2.5-pro":      {Provider: ProviderGoogle, Model: "gemini-2.5-pro"},
	"gemini-2.5-flash":    {Provider: ProviderGoogle, Model: "gemini-2.5-flash"},
	"gemini-1.5-flash":    {Provider: ProviderGoogle, Model: "gemini-1.5-flash"},
	"llama-3.1-8b":        {Provider: ProviderGroq, Model: "llama-3.1-8b-instant"},
	"llama-3.3-70b":       {Provider: ProviderGroq, Model: "llama-3.3-70b-versatile"},
	"deepseek-r1-70b":     {Provider: ProviderGroq, Model: "deepseek-r1-distill-llama-70b"},
	"sonar-reasoning-pro": {Provider: ProviderPerplexity, Model: "sonar-reasoning-pro"},
	"sonar-large":         {Provider: ProviderPerplexity, Model: "sonar-large"},
}

const generationTemperature = 0.4

type llmService struct {
	gemini     GeminiService
	groq       OpenAICompatService
	perplexity OpenAICompatService
	maxRetries int
}

func NewLLMService(gemini GeminiService, groq, perplexity OpenAICompatService, maxRetries int) TextGenerator {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &llmService{
		gemini:     gemini,
		groq:       groq,
		perplexity: perplexity,
		maxRetries: maxRetries,
	}
}

// KnownModel implements TextGenerator.
func (l *llmService) KnownModel(modelID string) bool {
	_, ok := AvailableModels[modelID]
	return ok
}

// Generate implements TextGenerator. Dispatches on the registry and retries
// up to maxRetries before giving up.
func (l *llmService) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	spec, ok := AvailableModels[modelID]
	if !ok {
		return "", fmt.Errorf("unknown model id: %q", modelID)
	}

	var lastErr error
	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		result, err := l.generateOnce(ctx, spec, prompt)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < l.maxRetries {
			log.Printf("⚠️ Generation attempt %d with %s failed: %v. Retrying...\n", attempt, modelID, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts with %s: %w", l.maxRetries, modelID, lastErr)
}

func (l *llmService) generateOnce(ctx context.Context, spec ModelSpec, prompt string) (string, error) {
	switch spec.Provider {
	case ProviderGoogle:
		if l.gemini == nil {
			return "", fmt.Errorf("gemini client not initialized")
		}
		return l.gemini.GenerateText(ctx, spec.Model, prompt, generationTemperature)
	case ProviderGroq:
		return l.groq.GenerateText(ctx, spec.Model, prompt, generationTemperature)
	case ProviderPerplexity:
		return l.perplexity.GenerateText(ctx, spec.Model, prompt, generationTemperature)
	default:
		return "", fmt.Errorf("unknown provider %q", spec.Provider)
	}
}
