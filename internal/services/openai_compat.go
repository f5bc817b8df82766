package services

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatService talks to any OpenAI-compatible chat completion API.
// Groq and Perplexity both expose one, differing only in base URL and key.
type OpenAICompatService interface {
	GenerateText(ctx context.Context, model, prompt string, temperature float32) (string, error)
	Ready() bool
}

type openaiCompatService struct {
	client *openai.Client
	name   string
}

func NewOpenAICompatService(name, apiKey, baseURL string) OpenAICompatService {
	if apiKey == "" {
		return &openaiCompatService{name: name}
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &openaiCompatService{
		client: openai.NewClientWithConfig(cfg),
		name:   name,
	}
}

// Ready implements OpenAICompatService.
func (o *openaiCompatService) Ready() bool {
	return o.client != nil
}

// GenerateText implements OpenAICompatService.
func (o *openaiCompatService) GenerateText(ctx context.Context, model, prompt string, temperature float32) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("%s client not initialized (missing API key)", o.name)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion failed: %w", o.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s returned an empty completion", o.name)
	}

	return resp.Choices[0].Message.Content, nil
}
