package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultAzureAPIVersion is the Azure OpenAI API version used when none is configured
	DefaultAzureAPIVersion = "2024-12-01-preview"
	// DefaultModel is both the model name and the Azure deployment name by default
	DefaultModel = "gpt-4.1-nano"
)

// OpenAIProvider implements Provider using OpenAI's API, either directly or through Azure
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider talking to api.openai.com
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
	}, nil
}

// NewAzureProvider creates a provider for an Azure OpenAI resource. Every model name is
// routed to the given deployment.
func NewAzureProvider(apiKey, endpoint, apiVersion, deployment string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAzureAPIVersion
	}
	if deployment == "" {
		deployment = DefaultModel
	}

	cfg := openai.DefaultAzureConfig(apiKey, strings.TrimRight(endpoint, "/"))
	cfg.APIVersion = apiVersion
	cfg.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	return NewOpenAIProviderWithConfig(cfg), nil
}

// NewOpenAIProviderWithConfig creates a provider from a fully built client config
func NewOpenAIProviderWithConfig(cfg openai.ClientConfig) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
	}
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		if len(msg.Parts) == 0 {
			openaiMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
			continue
		}

		parts := make([]openai.ChatMessagePart, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Type {
			case PartImageURL:
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: part.ImageURL},
				})
			default:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: part.Text,
				})
			}
		}
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:         msg.Role,
			MultiContent: parts,
		}
	}
	return openaiMessages
}

// Chat performs a non-streaming chat completion
func (p *OpenAIProvider) Chat(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  toOpenAIMessages(req.Messages),
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
