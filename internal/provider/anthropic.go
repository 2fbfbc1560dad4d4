package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicProvider implements Provider using Anthropic's API
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey string, opts ...option.RequestOption) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client := anthropic.NewClient(
		append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...,
	)
	return &AnthropicProvider{
		client: client,
	}, nil
}

// splitDataURI splits "data:<media>;base64,<payload>" into its media type and payload.
func splitDataURI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", "", fmt.Errorf("image must be a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mediaType == "" {
		return "", "", fmt.Errorf("data URI must be base64 encoded")
	}
	return mediaType, payload, nil
}

func toAnthropicBlocks(msg Message) ([]anthropic.ContentBlockParamUnion, error) {
	if len(msg.Parts) == 0 {
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)}, nil
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case PartImageURL:
			mediaType, data, err := splitDataURI(part.ImageURL)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, data))
		default:
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
		}
	}
	return blocks, nil
}

func toAnthropicMessages(messages []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam, error) {
	anthropicMessages := make([]anthropic.MessageParam, 0, len(messages))
	systemPrompt := make([]anthropic.TextBlockParam, 0)

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemPrompt = append(systemPrompt, anthropic.TextBlockParam{Text: msg.Content})
			continue
		}
		blocks, err := toAnthropicBlocks(msg)
		if err != nil {
			return nil, nil, err
		}
		// Anthropic uses "user" and "assistant" roles.
		if msg.Role == RoleUser {
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(blocks...))
		} else if msg.Role == RoleAssistant {
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(blocks...))
		}
	}

	return anthropicMessages, systemPrompt, nil
}

// Chat performs a non-streaming chat completion
func (p *AnthropicProvider) Chat(ctx context.Context, req Request) (string, error) {
	anthropicMessages, systemPrompt, err := toAnthropicMessages(req.Messages)
	if err != nil {
		return "", fmt.Errorf("failed to build messages: %w", err)
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  anthropicMessages,
	}

	if len(systemPrompt) > 0 {
		params.System = systemPrompt
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", ErrNoChoices
	}

	// Extract text content from the first content block
	if textBlock, ok := resp.Content[0].AsAny().(anthropic.TextBlock); ok {
		return textBlock.Text, nil
	}

	return "", fmt.Errorf("unexpected response format")
}
