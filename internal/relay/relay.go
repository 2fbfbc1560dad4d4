package relay

import (
	"context"
	"fmt"

	"github.com/maximbilan/promptrelay/internal/provider"
	"github.com/rs/zerolog/log"
)

// ProviderError wraps a failed call to the chat-completion provider.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider call failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Relay turns caller input into provider requests and hands back the first completion's text.
// It holds no mutable state and is safe for concurrent use.
type Relay struct {
	provider provider.Provider
	model    string
}

func New(p provider.Provider, model string) (*Relay, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Relay{
		provider: p,
		model:    model,
	}, nil
}

// ScreenTestCases asks for 3-5 test cases covering the described screen.
func (r *Relay) ScreenTestCases(ctx context.Context, description string) (string, error) {
	prompt := BuildPrompt(TestCasePersona, TestCaseInstruction, description)
	return r.complete(ctx, "screen_test_cases", TestCaseMaxTokens, provider.UserText(prompt))
}

// ReactCode asks for the React code implementing the screen requirement.
func (r *Relay) ReactCode(ctx context.Context, requirement string) (string, error) {
	prompt := BuildPrompt(ReactPersona, ReactInstruction, requirement)
	return r.complete(ctx, "react_code", ReactCodeMaxTokens, provider.UserText(prompt))
}

// EvaluateImage sends the prompt unmodified together with the image at imagePath.
// The path is resolved on the server's filesystem.
func (r *Relay) EvaluateImage(ctx context.Context, prompt, imagePath string) (string, error) {
	uri, err := ImageDataURI(imagePath)
	if err != nil {
		return "", err
	}
	log.Debug().Str("image_path", imagePath).Int("prompt_len", len(prompt)).Msg("evaluating image")

	msg := provider.UserParts(provider.TextPart(prompt), provider.ImagePart(uri))
	return r.complete(ctx, "evaluate_image", ImageEvaluationMaxTokens, msg)
}

func (r *Relay) complete(ctx context.Context, route string, maxTokens int, msg provider.Message) (string, error) {
	text, err := r.provider.Chat(ctx, provider.Request{
		Model:     r.model,
		Messages:  []provider.Message{msg},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	log.Debug().Str("route", route).Int("chars", len(text)).Msg("completion received")
	return text, nil
}
