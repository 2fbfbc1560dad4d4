package provider

import (
	"context"
	"errors"
)

// Provider defines the interface for chat-completion backends (Azure OpenAI, OpenAI, Anthropic)
type Provider interface {
	// Chat sends the request and returns the text of the first completion choice
	Chat(ctx context.Context, req Request) (string, error)
}

// ErrNoChoices is returned when the backend answers without any completion choice.
var ErrNoChoices = errors.New("no response from API")

// Request is a single chat-completion call
type Request struct {
	Model     string
	Messages  []Message
	MaxTokens int
}

// Message represents a chat message. Content holds plain text; Parts, when set,
// replaces Content with a list of typed parts.
type Message struct {
	Role    string
	Content string
	Parts   []Part
}

// PartType tags a message part
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
)

// Part is one element of a multi-part message
type Part struct {
	Type     PartType
	Text     string
	ImageURL string
}

// Role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// UserText builds a plain-text user message
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// UserParts builds a multi-part user message
func UserParts(parts ...Part) Message {
	return Message{Role: RoleUser, Parts: parts}
}

func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

func ImagePart(url string) Part {
	return Part{Type: PartImageURL, ImageURL: url}
}

// lastUserText returns the text of the last user message, looking inside parts when needed.
func lastUserText(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleUser {
			continue
		}
		if len(messages[i].Parts) == 0 {
			return messages[i].Content
		}
		for _, part := range messages[i].Parts {
			if part.Type == PartText {
				return part.Text
			}
		}
		return ""
	}
	return ""
}
