package provider

import "fmt"

// Kind names a provider backend
type Kind string

const (
	KindAzure     Kind = "azure"
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
)

// Settings carries everything the factory needs to build a provider
type Settings struct {
	Kind            Kind
	APIKey          string
	Endpoint        string
	APIVersion      string
	Deployment      string
	AnthropicAPIKey string
}

// New builds the provider selected by s.Kind. An empty kind means Azure.
func New(s Settings) (Provider, error) {
	switch s.Kind {
	case KindAzure, "":
		p, err := NewAzureProvider(s.APIKey, s.Endpoint, s.APIVersion, s.Deployment)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindOpenAI:
		p, err := NewOpenAIProvider(s.APIKey)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindAnthropic:
		p, err := NewAnthropicProvider(s.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Kind)
	}
}
