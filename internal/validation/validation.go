package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// MinAPIKeyLength is the shortest key accepted by any supported provider
	MinAPIKeyLength = 20
)

// ValidateProvider checks the provider kind is one we can build
func ValidateProvider(kind string) error {
	switch kind {
	case "azure", "openai", "anthropic":
		return nil
	case "":
		return fmt.Errorf("provider is required")
	default:
		return fmt.Errorf("unknown provider %q (want azure, openai or anthropic)", kind)
	}
}

// ValidateAPIKey validates the format of a provider API key.
// Azure keys are opaque; OpenAI and Anthropic keys carry a known prefix.
func ValidateAPIKey(kind, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}
	if len(apiKey) < MinAPIKeyLength {
		return fmt.Errorf("API key appears to be invalid (too short)")
	}
	switch kind {
	case "openai":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("API key must start with 'sk-'")
		}
	case "anthropic":
		if !strings.HasPrefix(apiKey, "sk-ant-") {
			return fmt.Errorf("API key must start with 'sk-ant-'")
		}
	}
	return nil
}

// ValidateEndpoint checks the provider endpoint is an absolute http(s) URL
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("endpoint must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host")
	}
	return nil
}

// ValidateModel rejects model names that belong to another provider family.
func ValidateModel(kind, model string) error {
	if model == "" {
		return fmt.Errorf("model is required")
	}
	name := strings.ToLower(model)
	switch kind {
	case "anthropic":
		if !strings.HasPrefix(name, "claude") {
			return fmt.Errorf("model %q is not an Anthropic model", model)
		}
	case "azure", "openai":
		if strings.HasPrefix(name, "claude") {
			return fmt.Errorf("model %q is not served by %s", model, kind)
		}
	}
	return nil
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535 (got %d)", port)
	}
	return nil
}
