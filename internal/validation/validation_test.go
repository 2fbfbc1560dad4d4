package validation

import "testing"

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{kind: "azure"},
		{kind: "openai"},
		{kind: "anthropic"},
		{kind: "", wantErr: true},
		{kind: "Azure", wantErr: true},
		{kind: "bedrock", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			err := ValidateProvider(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateProvider(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		apiKey  string
		wantErr bool
	}{
		{
			name:   "azure hex key",
			kind:   "azure",
			apiKey: "0123456789abcdef0123456789abcdef",
		},
		{
			name:   "valid openai key",
			kind:   "openai",
			apiKey: "sk-12345678901234567890",
		},
		{
			name:   "valid anthropic key",
			kind:   "anthropic",
			apiKey: "sk-ant-REDACTED",
		},
		{
			name:    "empty key",
			kind:    "azure",
			apiKey:  "",
			wantErr: true,
		},
		{
			name:    "too short",
			kind:    "openai",
			apiKey:  "sk-short",
			wantErr: true,
		},
		{
			name:    "invalid openai prefix",
			kind:    "openai",
			apiKey:  "abc-12345678901234567890",
			wantErr: true,
		},
		{
			name:    "openai key for anthropic",
			kind:    "anthropic",
			apiKey:  "sk-12345678901234567890",
			wantErr: true,
		},
		{
			name:    "leading whitespace invalidates prefix",
			kind:    "openai",
			apiKey:  " sk-12345678901234567890",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.kind, tt.apiKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAPIKey(%q, %q) error = %v, wantErr %v", tt.kind, tt.apiKey, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{name: "azure resource", endpoint: "https://example.cognitiveservices.azure.com/"},
		{name: "local http", endpoint: "http://127.0.0.1:8080"},
		{name: "empty", endpoint: "", wantErr: true},
		{name: "no scheme", endpoint: "example.openai.azure.com", wantErr: true},
		{name: "ftp", endpoint: "ftp://example.com", wantErr: true},
		{name: "no host", endpoint: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	for _, port := range []int{1, 8000, 65535} {
		if err := ValidatePort(port); err != nil {
			t.Errorf("ValidatePort(%d) error = %v", port, err)
		}
	}
	for _, port := range []int{0, -1, 65536} {
		if err := ValidatePort(port); err == nil {
			t.Errorf("ValidatePort(%d) error = nil, want error", port)
		}
	}
}

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		model   string
		wantErr bool
	}{
		{name: "azure gpt", kind: "azure", model: "gpt-4.1-nano"},
		{name: "openai gpt", kind: "openai", model: "gpt-4o"},
		{name: "anthropic claude", kind: "anthropic", model: "claude-3-5-haiku-latest"},
		{name: "anthropic with gpt model", kind: "anthropic", model: "gpt-4.1-nano", wantErr: true},
		{name: "azure with claude model", kind: "azure", model: "claude-3-5-haiku-latest", wantErr: true},
		{name: "empty", kind: "openai", model: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModel(tt.kind, tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateModel(%q, %q) error = %v, wantErr %v", tt.kind, tt.model, err, tt.wantErr)
			}
		})
	}
}
