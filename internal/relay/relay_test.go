package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maximbilan/promptrelay/internal/provider"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name        string
		persona     string
		instruction string
		input       string
		want        string
	}{
		{
			name:        "plain input",
			persona:     "P",
			instruction: "I",
			input:       "Login screen with blue button",
			want:        "P\n\nLogin screen with blue button\n\nI",
		},
		{
			name:        "empty input is kept",
			persona:     "P",
			instruction: "I",
			input:       "",
			want:        "P\n\n\n\nI",
		},
		{
			name:        "multi-line input untouched",
			persona:     "P",
			instruction: "I",
			input:       "line one\nline two",
			want:        "P\n\nline one\nline two\n\nI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.persona, tt.instruction, tt.input)
			if got != tt.want {
				t.Errorf("BuildPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstructionTexts(t *testing.T) {
	wantTestCase := "Return the test cases as sentences seperated by /n. " +
		"Do not include any other text like 'Here are the test cases' or 'Test cases:' in your response."
	if TestCaseInstruction != wantTestCase {
		t.Errorf("TestCaseInstruction = %q, want %q", TestCaseInstruction, wantTestCase)
	}
	if ReactInstruction != "Return the react code and nothing else." {
		t.Errorf("ReactInstruction = %q", ReactInstruction)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, "gpt-4.1-nano"); err == nil {
		t.Error("New() with nil provider should fail")
	}
	if _, err := New(provider.NewMockProvider(), ""); err == nil {
		t.Error("New() with empty model should fail")
	}
	r, err := New(provider.NewMockProvider(), "gpt-4.1-nano")
	if err != nil || r == nil {
		t.Fatalf("New() = %v, %v", r, err)
	}
}

func newTestRelay(t *testing.T) (*Relay, *provider.MockProvider) {
	t.Helper()
	mock := provider.NewMockProvider()
	r, err := New(mock, "gpt-4.1-nano")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, mock
}

func TestScreenTestCases(t *testing.T) {
	r, mock := newTestRelay(t)
	input := "Login screen with blue button"
	wantPrompt := TestCasePersona + "\n\n" + input + "\n\n" + TestCaseInstruction
	mock.SetResponse(wantPrompt, "T1\nT2\nT3")

	got, err := r.ScreenTestCases(context.Background(), input)
	if err != nil {
		t.Fatalf("ScreenTestCases() error = %v", err)
	}
	if got != "T1\nT2\nT3" {
		t.Errorf("ScreenTestCases() = %q, want unmodified provider text", got)
	}

	req, ok := mock.LastRequest()
	if !ok {
		t.Fatal("provider was not called")
	}
	if req.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", req.MaxTokens)
	}
	if req.Model != "gpt-4.1-nano" {
		t.Errorf("Model = %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != provider.RoleUser {
		t.Fatalf("Messages = %+v, want a single user message", req.Messages)
	}
	content := req.Messages[0].Content
	if content != wantPrompt {
		t.Errorf("prompt = %q, want %q", content, wantPrompt)
	}
	before, after, found := strings.Cut(content, input)
	if !found || !strings.HasPrefix(before, TestCasePersona) || !strings.HasSuffix(after, TestCaseInstruction) {
		t.Errorf("input is not between persona and instruction: %q", content)
	}
}

func TestReactCode(t *testing.T) {
	r, mock := newTestRelay(t)

	if _, err := r.ReactCode(context.Background(), "A toggle between code and preview"); err != nil {
		t.Fatalf("ReactCode() error = %v", err)
	}
	req, _ := mock.LastRequest()
	if req.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", req.MaxTokens)
	}
	want := ReactPersona + "\n\nA toggle between code and preview\n\n" + ReactInstruction
	if req.Messages[0].Content != want {
		t.Errorf("prompt = %q, want %q", req.Messages[0].Content, want)
	}
}

func TestEmptyInputIsForwarded(t *testing.T) {
	r, mock := newTestRelay(t)

	if _, err := r.ScreenTestCases(context.Background(), ""); err != nil {
		t.Fatalf("ScreenTestCases(\"\") error = %v", err)
	}
	if n := len(mock.Requests()); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
}

func TestEvaluateImage(t *testing.T) {
	r, mock := newTestRelay(t)
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, png, 0600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	mock.SetResponse("Test case 1 passes", "PASS")

	got, err := r.EvaluateImage(context.Background(), "Test case 1 passes", path)
	if err != nil {
		t.Fatalf("EvaluateImage() error = %v", err)
	}
	if got != "PASS" {
		t.Errorf("EvaluateImage() = %q, want PASS", got)
	}

	req, _ := mock.LastRequest()
	if req.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", req.MaxTokens)
	}
	parts := req.Messages[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0].Type != provider.PartText || parts[0].Text != "Test case 1 passes" {
		t.Errorf("text part = %+v, want prompt verbatim", parts[0])
	}
	wantURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if parts[1].Type != provider.PartImageURL || parts[1].ImageURL != wantURI {
		t.Errorf("image part = %+v, want %q", parts[1], wantURI)
	}
}

func TestEvaluateImageMissingFile(t *testing.T) {
	r, mock := newTestRelay(t)

	_, err := r.EvaluateImage(context.Background(), "p", filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("EvaluateImage() error = %v, want ErrImageNotFound", err)
	}
	if n := len(mock.Requests()); n != 0 {
		t.Errorf("provider calls = %d, want 0", n)
	}
}

func TestImageDataURIDirectory(t *testing.T) {
	_, err := ImageDataURI(t.TempDir())
	if !errors.Is(err, ErrImageUnreadable) {
		t.Fatalf("ImageDataURI(dir) error = %v, want ErrImageUnreadable", err)
	}
}

func TestProviderFailureIsWrapped(t *testing.T) {
	r, mock := newTestRelay(t)
	quota := errors.New("429 quota exceeded")
	mock.SetError(quota)

	_, err := r.ReactCode(context.Background(), "x")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("ReactCode() error = %v, want *ProviderError", err)
	}
	if !errors.Is(err, quota) {
		t.Errorf("ProviderError does not unwrap to the cause: %v", err)
	}
}
