package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: " DEBUG ", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "", want: zerolog.InfoLevel},
		{in: "verbose", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	prevLogger := zerologlog.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerologlog.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Setup(&buf, "warn")
	zerologlog.Info().Msg("hidden")
	zerologlog.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}
