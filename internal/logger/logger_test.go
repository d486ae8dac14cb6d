package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trivia-service/internal/config"

	"go.uber.org/zap"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.log")
	log := New(config.LogConfig{Level: "debug", File: path})
	log.Debug("hello", zap.String("challenge_id", "general"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"challenge_id":"general"`) {
		t.Fatalf("expected JSON record, got %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"": "info", "DEBUG": "debug", "warning": "warn", "error": "error", "bogus": "info"}
	for in, want := range cases {
		if got := ParseLevel(in).String(); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
