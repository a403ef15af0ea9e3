package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// These tests mutate the global logger and must not run in parallel.

func TestInitStampsServiceField(t *testing.T) {
	Init(Config{Service: "atende"})

	var buf bytes.Buffer
	captured := log.Logger.Output(&buf)
	captured.Info().Msg("ready")

	if !strings.Contains(buf.String(), `"service":"atende"`) {
		t.Fatalf("log line = %s", buf.String())
	}
}

func TestInitLevels(t *testing.T) {
	Init(Config{Debug: true})
	if log.Logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", log.Logger.GetLevel())
	}

	Init()
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", log.Logger.GetLevel())
	}
}
