package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestInitWritesJSONAndIsSingleton(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "info", Output: &buf})
	log.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "hello" || entry["k"] != "v" || entry["service"] != "hrconsole" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	var other bytes.Buffer
	again := Init(Options{Level: "debug", Output: &other})
	again.Info().Msg("second")
	if other.Len() != 0 {
		t.Fatal("expected second Init to reuse the first logger")
	}
}

func TestGetBeforeInitIsDisabled(t *testing.T) {
	Reset()
	if got := Get(); got.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got level %s", got.GetLevel())
	}
}
