package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != zerolog.InfoLevel {
		t.Fatalf("expected info, got %v %v", lvl, err)
	}
	lvl, err = ParseLevel(" DEBUG ")
	if err != nil || lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closeFn()

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if strings.Contains(buf.String(), "quiet") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harmonizer.log")
	log, closeFn, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info().Str("id", "1").Msg("moved")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"id":"1"`) {
		t.Fatalf("expected json field in %q", data)
	}
}
