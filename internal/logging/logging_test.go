package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWriterFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.InfoLevel)

	log.Info().Str("report_id", "WRP25_00001_W01").Msg("weekly report saved")
	log.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "weekly report saved") || !strings.Contains(out, "report_id=WRP25_00001_W01") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatal("debug line written at info level")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("log file output must not carry colour codes")
	}
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pmdesk.log")

	for i := 0; i < 2; i++ {
		log, closer, err := New("info", path)
		if err != nil {
			t.Fatal(err)
		}
		log.Info().Msg("line")
		closer.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "line"); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel(""); err != nil || lvl != zerolog.InfoLevel {
		t.Fatalf("empty level: %v %v", lvl, err)
	}
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != zerolog.DebugLevel {
		t.Fatalf("DEBUG: %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
