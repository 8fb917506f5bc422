package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestWithComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.WithComponent("session").Info("probe finished", "authenticated", true)

	out := buf.String()
	for _, want := range []string{`"component":"session"`, `"authenticated":true`, "probe finished"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q does not contain %q", out, want)
		}
	}
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Debug("noisy")

	if buf.Len() != 0 {
		t.Fatalf("expected no output for debug in production, got %q", buf.String())
	}
}

func TestPrintfLogsFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Output: &buf})

	log.Printf("PROVIDE %s", "config")

	if !strings.Contains(buf.String(), "PROVIDE config") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
