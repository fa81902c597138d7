package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{level: "debug", wantDebug: true, wantWarn: true},
		{level: "info", wantDebug: false, wantWarn: true},
		{level: "error", wantDebug: false, wantWarn: false},
		{level: "not-a-level", wantDebug: false, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(tt.level, &buf).Sugar()

			l.Debug("debug-entry")
			l.Warn("warn-entry")
			_ = l.Sync()

			out := buf.String()
			if got := strings.Contains(out, "debug-entry"); got != tt.wantDebug {
				t.Errorf("debug entry logged = %v, want %v (output %q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "warn-entry"); got != tt.wantWarn {
				t.Errorf("warn entry logged = %v, want %v (output %q)", got, tt.wantWarn, out)
			}
		})
	}
}

func TestNewLoggerUsesConsoleEncoding(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("info", &buf).Sugar()
	l.Infow("fetched template", "bytes", 42)
	_ = l.Sync()

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("Expected console encoded entry, got JSON: %s", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, `"bytes": 42`) {
		t.Errorf("Unexpected log entry: %s", out)
	}
}
