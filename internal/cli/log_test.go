package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("layout saved", "id", "coach")

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("missing HH:MM:SS.ms timestamp: %q", line)
	}
	if !strings.Contains(line, "layout saved") || !strings.Contains(line, "id=coach") {
		t.Errorf("log line = %q", line)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		newLogger(&buf, tt.level).Debug("drop ignored")
		if got := buf.Len() > 0; got != tt.debug {
			t.Errorf("level %s: debug logged = %v, want %v", tt.level, got, tt.debug)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = time.Now().Add(-1500 * time.Millisecond)

	prog.done("Exported coach as png")

	out := buf.String()
	if !strings.Contains(out, "Exported coach as png (1.5") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}
