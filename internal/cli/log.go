// Package cli implements the seatmap command-line interface.
//
// Commands read and write layouts through the record store selected in
// the config file (file, memory, Redis or MongoDB) and share one
// charmbracelet/log logger.
//
// # Commands
//
//   - edit: interactive grid editor (bubbletea)
//   - show, list, delete: inspect and manage stored layouts
//   - import, export: move layouts between files and the store
//   - availability: seat status for a set of bookings
//   - serve: the layout HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes editor, sync and store events through the logger. The editor
// owns the terminal, so its session logs go to --log-file or nowhere.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported coach-42 as svg (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
