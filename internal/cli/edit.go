package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/store"
	seatsync "github.com/matzehuels/seatmap/pkg/sync"
)

// editOpts holds options for the edit command.
type editOpts struct {
	rows, cols   int
	noAutoNumber bool
	logFile      string
}

// editCommand creates the edit command for the interactive layout editor.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit <layout-id>",
		Short: "Edit a seating layout in the terminal",
		Long: `Edit a seating layout in an interactive grid editor.

Click an empty cell to place the current tool, click an element to select it,
and drag to move the selection. Double-click a seat or press enter to change
its number. Every change is saved to the configured store as soon as you
start editing; an untouched session never writes.`,
		Example: `  # Edit or create a layout
  seatmap edit coach-42

  # Start a new layout on a 10x5 grid
  seatmap edit minibus --rows 10 --cols 5`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLayoutIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", 0, "grid rows for a new layout (default from config)")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "grid columns for a new layout (default from config)")
	cmd.Flags().BoolVar(&opts.noAutoNumber, "no-auto-number", false, "leave new seats unnumbered")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write editor logs to this file")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, id string, opts editOpts) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	dims, err := c.newLayoutDimensions(opts.rows, opts.cols)
	if err != nil {
		return err
	}

	logger, closeLog, err := c.sessionLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	return c.withStore(ctx, func(s records.Store) error {
		value, err := loadValue(ctx, s, id)
		if err != nil {
			return err
		}

		sess := c.newSession(ctx, s, id, dims, logger, c.cfg.Editor.AutoNumber && !opts.noAutoNumber)
		defer sess.close()
		sess.load(value)

		p := tea.NewProgram(NewEditModel(id, sess.editor, c.cfg.Editor.Bounds()),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("editor: %w", err)
		}

		if sess.adapter.Touched() {
			printSuccess("Saved %s", StyleHighlight.Render(id))
		} else {
			printInfo("No changes to %s", id)
		}
		return nil
	})
}

// newLayoutDimensions applies flag overrides to the configured default grid.
func (c *CLI) newLayoutDimensions(rows, cols int) (layout.Dimensions, error) {
	dims := c.cfg.Editor.DefaultDimensions()
	if rows > 0 {
		dims.Rows = rows
	}
	if cols > 0 {
		dims.Cols = cols
	}
	if err := errors.ValidateDimensions(dims.Rows, dims.Cols, c.cfg.Editor.Bounds()); err != nil {
		return dims, err
	}
	return dims, nil
}

// sessionLogger returns the logger for an interactive session. The
// terminal belongs to the editor, so logs go to path or nowhere.
func (c *CLI) sessionLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, c.Logger.GetLevel()), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, c.Logger.GetLevel()), func() { f.Close() }, nil
}

// loadValue returns the stored layout for id, or nil when none exists.
func loadValue(ctx context.Context, s records.Store, id string) ([]byte, error) {
	rec, err := s.Get(ctx, id)
	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Layout, nil
}

// =============================================================================
// Session
// =============================================================================

// session is the composition root of one editing session: a history-backed
// store, the sync adapter writing to the record store, and the editor.
type session struct {
	doc     *store.History
	adapter *seatsync.Adapter
	editor  *editor.Editor
}

func (c *CLI) newSession(ctx context.Context, s records.Store, id string, dims layout.Dimensions, logger *log.Logger, autoNumber bool) *session {
	doc := store.NewHistory(store.New(dims), store.WithLimit(c.cfg.Editor.HistoryLimit))
	sink := func(value []byte) error {
		return s.Set(ctx, id, value)
	}
	adapter := seatsync.New(doc, sink, seatsync.WithLogger(logger))
	ed := editor.New(doc,
		editor.WithLogger(logger),
		editor.WithGesture(c.cfg.Editor.Gesture()),
		editor.WithAutoNumber(autoNumber),
		editor.OnTouch(adapter.Touch),
	)
	return &session{doc: doc, adapter: adapter, editor: ed}
}

// load imports the stored value. The import itself is not undoable.
func (s *session) load(value []byte) {
	if s.adapter.Import(value) {
		s.doc.Clear()
	}
}

func (s *session) close() {
	s.editor.Close()
	s.adapter.Close()
}
