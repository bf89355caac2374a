package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/internal/config"
	"github.com/matzehuels/seatmap/pkg/buildinfo"
	"github.com/matzehuels/seatmap/pkg/cache"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level and, at debug level, routes
// observability events through the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "seatmap",
		Short: "Seatmap edits vehicle seating charts",
		Long: `Seatmap is a grid editor for vehicle seating charts. Layouts are placed
cell by cell in a terminal editor, stored in a file, Redis or MongoDB
backend, and served over HTTP to booking front ends.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seatmap/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.availabilityCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file with environment overrides applied.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "backend", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Store Factory
// =============================================================================

// openStore connects to the configured record store. Network backends
// show a spinner while dialing.
func (c *CLI) openStore(ctx context.Context) (records.Store, error) {
	rc := c.cfg.Records()
	if rc.Backend != records.BackendRedis && rc.Backend != records.BackendMongo {
		return records.Open(ctx, rc)
	}

	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Connecting to %s...", rc.Backend))
	spinner.Start()
	s, err := records.Open(ctx, rc)
	if err != nil {
		spinner.Stop()
		return nil, fmt.Errorf("open %s store: %w", rc.Backend, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Connected to %s", rc.Backend))
	return s, nil
}

// =============================================================================
// Converter Factory
// =============================================================================

// openCache opens the artifact cache directory.
func (c *CLI) openCache() (*cache.FileCache, error) {
	dir, err := c.cfg.Export.Dir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// converter returns the PDF/PNG converter. An unusable cache directory
// downgrades to uncached conversion.
func (c *CLI) converter(noCache bool) *render.Converter {
	opts := []render.ConvertOption{render.WithConvertLogger(c.Logger)}
	if c.cfg.Export.Cache && !noCache {
		fc, err := c.openCache()
		if err != nil {
			c.Logger.Warn("artifact cache disabled", "err", err)
		} else {
			opts = append(opts, render.WithCache(fc, c.cfg.Export.CacheTTL))
		}
	}
	return render.NewConverter(opts...)
}

// withStore opens the record store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(records.Store) error) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()
	return fn(s)
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks reports observability events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetEditorHooks(h)
	observability.SetSyncHooks(h)
	observability.SetRecordHooks(h)
}

func (h logHooks) OnCommit(action string, elements int) {
	h.logger.Debug("commit", "action", action, "elements", elements)
}

func (h logHooks) OnReject(action, reason string) {
	h.logger.Debug("rejected", "action", action, "reason", reason)
}

func (h logHooks) OnHistory(op string, past, future int) {
	h.logger.Debug("history", "op", op, "past", past, "future", future)
}

func (h logHooks) OnImport(elements int, err error) {
	h.logger.Debug("import", "elements", elements, "err", err)
}

func (h logHooks) OnExport(size int, err error) {
	h.logger.Debug("export", "bytes", size, "err", err)
}

func (h logHooks) OnGet(_ context.Context, backend, id string, found bool, d time.Duration, err error) {
	h.logger.Debug("record get", "backend", backend, "id", id, "found", found, "took", d, "err", err)
}

func (h logHooks) OnSet(_ context.Context, backend, id string, size int, d time.Duration, err error) {
	h.logger.Debug("record set", "backend", backend, "id", id, "bytes", size, "took", d, "err", err)
}

var (
	_ observability.EditorHooks = logHooks{}
	_ observability.SyncHooks   = logHooks{}
	_ observability.RecordHooks = logHooks{}
)
