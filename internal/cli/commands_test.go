package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/availability"
	"github.com/matzehuels/seatmap/pkg/errors"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/records"
)

const coachJSON = `[
  {"id": "s1", "type": "seat", "seatNumber": "1", "position": {"row": 1, "col": 1}},
  {"id": "s2", "type": "seat", "seatNumber": "2", "position": {"row": 1, "col": 2}},
  {"id": "s3", "type": "seat", "seatNumber": "3", "position": {"row": 2, "col": 1}, "disabled": true},
  {"id": "d", "type": "driver", "position": {"row": 3, "col": 1}, "size": {"rowSpan": 1, "colSpan": 2}}
]`

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"edit", "show", "list", "delete", "import", "export", "availability", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	c := newTestCLI()
	c.configPath = writeConfig(t, "[store]\nbackend = \"memory\"\n\n[editor]\nhistory_limit = 7\n")

	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if c.cfg.Store.Backend != records.BackendMemory || c.cfg.Editor.HistoryLimit != 7 {
		t.Errorf("cfg = %+v", c.cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	c := newTestCLI()
	c.configPath = writeConfig(t, "[store]\nbackned = \"memory\"\n")

	if err := c.loadConfig(); err == nil {
		t.Error("loadConfig() accepted a misspelled key")
	}
}

func TestImportAndExport(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()

	if err := c.runImport(ctx, s, []byte(coachJSON), "coach", importOpts{}); err != nil {
		t.Fatalf("runImport() error: %v", err)
	}

	err := c.runImport(ctx, s, []byte(`[]`), "coach", importOpts{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second import error = %v, want INVALID_INPUT", err)
	}
	if err := c.runImport(ctx, s, []byte(coachJSON), "coach", importOpts{force: true}); err != nil {
		t.Errorf("forced import error: %v", err)
	}

	var out bytes.Buffer
	if err := c.runExport(ctx, s, "coach", &out, exportOpts{}); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	elements, err := seatio.Decode(out.Bytes())
	if err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}
	if len(elements) != 4 || !elements[2].Disabled || elements[3].Size != (layout.Size{RowSpan: 1, ColSpan: 2}) {
		t.Errorf("exported %+v", elements)
	}
}

func TestImportRejects(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()

	tests := []struct {
		name   string
		data   string
		id     string
		strict bool
		code   errors.Code
	}{
		{"bad id", `[]`, "../etc", false, errors.ErrCodeInvalidInput},
		{"not an array", `{"id":"a"}`, "x", false, errors.ErrCodeInvalidLayout},
		{"strict missing position", `[{"id":"a","type":"seat"}]`, "x", true, errors.ErrCodeInvalidLayout},
		{"strict overlap", `[{"id":"a","type":"seat","position":{"row":1,"col":1}},{"id":"b","type":"wc","position":{"row":1,"col":1}}]`, "x", true, errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runImport(ctx, s, []byte(tt.data), tt.id, importOpts{strict: tt.strict})
			if !errors.Is(err, tt.code) {
				t.Errorf("runImport() error = %v, want %s", err, tt.code)
			}
		})
	}

	if ids, _ := s.List(ctx); len(ids) != 0 {
		t.Errorf("rejected imports stored %v", ids)
	}
}

func TestImportRepairsLenientInput(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()

	if err := c.runImport(ctx, s, []byte(`[{"id":"a","type":"bogus"}]`), "x", importOpts{}); err != nil {
		t.Fatalf("runImport() error: %v", err)
	}
	rec, err := s.Get(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":"a","type":"seat","position":{"row":1,"col":1}}]`
	if string(rec.Layout) != want {
		t.Errorf("stored %s, want %s", rec.Layout, want)
	}
}

func TestExportSVG(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()
	if err := s.Set(ctx, "coach", []byte(coachJSON)); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "coach.svg")
	if err := c.runExport(ctx, s, "coach", io.Discard, exportOpts{output: path}); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte(`id="el-s1"`)) {
		t.Errorf("unexpected SVG: %.80s", data)
	}
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()

	if err := c.runExport(ctx, s, "coach", io.Discard, exportOpts{format: "png"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("png to stdout error = %v, want INVALID_INPUT", err)
	}
	if err := c.runExport(ctx, s, "missing", io.Discard, exportOpts{}); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("missing layout error = %v, want LAYOUT_NOT_FOUND", err)
	}

	if err := s.Set(ctx, "coach", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := c.runExport(ctx, s, "coach", io.Discard, exportOpts{format: "gif"}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("gif error = %v, want UNSUPPORTED", err)
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		flag, output, want string
	}{
		{"", "", formatJSON},
		{"", "coach.svg", formatSVG},
		{"", "coach.PNG", formatPNG},
		{"PDF", "coach.svg", formatPDF},
		{"svg", "", formatSVG},
	}
	for _, tt := range tests {
		if got := exportFormat(tt.flag, tt.output); got != tt.want {
			t.Errorf("exportFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
		}
	}
}

func TestRunAvailabilityJSON(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()
	if err := s.Set(ctx, "coach", []byte(coachJSON)); err != nil {
		t.Fatal(err)
	}

	bookings := []availability.Booking{{ID: "b1", Seats: []any{"s1"}, Paid: true}}
	var out bytes.Buffer
	err := c.runAvailability(ctx, s, "coach", bookings, &out, availabilityOpts{selected: []string{"s2"}, jsonOut: true})
	if err != nil {
		t.Fatalf("runAvailability() error: %v", err)
	}

	var got struct {
		Seats  map[string]availability.Status `json:"seats"`
		Counts map[availability.Status]int    `json:"counts"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	want := map[string]availability.Status{"s1": availability.StatusBooked, "s2": availability.StatusSelected}
	if len(got.Seats) != len(want) {
		t.Fatalf("seats = %v, want %v", got.Seats, want)
	}
	for id, status := range want {
		if got.Seats[id] != status {
			t.Errorf("seat %s = %s, want %s", id, got.Seats[id], status)
		}
	}
}

func TestRunAvailabilityTable(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()
	if err := s.Set(ctx, "coach", []byte(coachJSON)); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := c.runAvailability(ctx, s, "coach", nil, &out, availabilityOpts{}); err != nil {
		t.Fatalf("runAvailability() error: %v", err)
	}
	if !strings.Contains(out.String(), "available") || strings.Contains(out.String(), "s3") {
		t.Errorf("table output:\n%s", out.String())
	}
}

func TestSeatNumberLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2", "10", true},
		{"10", "2", false},
		{"1A", "1B", true},
		{"1", "", true},
		{"", "1", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := seatNumberLess(tt.a, tt.b); got != tt.want {
			t.Errorf("seatNumberLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewLayoutDimensions(t *testing.T) {
	c := newTestCLI()

	dims, err := c.newLayoutDimensions(0, 0)
	if err != nil || dims != c.cfg.Editor.DefaultDimensions() {
		t.Errorf("defaults = %+v, %v", dims, err)
	}
	dims, err = c.newLayoutDimensions(10, 5)
	if err != nil || dims != (layout.Dimensions{Rows: 10, Cols: 5}) {
		t.Errorf("overrides = %+v, %v", dims, err)
	}
	if _, err := c.newLayoutDimensions(100, 5); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("oversized grid error = %v, want INVALID_DIMENSIONS", err)
	}
}

func TestSessionSavesAfterTouch(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI()
	s := records.NewMemoryStore()
	if err := s.Set(ctx, "coach", []byte(coachJSON)); err != nil {
		t.Fatal(err)
	}

	value, err := loadValue(ctx, s, "coach")
	if err != nil {
		t.Fatal(err)
	}
	logger := newLogger(io.Discard, log.InfoLevel)
	sess := c.newSession(ctx, s, "coach", layout.Dimensions{Rows: 4, Cols: 4}, logger, true)
	defer sess.close()
	sess.load(value)

	if sess.editor.CanUndo() {
		t.Error("the import is undoable")
	}
	if got := sess.doc.State().Dimensions; got != layout.MinImportDimensions {
		t.Errorf("Dimensions = %+v, want %+v", got, layout.MinImportDimensions)
	}

	sess.editor.ClickCell(2, 2, 0)

	rec, err := s.Get(ctx, "coach")
	if err != nil {
		t.Fatal(err)
	}
	elements, err := seatio.Decode(rec.Layout)
	if err != nil {
		t.Fatal(err)
	}
	if len(elements) != 5 || elements[4].SeatNumber != "4" {
		t.Errorf("stored %+v, want a new seat 4", elements)
	}
}

func TestLoadValueMissing(t *testing.T) {
	value, err := loadValue(context.Background(), records.NewMemoryStore(), "nope")
	if err != nil || value != nil {
		t.Errorf("loadValue() = %q, %v; want nil, nil", value, err)
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)

	observability.Editor().OnCommit("addElement", 3)
	observability.Records().OnGet(context.Background(), "memory", "coach", true, 0, nil)

	out := buf.String()
	if !strings.Contains(out, "addElement") || !strings.Contains(out, "record get") {
		t.Errorf("hook output:\n%s", out)
	}
}

func TestCommandLineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[store]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "layouts"))+"\"\n")
	src := filepath.Join(dir, "coach.json")
	if err := os.WriteFile(src, []byte(coachJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := newTestCLI().RootCommand()
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"--config", cfg}, args...))
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("import", "--strict", src, "coach")
	exported := run("export", "coach")

	elements, err := seatio.Decode([]byte(exported))
	if err != nil || len(elements) != 4 {
		t.Errorf("export = %q, %v", exported, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "layouts", "coach.json")); err != nil {
		t.Errorf("layout file not written: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	cfg := writeConfig(t, "[export]\ncache_dir = \""+filepath.ToSlash(dir)+"\"\n")

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfg, "cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestConverterCacheDir(t *testing.T) {
	c := newTestCLI()
	dir := filepath.Join(t.TempDir(), "artifacts")
	c.cfg.Export.CacheDir = dir

	c.converter(true)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("--no-cache still created the cache dir")
	}

	c.cfg.Export.Cache = false
	c.converter(false)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("disabled cache still created the cache dir")
	}

	c.cfg.Export.Cache = true
	c.converter(false)
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}
