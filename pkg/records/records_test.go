package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "coach"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Fatalf("Get(missing) error = %v, want LAYOUT_NOT_FOUND", err)
	}

	value := []byte(`[{"id":"a","type":"seat","position":{"row":1,"col":1}}]`)
	if err := s.Set(ctx, "coach", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	rec, err := s.Get(ctx, "coach")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.ID != "coach" || string(rec.Layout) != string(value) {
		t.Errorf("Get = %s %s", rec.ID, rec.Layout)
	}
	if rec.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}

	if err := s.Set(ctx, "coach", []byte(`[]`)); err != nil {
		t.Fatalf("Set(replace): %v", err)
	}
	if rec, _ := s.Get(ctx, "coach"); string(rec.Layout) != "[]" {
		t.Errorf("replaced layout = %s", rec.Layout)
	}

	if err := s.Set(ctx, "minibus", nil); err != nil {
		t.Fatalf("Set(nil): %v", err)
	}
	if rec, _ := s.Get(ctx, "minibus"); string(rec.Layout) != "null" {
		t.Errorf("empty layout stored as %s, want null", rec.Layout)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "coach" || ids[1] != "minibus" {
		t.Errorf("List = %v, want [coach minibus]", ids)
	}

	if err := s.Delete(ctx, "coach"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "coach"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
	if _, err := s.Get(ctx, "coach"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}

	for _, bad := range []string{"", "../etc/passwd", "a/b", ".hidden"} {
		if err := s.Set(ctx, bad, value); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Set(%q) error = %v, want INVALID_INPUT", bad, err)
		}
		if _, err := s.Get(ctx, bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte(`[]`)
	s.Set(ctx, "x", value)
	value[0] = '{'

	rec, _ := s.Get(ctx, "x")
	rec.Layout[0] = '!'
	again, _ := s.Get(ctx, "x")
	if string(again.Layout) != "[]" {
		t.Errorf("stored value was aliased: %s", again.Layout)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Set(ctx, "coach", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "coach.json"))
	if err != nil {
		t.Fatalf("layout file missing: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("file content = %s", data)
	}

	// Stray files are not records.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0700)
	ids, _ := s.List(ctx)
	if len(ids) != 1 || ids[0] != "coach" {
		t.Errorf("List = %v, want [coach]", ids)
	}
	if s.Path() != dir {
		t.Errorf("Path = %s", s.Path())
	}
}

type recordHookRecorder struct {
	observability.NoopRecordHooks
	gets []bool
	sets []int
}

func (r *recordHookRecorder) OnGet(_ context.Context, backend, id string, found bool, _ time.Duration, err error) {
	r.gets = append(r.gets, found)
}

func (r *recordHookRecorder) OnSet(_ context.Context, backend, id string, size int, _ time.Duration, err error) {
	r.sets = append(r.sets, size)
}

func TestObserve(t *testing.T) {
	rec := &recordHookRecorder{}
	observability.SetRecordHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := Observe(NewMemoryStore(), BackendMemory)
	if Observe(s, BackendMemory) != s {
		t.Error("Observe wrapped twice")
	}

	s.Get(ctx, "x")
	s.Set(ctx, "x", []byte(`[]`))
	s.Get(ctx, "x")

	if len(rec.gets) != 2 || rec.gets[0] || !rec.gets[1] {
		t.Errorf("get hooks = %v, want [false true]", rec.gets)
	}
	if len(rec.sets) != 1 || rec.sets[0] != 2 {
		t.Errorf("set hooks = %v, want [2]", rec.sets)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	s.Close()

	s, err = Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	s.Close()

	if _, err := Open(ctx, Config{Backend: "etcd"}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open(etcd) error = %v, want UNSUPPORTED", err)
	}
}
