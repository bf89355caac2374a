package sync

import (
	"errors"
	"testing"

	"github.com/matzehuels/seatmap/pkg/editor"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/store"
)

type recordingSink struct {
	values [][]byte
	err    error
}

func (r *recordingSink) write(v []byte) error {
	r.values = append(r.values, v)
	return r.err
}

func (r *recordingSink) last(t *testing.T) []layout.Element {
	t.Helper()
	if len(r.values) == 0 {
		t.Fatal("nothing exported")
	}
	elements, err := seatio.Decode(r.values[len(r.values)-1])
	if err != nil {
		t.Fatalf("exported value does not decode: %v", err)
	}
	return elements
}

func newAdapter(sink Sink) (*Adapter, *store.History) {
	h := store.NewHistory(store.New(layout.Dimensions{Rows: 2, Cols: 2}))
	return New(h, sink), h
}

func TestImportSingleSeat(t *testing.T) {
	a, h := newAdapter(nil)

	ok := a.Import([]byte(`[{"id":"s1","type":"seat","position":{"row":1,"col":1}}]`))
	if !ok {
		t.Fatal("Import() = false")
	}

	st := h.State()
	if st.Dimensions.Rows < 12 || st.Dimensions.Cols < 4 {
		t.Errorf("Dimensions = %+v, want at least 12x4", st.Dimensions)
	}
	if len(st.Elements) != 1 || st.Elements[0].ID != "s1" {
		t.Errorf("Elements = %+v, want [s1]", st.Elements)
	}
}

func TestImportGrowsPastFloor(t *testing.T) {
	a, h := newAdapter(nil)
	a.Import([]byte(`[{"id":"w","type":"wc","position":{"row":14,"col":5},"size":{"rowSpan":2,"colSpan":2}}]`))

	if got := h.State().Dimensions; got != (layout.Dimensions{Rows: 15, Cols: 6}) {
		t.Errorf("Dimensions = %+v, want 15x6", got)
	}
}

func TestImportMalformedFallsBack(t *testing.T) {
	for _, input := range []string{`{"not":"an array"}`, `[1,2,3]`, `garbage`} {
		t.Run(input, func(t *testing.T) {
			a, h := newAdapter(nil)
			h.AddElement(layout.Element{ID: "old", Type: layout.TypeSeat, Position: layout.Position{Row: 1, Col: 1}})

			if !a.Import([]byte(input)) {
				t.Fatal("Import() = false")
			}
			st := h.State()
			if len(st.Elements) != 0 {
				t.Errorf("Elements = %d, want empty", len(st.Elements))
			}
			if st.Dimensions != layout.MinImportDimensions {
				t.Errorf("Dimensions = %+v, want %+v", st.Dimensions, layout.MinImportDimensions)
			}
		})
	}
}

func TestImportOnce(t *testing.T) {
	a, h := newAdapter(nil)

	if a.Import(nil) || a.Import([]byte("null")) {
		t.Error("empty values should not import")
	}
	if a.Imported() {
		t.Error("empty values should not count as the first import")
	}

	a.Import([]byte(`[{"id":"a"}]`))
	if a.Import([]byte(`[{"id":"b"}]`)) {
		t.Error("second import accepted")
	}
	if _, ok := h.State().Find("a"); !ok {
		t.Error("first import was replaced")
	}
}

func TestImportSkipsEmptyArray(t *testing.T) {
	h := store.NewHistory(store.New(layout.Dimensions{Rows: 10, Cols: 5}))
	a := New(h, nil)

	if a.Import([]byte(" [] ")) {
		t.Error("Import([]) = true, want skipped")
	}
	if a.Imported() {
		t.Error("empty array counted as the first import")
	}
	if got := h.State().Dimensions; got != (layout.Dimensions{Rows: 10, Cols: 5}) {
		t.Errorf("Dimensions = %+v, want configured 10x5", got)
	}

	if !a.Import([]byte(`[{"id":"s1","type":"seat","position":{"row":1,"col":1}}]`)) {
		t.Fatal("non-empty import after [] was rejected")
	}
	if _, ok := h.State().Find("s1"); !ok {
		t.Error("non-empty value was not loaded")
	}
}

func TestImportFitsGridLimit(t *testing.T) {
	a, h := newAdapter(nil)
	a.Import([]byte(`[{"id":"w","type":"wc","position":{"row":2000000000,"col":1},"size":{"rowSpan":2,"colSpan":2000000000}}]`))

	if got := h.State().Dimensions; got != layout.MaxDimensions {
		t.Errorf("Dimensions = %+v, want %+v", got, layout.MaxDimensions)
	}
	if out := layout.OutOfBounds(h.State()); len(out) != 0 {
		t.Errorf("OutOfBounds() = %+v, want none", out)
	}
}

func TestNoImportAfterTouch(t *testing.T) {
	a, h := newAdapter(nil)
	a.Touch()
	if a.Import([]byte(`[{"id":"a"}]`)) {
		t.Error("import accepted after touch")
	}
	if len(h.State().Elements) != 0 {
		t.Error("store changed")
	}
}

func TestExportOnlyAfterTouch(t *testing.T) {
	sink := &recordingSink{}
	a, h := newAdapter(sink.write)

	a.Import([]byte(`[{"id":"a","type":"seat","position":{"row":1,"col":1}}]`))
	h.AddElement(layout.Element{ID: "b", Type: layout.TypeSeat, Position: layout.Position{Row: 1, Col: 2}})
	if len(sink.values) != 0 {
		t.Fatalf("exported %d values before touch", len(sink.values))
	}

	a.Touch()
	h.ToggleDisabled(layout.NewIDSet("a"))
	got := sink.last(t)
	if len(got) != 2 || !got[0].Disabled {
		t.Errorf("exported %+v", got)
	}

	h.Undo()
	if got := sink.last(t); got[0].Disabled {
		t.Error("undo was not exported")
	}
	if len(sink.values) != 2 {
		t.Errorf("exports = %d, want 2", len(sink.values))
	}
}

func TestExportStripsFalsyFields(t *testing.T) {
	sink := &recordingSink{}
	a, h := newAdapter(sink.write)
	a.Touch()
	h.AddElement(layout.Element{ID: "a", Type: layout.TypeSeat, Position: layout.Position{Row: 1, Col: 1}, Size: layout.Size{RowSpan: 1, ColSpan: 1}})

	want := `[{"id":"a","type":"seat","position":{"row":1,"col":1}}]`
	if got := string(sink.values[0]); got != want {
		t.Errorf("exported %s, want %s", got, want)
	}
}

type exportRecorder struct {
	observability.NoopSyncHooks
	errs []error
}

func (r *exportRecorder) OnExport(size int, err error) { r.errs = append(r.errs, err) }

func TestSinkErrorIsNotRetried(t *testing.T) {
	rec := &exportRecorder{}
	observability.SetSyncHooks(rec)
	t.Cleanup(observability.Reset)

	sink := &recordingSink{err: errors.New("disk full")}
	a, h := newAdapter(sink.write)
	a.Touch()
	h.AddElement(layout.Element{ID: "a", Type: layout.TypeSeat, Position: layout.Position{Row: 1, Col: 1}})

	if len(sink.values) != 1 {
		t.Errorf("sink called %d times, want 1", len(sink.values))
	}
	if len(rec.errs) != 1 || rec.errs[0] == nil {
		t.Errorf("export hook errors = %v", rec.errs)
	}
	if len(h.State().Elements) != 1 {
		t.Error("sink failure rolled back the store")
	}
}

func TestClose(t *testing.T) {
	sink := &recordingSink{}
	a, h := newAdapter(sink.write)
	a.Touch()
	a.Close()
	h.AddElement(layout.Element{ID: "a", Type: layout.TypeSeat, Position: layout.Position{Row: 1, Col: 1}})
	if len(sink.values) != 0 {
		t.Error("closed adapter exported")
	}
}

func TestEditorTouchDrivesExport(t *testing.T) {
	sink := &recordingSink{}
	h := store.NewHistory(store.New(layout.Dimensions{Rows: 2, Cols: 2}))
	a := New(h, sink.write)
	e := editor.New(h, editor.OnTouch(a.Touch))
	defer e.Close()

	a.Import([]byte(`[{"id":"s1","type":"seat","seatNumber":"3","position":{"row":1,"col":1}}]`))
	if len(sink.values) != 0 {
		t.Fatal("import was exported")
	}

	e.ClickCell(2, 1, 0)
	got := sink.last(t)
	if len(got) != 2 || got[1].SeatNumber != "4" {
		t.Errorf("exported %+v, want s1 plus seat 4", got)
	}

	if a.Import([]byte(`[]`)) {
		t.Error("re-import after interaction")
	}
}
