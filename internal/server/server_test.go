package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/seatmap/pkg/availability"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/records"
)

const coach = `[{"id":"d","type":"driver","position":{"row":1,"col":1}},{"id":"s1","type":"seat","seatNumber":"1","position":{"row":2,"col":1}},{"id":"s2","type":"seat","seatNumber":"2","position":{"row":2,"col":2},"disabled":true}]`

func newTestServer(t *testing.T) (*Server, *records.MemoryStore) {
	t.Helper()
	store := records.NewMemoryStore()
	if err := store.Set(context.Background(), "coach", []byte(coach)); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return New(store, WithClock(func() time.Time { return now })), store
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) errors.Code {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"version":"dev"`) {
		t.Errorf("GET /healthz is missing the build version: %s", rec.Body)
	}
}

func TestListLayouts(t *testing.T) {
	s, store := newTestServer(t)
	store.Set(context.Background(), "minibus", []byte(`[]`))

	rec := do(t, s, http.MethodGet, "/layouts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string][]string
	json.Unmarshal(rec.Body.Bytes(), &got)
	if strings.Join(got["layouts"], ",") != "coach,minibus" {
		t.Errorf("layouts = %v", got["layouts"])
	}
}

func TestListLayoutsEmpty(t *testing.T) {
	s := New(records.NewMemoryStore())
	rec := do(t, s, http.MethodGet, "/layouts", "")
	if strings.TrimSpace(rec.Body.String()) != `{"layouts":[]}` {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestGetLayout(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/layouts/coach", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	if rec.Body.String() != coach {
		t.Errorf("body = %s", rec.Body)
	}
	etag := rec.Header().Get("ETag")
	if len(etag) != 66 {
		t.Errorf("ETag = %q, want quoted sha256", etag)
	}
	if rec.Header().Get("Last-Modified") == "" {
		t.Error("Last-Modified missing")
	}

	rec = do(t, s, http.MethodGet, "/layouts/coach", "", "If-None-Match", etag)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional GET = %d, want 304", rec.Code)
	}
}

func TestGetLayoutErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/layouts/nope", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != errors.ErrCodeLayoutNotFound {
		t.Errorf("missing = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, s, http.MethodGet, "/layouts/..hidden", "")
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != errors.ErrCodeInvalidInput {
		t.Errorf("bad id = %d %s", rec.Code, rec.Body)
	}
}

func TestPutLayout(t *testing.T) {
	s, store := newTestServer(t)

	body := `[{"id":"a","type":"seat","position":{"row":1,"col":1},"size":{"rowSpan":1,"colSpan":1},"disabled":false}]`
	rec := do(t, s, http.MethodPut, "/layouts/minibus", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s", rec.Code, rec.Body)
	}
	var resp putResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != "minibus" || resp.Elements != 1 || resp.ETag == "" {
		t.Errorf("response = %+v", resp)
	}

	stored, err := store.Get(context.Background(), "minibus")
	if err != nil {
		t.Fatal(err)
	}
	if want := `[{"id":"a","type":"seat","position":{"row":1,"col":1}}]`; string(stored.Layout) != want {
		t.Errorf("stored %s, want normalized %s", stored.Layout, want)
	}

	get := do(t, s, http.MethodGet, "/layouts/minibus", "")
	if get.Header().Get("ETag") != `"`+resp.ETag+`"` {
		t.Errorf("GET ETag %s does not match PUT etag %s", get.Header().Get("ETag"), resp.ETag)
	}
}

func TestPutLayoutRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"NotArray", `{"id":"a"}`, errors.ErrCodeInvalidLayout},
		{"MissingPosition", `[{"id":"a","type":"seat"}]`, errors.ErrCodeInvalidLayout},
		{"Overlap", `[{"id":"a","type":"seat","position":{"row":1,"col":1}},{"id":"b","type":"wc","position":{"row":1,"col":1}}]`, errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			rec := do(t, s, http.MethodPut, "/layouts/coach", tt.body)
			if rec.Code != http.StatusBadRequest || errorCode(t, rec) != tt.code {
				t.Errorf("PUT = %d %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestPutLayoutBodyLimit(t *testing.T) {
	s := New(records.NewMemoryStore(), WithMaxBodyBytes(16))
	rec := do(t, s, http.MethodPut, "/layouts/coach", coach)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized PUT = %d", rec.Code)
	}
}

func TestDeleteLayout(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, http.MethodDelete, "/layouts/coach", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), "coach"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Error("record still present")
	}
	if rec := do(t, s, http.MethodDelete, "/layouts/coach", ""); rec.Code != http.StatusNoContent {
		t.Errorf("repeat DELETE = %d", rec.Code)
	}
}

func TestLayoutSVG(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/layouts/coach/svg?cell=20", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("GET svg = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), `viewBox="0 0 80.0 240.0"`) {
		t.Errorf("unexpected svg header: %.120s", rec.Body)
	}

	if rec := do(t, s, http.MethodGet, "/layouts/coach/svg?cell=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad cell = %d", rec.Code)
	}
}

func TestAvailability(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"bookings":[{"id":"b1","seats":[{"seat":{"_id":"s1"}}],"paymentDeadline":"2026-05-01T09:00:00Z"}]}`
	rec := do(t, s, http.MethodPost, "/layouts/coach/availability", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST = %d %s", rec.Code, rec.Body)
	}
	var resp availabilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Seats) != 1 || resp.Seats["s1"] != availability.StatusUnpaid {
		t.Errorf("seats = %v, want only s1 unpaid", resp.Seats)
	}
	if resp.Counts[availability.StatusUnpaid] != 1 {
		t.Errorf("counts = %v", resp.Counts)
	}

	// After the deadline the hold lapses.
	body = `{"now":"2026-05-01T10:00:00Z","bookings":[{"id":"b1","seats":["s1"],"paymentDeadline":"2026-05-01T09:00:00Z"}]}`
	rec = do(t, s, http.MethodPost, "/layouts/coach/availability", body)
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Seats["s1"] != availability.StatusAvailable {
		t.Errorf("expired hold = %s, want available", resp.Seats["s1"])
	}

	rec = do(t, s, http.MethodPost, "/layouts/coach/availability", `{"bookings":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, 400},
		{errors.ErrCodeInvalidLayout, 400},
		{errors.ErrCodeInvalidDimensions, 400},
		{errors.ErrCodeInvalidSize, 400},
		{errors.ErrCodeLayoutNotFound, 404},
		{errors.ErrCodeNotFound, 404},
		{errors.ErrCodeUnsupported, 501},
		{errors.ErrCodeStorage, 503},
		{errors.ErrCodeInternal, 500},
		{"", 500},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

type failingStore struct{ records.Store }

func (failingStore) List(context.Context) ([]string, error) {
	return nil, errors.New(errors.ErrCodeStorage, "redis down")
}

func TestStorageFailure(t *testing.T) {
	s := New(failingStore{records.NewMemoryStore()})
	rec := do(t, s, http.MethodGet, "/layouts", "")
	if rec.Code != http.StatusServiceUnavailable || errorCode(t, rec) != errors.ErrCodeStorage {
		t.Errorf("GET /layouts = %d %s", rec.Code, rec.Body)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(records.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
