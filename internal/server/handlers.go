package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seatmap/pkg/availability"
	"github.com/matzehuels/seatmap/pkg/buildinfo"
	"github.com/matzehuels/seatmap/pkg/errors"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/render"
)

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"layouts": ids})
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	rec, st, ok := s.load(w, r)
	if !ok {
		return
	}
	etag := `"` + st.Fingerprint() + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", rec.UpdatedAt.UTC().Format(http.TimeFormat))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := seatio.Encode(st.Elements)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type putResponse struct {
	ID       string `json:"id"`
	Elements int    `json:"elements"`
	ETag     string `json:"etag"`
}

func (s *Server) putLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	elements, err := seatio.DecodeStrict(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := seatio.Encode(elements)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	if err := s.store.Set(r.Context(), id, data); err != nil {
		s.writeError(w, r, err)
		return
	}

	st := stateOf(elements)
	s.logger.Info("layout saved", "id", id, "elements", len(elements))
	writeJSON(w, http.StatusOK, putResponse{ID: id, Elements: len(elements), ETag: st.Fingerprint()})
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) layoutSVG(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.load(w, r)
	if !ok {
		return
	}
	var opts []render.SVGOption
	if v := r.URL.Query().Get("cell"); v != "" {
		px, err := strconv.ParseFloat(v, 64)
		if err != nil || px <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "cell must be a positive number"))
			return
		}
		opts = append(opts, render.WithCellSize(px))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(render.RenderSVG(st, opts...))
}

type availabilityRequest struct {
	Bookings      []availability.Booking `json:"bookings"`
	CurrentTicket string                 `json:"currentTicket"`
	Selected      []string               `json:"selected"`
	Now           *time.Time             `json:"now,omitempty"`
}

type availabilityResponse struct {
	Seats  map[string]availability.Status `json:"seats"`
	Counts map[availability.Status]int    `json:"counts"`
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.load(w, r)
	if !ok {
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req availabilityRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed availability request"))
			return
		}
	}

	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}
	seats := availability.Compute(st.Elements, req.Bookings, availability.Options{
		Now:           now,
		CurrentTicket: req.CurrentTicket,
		Selected:      req.Selected,
	})
	writeJSON(w, http.StatusOK, availabilityResponse{Seats: seats, Counts: availability.Count(seats)})
}

// =============================================================================
// Helpers
// =============================================================================

// load fetches and decodes the record named in the URL. On failure it has
// already written the response.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*records.Record, layout.State, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, layout.State{}, false
	}
	elements, err := seatio.Decode(rec.Layout)
	if err != nil {
		s.logger.Warn("stored layout is malformed", "id", id, "err", err)
	}
	return rec, stateOf(elements), true
}

func stateOf(elements []layout.Element) layout.State {
	return layout.State{
		Dimensions: layout.Extent(elements, layout.MinImportDimensions),
		Elements:   elements,
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	if status >= 500 && code == errors.ErrCodeInternal {
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, body)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidDimensions, errors.ErrCodeInvalidSize:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
