// Package records stores persisted layouts by id.
//
// A record is the host side of the editor's field contract: the JSON
// layout array plus the time it was last written. The CLI and the HTTP
// server read a record to seed an editing session and write it back from
// the sync sink.
//
// Backends:
//   - file: one JSON file per layout, for CLI use
//   - memory: process-local map, for tests and ephemeral servers
//   - redis: one key per layout under a prefix
//   - mongo: one document per layout
//
// All backends validate ids with [errors.ValidateLayoutID] and report a
// missing record as [errors.ErrCodeLayoutNotFound].
//
// # Usage
//
//	store, err := records.Open(ctx, records.Config{Backend: "file"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec, err := store.Get(ctx, "coach-49")
//	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
//	    // start an empty layout
//	}
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/seatmap/pkg/errors"
	seatio "github.com/matzehuels/seatmap/pkg/io"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// Record is one stored layout.
type Record struct {
	ID        string          `json:"id"`
	Layout    json.RawMessage `json:"layout"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the interface for layout record backends. Implementations are
// safe for concurrent use.
type Store interface {
	// Get returns the record for id, or an error with code
	// LAYOUT_NOT_FOUND if there is none.
	Get(ctx context.Context, id string) (*Record, error)

	// Set creates or replaces the record for id.
	Set(ctx context.Context, id string, layout []byte) error

	// Delete removes the record for id. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, id string) error

	// List returns all record ids in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the file backend directory. Empty means
	// ~/.config/seatmap/layouts.
	Dir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the configured backend and wraps it with the registered
// record hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case BackendMongo:
		s, err = DialMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Observe(s, backendName(cfg.Backend)), nil
}

func backendName(b string) string {
	if b == "" {
		return BackendFile
	}
	return b
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
}

func storageErr(cause error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeStorage, cause, format, args...)
}

// normalizeValue maps empty host values to JSON null.
func normalizeValue(layout []byte) []byte {
	if seatio.IsEmpty(layout) {
		return []byte("null")
	}
	return layout
}

// =============================================================================
// Instrumentation
// =============================================================================

type observed struct {
	Store
	backend string
}

// Observe reports Get and Set calls on s to the registered record hooks.
func Observe(s Store, backend string) Store {
	if _, ok := s.(*observed); ok {
		return s
	}
	return &observed{Store: s, backend: backend}
}

func (o *observed) Get(ctx context.Context, id string) (*Record, error) {
	start := time.Now()
	rec, err := o.Store.Get(ctx, id)
	hookErr := err
	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
		hookErr = nil
	}
	observability.Records().OnGet(ctx, o.backend, id, err == nil, time.Since(start), hookErr)
	return rec, err
}

func (o *observed) Set(ctx context.Context, id string, layout []byte) error {
	start := time.Now()
	err := o.Store.Set(ctx, id, layout)
	observability.Records().OnSet(ctx, o.backend, id, len(layout), time.Since(start), err)
	return err
}

func (o *observed) String() string { return fmt.Sprintf("records.%s", o.backend) }
