package records

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/seatmap/pkg/errors"
)

// FileStore keeps each layout as <id>.json in a directory. The file holds
// the persisted array exactly, so it can be edited or exported by hand.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based record store.
// If baseDir is empty, defaults to ~/.config/seatmap/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, storageErr(err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "seatmap", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, storageErr(err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.recordPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, storageErr(err, "read layout %s", id)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, storageErr(err, "stat layout %s", id)
	}
	return &Record{ID: id, Layout: data, UpdatedAt: info.ModTime().UTC()}, nil
}

// Set writes the layout to a temporary file and renames it into place, so
// readers never see a partial file.
func (s *FileStore) Set(ctx context.Context, id string, layout []byte) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+id+".*.tmp")
	if err != nil {
		return storageErr(err, "write layout %s", id)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(normalizeValue(layout)); err != nil {
		tmp.Close()
		return storageErr(err, "write layout %s", id)
	}
	if err := tmp.Close(); err != nil {
		return storageErr(err, "write layout %s", id)
	}
	if err := os.Rename(tmp.Name(), s.recordPath(id)); err != nil {
		return storageErr(err, "write layout %s", id)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return storageErr(err, "remove layout %s", id)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageErr(err, "read layout dir")
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if errors.ValidateLayoutID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
