package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// FileStore keeps records in a single JSON document keyed by ID
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing <dataDir>/<table>.json
func NewFileStore(dataDir, table string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "~/.local/share/compcal"
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileStore{
		path: filepath.Join(dataDir, table+".json"),
	}, nil
}

// load reads the document, returning an empty one if the file does not exist
func (s *FileStore) load() (map[string]competition.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]competition.Record), nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}

	records := make(map[string]competition.Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing store: %w", err)
	}
	return records, nil
}

// save replaces the document via a temp file and rename
func (s *FileStore) save(records map[string]competition.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

// Put upserts rec.
func (s *FileStore) Put(ctx context.Context, rec competition.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records[rec.ID] = rec
	return s.save(records)
}

// List returns all records ordered by ID.
func (s *FileStore) List(ctx context.Context) ([]competition.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedRecords(records), nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Close() error { return nil }
