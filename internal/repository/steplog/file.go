package steplog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Repository defines persistence operations for the bootstrap step log.
type Repository interface {
	Load(ctx context.Context) (*Log, error)
	Save(ctx context.Context, log *Log) error
	Clear(ctx context.Context) error
}

// FileRepository persists the step log to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON step log.
	path string
	// mu protects concurrent access to the log file.
	mu sync.Mutex
}

// ErrNotFound is returned when the step log does not exist yet.
var ErrNotFound = errors.New("step log not found")

// filePermissions for the persisted log.
const filePermissions = 0o644

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the step log from disk.
func (r *FileRepository) Load(_ context.Context) (*Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read step log: %w", err)
	}

	var log Log
	if err = json.Unmarshal(contents, &log); err != nil {
		return nil, fmt.Errorf("decode step log: %w", err)
	}

	return &log, nil
}

// Save writes the step log to disk.
func (r *FileRepository) Save(_ context.Context, log *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode step log: %w", err)
	}

	if err = os.WriteFile(r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write step log: %w", err)
	}

	return nil
}

// Clear removes the persisted log; a missing file is not an error.
func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove step log: %w", err)
	}

	return nil
}
