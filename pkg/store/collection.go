package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// DirName is the folder inside the data directory that holds the collections.
const DirName = "TopRoad"

// Dir returns the collection folder for dataDir.
func Dir(dataDir string) string {
	return filepath.Join(dataDir, DirName)
}

// Collection persists a slice of records as a JSON array in a single file.
// It assumes one process writing the file at a time.
type Collection[T any] struct {
	path string
}

// NewCollection returns a collection backed by the file at path.
func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Path returns the backing file path
func (c *Collection[T]) Path() string {
	return c.path
}

// Load reads the backing file. A missing file or one that does not decode
// as a JSON array of T yields an empty slice.
func (c *Collection[T]) Load() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Collection file unreadable, starting empty", "path", c.path, "error", err)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("Collection file corrupt, starting empty", "path", c.path, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	slog.Debug("Loaded collection", "path", c.path, "count", len(items))
	return items
}

// Save replaces the backing file with items. The write goes to a temporary
// file that is renamed over the target, so readers see either the old or
// the new content.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("collection.Save %s: encode: %w", c.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		slog.Error("Failed to create collection directory", "path", c.path, "error", err)
		return fmt.Errorf("collection.Save %s: mkdir: %w", c.path, err)
	}

	if err := renameio.WriteFile(c.path, data, 0644); err != nil {
		slog.Error("Failed to write collection", "path", c.path, "error", err)
		return fmt.Errorf("collection.Save %s: %w", c.path, err)
	}

	slog.Debug("Saved collection", "path", c.path, "count", len(items))
	return nil
}

// Remove deletes the backing file. A missing file is not an error.
func (c *Collection[T]) Remove() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to remove collection", "path", c.path, "error", err)
		return fmt.Errorf("collection.Remove %s: %w", c.path, err)
	}
	return nil
}
