package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store loads and saves the whole collection. Save followed by Load on the
// same location yields the same books, in the same order.
type Store interface {
	// Load returns an empty slice when the location does not exist yet.
	Load() ([]Book, error)
	Save(books []Book) error
	Path() string
	Close() error
}

// OpenStore picks the backend from the file extension: SQLite for .db,
// .sqlite and .sqlite3, JSON otherwise.
func OpenStore(path string) Store {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}

// writeFileAtomic writes through a temp file in the destination directory
// and renames it into place, so a failed write never leaves a partial file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// checkLoaded enforces the collection invariants on data read from a store.
func checkLoaded(books []Book) error {
	seen := make(map[int64]bool, len(books))
	for i := range books {
		b := &books[i]
		if b.ID <= 0 {
			return fmt.Errorf("record %d has invalid id %d: %w", i, b.ID, ErrCorruptData)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate id %d: %w", b.ID, ErrCorruptData)
		}
		seen[b.ID] = true
		if b.History == nil {
			b.History = []HistoryEntry{}
		}
	}
	return nil
}
