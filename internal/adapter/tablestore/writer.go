package tablestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// FileWriter writes the season table as indented JSON.
type FileWriter struct {
	path   string
	merge  bool
	logger *slog.Logger
}

// NewFileWriter returns a writer for path. With merge set, regions already in
// the file are kept unless the new table replaces them.
func NewFileWriter(path string, merge bool, logger *slog.Logger) *FileWriter {
	return &FileWriter{path: path, merge: merge, logger: logger}
}

// Name identifies the loader in logs and metrics.
func (w *FileWriter) Name() string { return "file" }

// LoadTable writes table to the file, replacing it atomically.
func (w *FileWriter) LoadTable(_ context.Context, table domain.SeasonTable) error {
	if w.merge {
		existing, err := w.readExisting()
		if err != nil {
			return err
		}
		if existing != nil {
			w.logger.Info("merging into existing table", "path", w.path, "existing_regions", existing.Regions())
			table = existing.Merge(table)
		}
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal season table: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".produce-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("write season table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close season table: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // public artifact
		return fmt.Errorf("chmod season table: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace season table: %w", err)
	}

	w.logger.Info("season table written", "path", w.path, "regions", table.Regions(), "bytes", len(data))
	return nil
}

func (w *FileWriter) readExisting() (domain.SeasonTable, error) {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read existing table: %w", err)
	}
	table, err := domain.DecodeSeasonTable(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode existing table %s: %w", w.path, err)
	}
	return table, nil
}
