package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rai/userdirectory/modules/shared/types"
)

const usersKey = "users"

// JSONFileRepository keeps users in a db.json style file:
//
//	{"users": [{"id": 1, "name": "...", ...}]}
//
// The whole file is loaded at open and rewritten after every committed
// write transaction. Other top-level collections are preserved as-is.
type JSONFileRepository struct {
	*InMemoryRepository

	path   string
	logger *slog.Logger
	extra  map[string]json.RawMessage
}

// OpenJSONFile loads path, or starts empty when the file does not exist yet.
func OpenJSONFile(path string, logger *slog.Logger) (*JSONFileRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo := &JSONFileRepository{
		InMemoryRepository: NewInMemoryRepository(),
		path:               path,
		logger:             logger,
		extra:              map[string]json.RawMessage{},
	}
	repo.InMemoryRepository.commit = repo.flush

	if err := repo.read(); err != nil {
		return nil, err
	}
	logger.Info("loaded user store", slog.String("path", path), slog.Int("count", repo.Len()))
	return repo, nil
}

func (r *JSONFileRepository) read() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", r.path, err)
	}

	var records []types.UserRecord
	if raw, ok := doc[usersKey]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("decoding %s users: %w", r.path, err)
		}
		delete(doc, usersKey)
	}
	r.extra = doc

	loadedAt := time.Now().UTC()
	rows := make([]row, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if !rec.HasID() {
			return fmt.Errorf("%s: user at index %d has no id", r.path, i)
		}
		if seen[rec.ID.String()] {
			return fmt.Errorf("%s: duplicate user id %s", r.path, rec.ID)
		}
		seen[rec.ID.String()] = true
		rows = append(rows, row{record: rec, createdAt: loadedAt, updatedAt: loadedAt})
	}
	r.load(rows)
	return nil
}

// flush writes the file atomically through a temporary file in the same directory.
func (r *JSONFileRepository) flush(rows []row) error {
	records := make([]types.UserRecord, len(rows))
	for i, rw := range rows {
		records[i] = rw.record
	}

	doc := make(map[string]any, len(r.extra)+1)
	for k, v := range r.extra {
		doc[k] = v
	}
	doc[usersKey] = records

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}

	r.logger.Debug("flushed user store", slog.String("path", r.path), slog.Int("count", len(records)))
	return nil
}
