// Package cache implements the task result cache as one JSON file per
// fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ResultCache on the local filesystem. Each entry is
// written to a temp file first and renamed into place, so readers never
// observe a partial entry.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a cache rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Join(
			domain.ErrCacheWriteFailed,
			zerr.With(err, "dir", dir),
		)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".json")
}

// Get returns the cached rows for a fingerprint, or nil, nil on a miss.
func (s *Store) Get(ctx context.Context, fingerprint string) ([]domain.ExecutionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:gosec // fingerprint is a hex digest, dir is cleaned
	data, err := os.ReadFile(s.entryPath(fingerprint))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(
			domain.ErrCacheReadFailed,
			zerr.With(err, "fingerprint", fingerprint),
		)
	}

	rows := []domain.ExecutionRow{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Join(
			domain.ErrCacheReadFailed,
			zerr.With(err, "fingerprint", fingerprint),
		)
	}
	return rows, nil
}

// PutIfAbsent stores rows under a fingerprint unless an entry exists. Nil
// rows are stored as an empty set so a later Get reports a hit.
func (s *Store) PutIfAbsent(ctx context.Context, fingerprint string, rows []domain.ExecutionRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.entryPath(fingerprint)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if rows == nil {
		rows = []domain.ExecutionRow{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, err)
	}

	tmp, err := os.CreateTemp(s.dir, fingerprint+".tmp-*")
	if err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Join(domain.ErrCacheWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Join(domain.ErrCacheWriteFailed, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Join(
			domain.ErrCacheWriteFailed,
			zerr.With(err, "fingerprint", fingerprint),
		)
	}
	return nil
}
