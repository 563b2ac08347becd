// Package sink writes membership records to a JSON-lines file.
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileSink implements ports.ResultSink by appending one JSON object per
// line. The file is opened lazily on first publish.
type FileSink struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) open() error {
	if s.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Join(domain.ErrSinkWriteFailed, err)
	}
	//nolint:gosec // path comes from the workspace configuration
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Join(
			domain.ErrSinkWriteFailed,
			zerr.With(err, "path", s.path),
		)
	}
	s.file = f
	return nil
}

// Publish appends one membership record.
func (s *FileSink) Publish(ctx context.Context, m domain.Membership) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return errors.Join(domain.ErrSinkWriteFailed, err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return errors.Join(domain.ErrSinkWriteFailed, err)
	}
	return nil
}

// Close closes the underlying file, if one was opened.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
