// Package script loads phenotype scripts from disk and runs them through
// the parser and binder.
package script

import (
	"errors"
	"os"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/binder"
	"go.phenora.dev/phenoql/internal/engine/parser"
	"go.trai.ch/zerr"
)

// FileLibraryLoader implements ports.LibraryLoader for script files on the
// local filesystem.
type FileLibraryLoader struct {
	catalog ports.TaskRegistry
	logger  ports.Logger
}

// NewLoader creates a loader binding against the given task catalog.
func NewLoader(catalog ports.TaskRegistry, logger ports.Logger) *FileLibraryLoader {
	return &FileLibraryLoader{catalog: catalog, logger: logger}
}

// Load reads, parses and validates a script. The returned graph is already
// validated.
func (l *FileLibraryLoader) Load(path string) (*domain.Library, *domain.Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, nil, errors.Join(
			domain.ErrScriptReadFailed,
			zerr.With(err, "path", path),
		)
	}

	prog, err := parser.Parse(string(data))
	if err != nil {
		return nil, nil, zerr.With(err, "path", path)
	}
	l.logger.Debug("parsed " + path)

	lib, graph, err := binder.Bind(prog, l.catalog)
	if err != nil {
		return nil, nil, zerr.With(err, "path", path)
	}
	l.logger.Debug("validated " + lib.Name)
	return lib, graph, nil
}
