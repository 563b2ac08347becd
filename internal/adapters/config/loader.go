// Package config provides the workspace configuration loader.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the workspace file looked up in the working directory.
const DefaultFilename = "phenoql.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a loader for the default workspace filename.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename, logger: logger}
}

// workspaceFile is the on-disk shape of phenoql.yaml.
type workspaceFile struct {
	Corpus      string `yaml:"corpus"`
	Cohorts     string `yaml:"cohorts"`
	CacheDir    string `yaml:"cache_dir"`
	Results     string `yaml:"results"`
	Parallelism int    `yaml:"parallelism"`
}

// Load reads the workspace file from the given working directory. A missing
// file is not an error; every unset field falls back to its default.
func (l *FileConfigLoader) Load(cwd string) (*domain.Workspace, error) {
	ws := defaultWorkspace(cwd)

	path := filepath.Join(cwd, l.Filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("no workspace file, using defaults")
			return ws, nil
		}
		return nil, errors.Join(
			domain.ErrConfigReadFailed,
			zerr.With(err, "path", path),
		)
	}

	var file workspaceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(
			domain.ErrConfigParseFailed,
			zerr.With(err, "path", path),
		)
	}

	if file.Corpus != "" {
		ws.CorpusPath = resolve(cwd, file.Corpus)
	}
	if file.Cohorts != "" {
		ws.CohortPath = resolve(cwd, file.Cohorts)
	}
	if file.CacheDir != "" {
		ws.CacheDir = resolve(cwd, file.CacheDir)
	}
	if file.Results != "" {
		ws.ResultPath = resolve(cwd, file.Results)
	}
	if file.Parallelism > 0 {
		ws.Parallelism = file.Parallelism
	}
	return ws, nil
}

func defaultWorkspace(cwd string) *domain.Workspace {
	return &domain.Workspace{
		CorpusPath:  filepath.Join(cwd, "corpus.yaml"),
		CohortPath:  filepath.Join(cwd, "cohorts.yaml"),
		CacheDir:    filepath.Join(cwd, ".phenoql", "cache"),
		ResultPath:  filepath.Join(cwd, ".phenoql", "results.jsonl"),
		Parallelism: runtime.NumCPU(),
	}
}

func resolve(cwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
