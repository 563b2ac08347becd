package ports

import "go.phenora.dev/phenoql/internal/core/domain"

// LibraryLoader turns a script file into a validated library and its
// dependency graph. All static-analysis failures (syntax, reference, cycle,
// type, unknown task) surface here, before any task dispatch.
//
//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type LibraryLoader interface {
	Load(path string) (*domain.Library, *domain.Graph, error)
}

// ConfigLoader loads the workspace configuration for a run.
type ConfigLoader interface {
	// Load reads phenoql.yaml from the working directory, applying defaults
	// for anything unset. A missing file yields the default workspace.
	Load(cwd string) (*domain.Workspace, error)
}
