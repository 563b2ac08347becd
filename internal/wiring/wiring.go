// Package wiring registers all graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.phenora.dev/phenoql/internal/adapters/cache"
	_ "go.phenora.dev/phenoql/internal/adapters/cohortfile"
	_ "go.phenora.dev/phenoql/internal/adapters/config"
	_ "go.phenora.dev/phenoql/internal/adapters/docstore"
	_ "go.phenora.dev/phenoql/internal/adapters/fingerprint"
	_ "go.phenora.dev/phenoql/internal/adapters/logger"
	_ "go.phenora.dev/phenoql/internal/adapters/script"
	_ "go.phenora.dev/phenoql/internal/adapters/sink"
	_ "go.phenora.dev/phenoql/internal/adapters/tasks"
	_ "go.phenora.dev/phenoql/internal/adapters/workspace"
	// Register app nodes, including the engine scheduler.
	_ "go.phenora.dev/phenoql/internal/app"
)
