package app

import "go.phenora.dev/phenoql/internal/core/ports"

// Components contains the initialized application components. It provides
// controlled access to what the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}
