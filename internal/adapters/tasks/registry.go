// Package tasks hosts the builtin extraction task runners and the registry
// the binder validates invocations against.
package tasks

import (
	"sort"

	"go.phenora.dev/phenoql/internal/core/ports"
)

// Registry implements ports.TaskRegistry. It is populated at construction
// and read-only afterwards.
type Registry struct {
	runners map[string]ports.TaskRunner
}

// NewRegistry creates a registry with the builtin runners, all reading from
// the given document store.
func NewRegistry(docs ports.DocumentStore) *Registry {
	return &Registry{
		runners: map[string]ports.TaskRunner{
			"TermFinder":        &TermFinder{docs: docs},
			"ProviderAssertion": &ProviderAssertion{docs: docs},
			"ValueExtraction":   &ValueExtraction{docs: docs},
		},
	}
}

// Lookup returns the runner registered under the given name.
func (r *Registry) Lookup(name string) (ports.TaskRunner, bool) {
	runner, ok := r.runners[name]
	return runner, ok
}

// Names returns every registered task name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
