// Package fingerprint derives cache keys for task requests.
package fingerprint

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.phenora.dev/phenoql/internal/core/domain"
)

// XXHasher implements ports.Fingerprinter with a 64-bit xxHash over a
// canonical rendering of the request. The define name is excluded so that
// identical invocations under different names share one fingerprint.
type XXHasher struct{}

// New creates a fingerprinter.
func New() *XXHasher { return &XXHasher{} }

// Fingerprint returns a stable hex key for the request.
func (XXHasher) Fingerprint(req domain.TaskRequest) string {
	h := xxhash.New()

	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.WriteString("\x1f")
		}
	}

	write("task", req.Task, "context", req.Context.String())

	names := make([]string, 0, len(req.Params))
	for name := range req.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		write("param", name, req.Params[name].Canonical())
	}

	for _, ts := range req.TermSets {
		terms := append([]string(nil), ts.Terms...)
		sort.Strings(terms)
		write("termset", ts.Name, strings.Join(terms, "\x1e"))
	}

	for _, d := range req.Documents {
		write("doc", d.ID)
	}
	for _, s := range req.Subjects {
		write("subject", string(s))
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
