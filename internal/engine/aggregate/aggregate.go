// Package aggregate turns the result sets of final defines into membership
// records.
package aggregate

import (
	"context"
	"errors"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/eval"
	"go.trai.ch/zerr"
)

// Collect builds one membership per (final define, subject) pair, for every
// subject in the run universe. Each final is reported independently; the
// supporting map carries the subject's value for each entity the final
// directly depends on. Subjects absent from a final's result set do not
// qualify.
func Collect(
	lib *domain.Library,
	env *eval.Environment,
	subjects []domain.SubjectID,
) []domain.Membership {
	var memberships []domain.Membership
	for _, final := range lib.FinalDefines() {
		for _, subject := range subjects {
			v := env.ValueFor(final.Name, "", subject)

			supporting := make(map[string]domain.Value)
			for _, dep := range final.DependsOn {
				if _, ok := lib.Define(dep); !ok {
					continue
				}
				dv := env.ValueFor(dep, "", subject)
				if !dv.IsAbsent() {
					supporting[dep] = dv
				}
			}
			if len(supporting) == 0 {
				supporting = nil
			}

			memberships = append(memberships, domain.Membership{
				Phenotype:   lib.Name,
				FinalDefine: final.Name,
				Subject:     subject,
				Qualifies:   v.Truthy(),
				Supporting:  supporting,
			})
		}
	}
	return memberships
}

// Publish writes the memberships to the sink, one record at a time.
func Publish(ctx context.Context, sink ports.ResultSink, memberships []domain.Membership) error {
	for _, m := range memberships {
		if err := sink.Publish(ctx, m); err != nil {
			return errors.Join(
				domain.ErrSinkWriteFailed,
				zerr.With(
					zerr.With(err, "final", m.FinalDefine),
					"subject", string(m.Subject),
				),
			)
		}
	}
	return nil
}
