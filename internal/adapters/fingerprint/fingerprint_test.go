package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/adapters/fingerprint"
	"go.phenora.dev/phenoql/internal/core/domain"
)

func baseRequest() domain.TaskRequest {
	return domain.TaskRequest{
		Task:   "TermFinder",
		Define: "hasSepsis",
		Params: map[string]domain.Value{
			"minimum_value": domain.NumberValue(2),
			"case":          domain.BoolValue(false),
		},
		TermSets: []domain.TermSet{
			{Name: "SepsisTerms", Terms: []string{"sepsis", "septic shock"}},
		},
		Documents: []domain.DocumentHandle{{ID: "d1"}, {ID: "d2"}},
		Subjects:  []domain.SubjectID{"p1", "p2"},
		Context:   domain.ContextPatient,
	}
}

func TestFingerprintIsStable(t *testing.T) {
	h := fingerprint.New()
	require.Equal(t, h.Fingerprint(baseRequest()), h.Fingerprint(baseRequest()))
}

func TestFingerprintIgnoresDefineName(t *testing.T) {
	h := fingerprint.New()

	a := baseRequest()
	b := baseRequest()
	b.Define = "somethingElse"

	require.Equal(t, h.Fingerprint(a), h.Fingerprint(b))
}

func TestFingerprintIgnoresTermOrder(t *testing.T) {
	h := fingerprint.New()

	a := baseRequest()
	b := baseRequest()
	b.TermSets[0].Terms = []string{"septic shock", "sepsis"}

	require.Equal(t, h.Fingerprint(a), h.Fingerprint(b))
}

func TestFingerprintSensitiveToScope(t *testing.T) {
	h := fingerprint.New()
	base := h.Fingerprint(baseRequest())

	fewerDocs := baseRequest()
	fewerDocs.Documents = fewerDocs.Documents[:1]
	require.NotEqual(t, base, h.Fingerprint(fewerDocs))

	fewerSubjects := baseRequest()
	fewerSubjects.Subjects = fewerSubjects.Subjects[:1]
	require.NotEqual(t, base, h.Fingerprint(fewerSubjects))

	otherTask := baseRequest()
	otherTask.Task = "ProviderAssertion"
	require.NotEqual(t, base, h.Fingerprint(otherTask))

	otherContext := baseRequest()
	otherContext.Context = domain.ContextDocument
	require.NotEqual(t, base, h.Fingerprint(otherContext))
}

func TestFingerprintSensitiveToParams(t *testing.T) {
	h := fingerprint.New()
	base := h.Fingerprint(baseRequest())

	changed := baseRequest()
	changed.Params["minimum_value"] = domain.NumberValue(4)
	require.NotEqual(t, base, h.Fingerprint(changed))
}
