package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/engine/eval"
)

func publishRows(env *eval.Environment, define string, rows ...domain.ExecutionRow) {
	env.Publish(&domain.ResultSet{Define: define, Rows: rows})
}

func boolRow(subject string, b bool) domain.ExecutionRow {
	return domain.ExecutionRow{Subject: domain.SubjectID(subject), Value: domain.BoolValue(b)}
}

func recordRow(subject, doc string, fields map[string]domain.Value) domain.ExecutionRow {
	return domain.ExecutionRow{
		Subject:  domain.SubjectID(subject),
		Document: doc,
		Value:    domain.RecordValue(fields),
	}
}

func ref(define string) *domain.RefExpr {
	return &domain.RefExpr{Define: define}
}

func memberRef(define, member string) *domain.RefExpr {
	return &domain.RefExpr{Define: define, Member: member}
}

func TestEvaluateAbsentOperandFailsPredicate(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "lactate") // no rows at all

	// p1 has no lactate value; every comparison, != included, is false.
	ops := []domain.BinaryOp{
		domain.OpGT, domain.OpLT, domain.OpGE, domain.OpLE, domain.OpEQ, domain.OpNE,
	}
	for _, op := range ops {
		v, err := eval.Evaluate(env, &domain.BinaryExpr{
			Op:    op,
			Left:  memberRef("lactate", "value"),
			Right: &domain.LiteralExpr{Value: domain.NumberValue(2)},
		}, "p1")
		require.NoError(t, err)
		require.Equal(t, domain.BoolValue(false), v, "operator %s", op)
	}
}

func TestEvaluateAndDropsAbsentSubject(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "hasSepsis", boolRow("p1", true))
	publishRows(env, "hasFever", boolRow("p2", true))

	and := &domain.BinaryExpr{Op: domain.OpAnd, Left: ref("hasSepsis"), Right: ref("hasFever")}

	v, err := eval.Evaluate(env, and, "p1")
	require.NoError(t, err)
	require.False(t, v.Truthy())

	v, err = eval.Evaluate(env, and, "p2")
	require.NoError(t, err)
	require.False(t, v.Truthy())
}

func TestEvaluateOrShortCircuits(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "a", boolRow("p1", true))
	// "b" was never published; OR must not need it when the left side holds.

	v, err := eval.Evaluate(env, &domain.BinaryExpr{
		Op: domain.OpOr, Left: ref("a"), Right: ref("b"),
	}, "p1")
	require.NoError(t, err)
	require.True(t, v.Truthy())
}

func TestEvaluateNotOfAbsentIsTrue(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "hasSepsis", boolRow("p1", true))

	v, err := eval.Evaluate(env, &domain.NotExpr{Operand: ref("hasSepsis")}, "p9")
	require.NoError(t, err)
	require.True(t, v.Truthy())
}

func TestEvaluateNumericComparison(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "lactate",
		recordRow("p1", "d1", map[string]domain.Value{"value": domain.NumberValue(3.5)}),
	)

	v, err := eval.Evaluate(env, &domain.BinaryExpr{
		Op:    domain.OpGE,
		Left:  memberRef("lactate", "value"),
		Right: &domain.LiteralExpr{Value: domain.NumberValue(2)},
	}, "p1")
	require.NoError(t, err)
	require.True(t, v.Truthy())
}

func TestEvaluateComparisonTypeMismatch(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "term",
		recordRow("p1", "d1", map[string]domain.Value{"value": domain.StringValue("high")}),
	)

	_, err := eval.Evaluate(env, &domain.BinaryExpr{
		Op:    domain.OpGT,
		Left:  memberRef("term", "value"),
		Right: &domain.LiteralExpr{Value: domain.NumberValue(2)},
	}, "p1")
	require.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestValueForAggregatesNumericMax(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "lactate",
		recordRow("p1", "d1", map[string]domain.Value{"value": domain.NumberValue(1.1)}),
		recordRow("p1", "d2", map[string]domain.Value{"value": domain.NumberValue(4.2)}),
		recordRow("p1", "d3", map[string]domain.Value{"value": domain.NumberValue(2.0)}),
	)

	v := env.ValueFor("lactate", "value", "p1")
	require.Equal(t, domain.NumberValue(4.2), v)
}

func TestValueForPrefersSatisfiedRow(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "assertion",
		recordRow("p1", "d1", map[string]domain.Value{"value": domain.BoolValue(false)}),
		recordRow("p1", "d2", map[string]domain.Value{"value": domain.BoolValue(true)}),
	)

	v := env.ValueFor("assertion", "", "p1")
	require.True(t, v.Truthy())
}

func TestValueForMissingMemberIsAbsent(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "assertion",
		recordRow("p1", "d1", map[string]domain.Value{"term": domain.StringValue("sepsis")}),
	)

	require.True(t, env.ValueFor("assertion", "value", "p1").IsAbsent())
	require.True(t, env.ValueFor("assertion", "", "p2").IsAbsent())
	require.True(t, env.ValueFor("neverPublished", "", "p1").IsAbsent())
}

func TestEnvironmentSubjects(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "a", boolRow("p2", true), boolRow("p1", true))
	publishRows(env, "b", boolRow("p3", true), boolRow("p1", false))

	require.Equal(t,
		[]domain.SubjectID{"p1", "p2", "p3"},
		env.Subjects(),
	)
}

func TestEvaluateBareReferenceYieldsValue(t *testing.T) {
	env := eval.NewEnvironment(domain.ContextPatient)
	publishRows(env, "lactate",
		recordRow("p1", "d1", map[string]domain.Value{"value": domain.NumberValue(2.5)}),
	)

	v, err := eval.Evaluate(env, memberRef("lactate", "value"), "p1")
	require.NoError(t, err)
	require.Equal(t, domain.NumberValue(2.5), v)
}
