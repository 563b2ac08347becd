// Package eval computes logical and threshold expressions over published
// define results, per subject.
//
// Policy: a subject absent from an operand's result set is treated as "not
// satisfied" for every predicate, never as an error. This mirrors the join
// semantics of the result store the engine replaces, where subjects without
// a feature row drop out of a conjunction.
package eval

import (
	"sort"
	"sync"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment holds the result sets published so far in a run. Publishing
// and reading are safe for concurrent use; a set is immutable once
// published.
type Environment struct {
	context domain.Context

	mu   sync.RWMutex
	sets map[string]*domain.ResultSet
}

// NewEnvironment creates an empty environment at the given granularity.
func NewEnvironment(ctx domain.Context) *Environment {
	return &Environment{
		context: ctx,
		sets:    make(map[string]*domain.ResultSet),
	}
}

// Context returns the environment's subject granularity.
func (e *Environment) Context() domain.Context { return e.context }

// Publish makes a define's result set visible to later evaluations.
func (e *Environment) Publish(set *domain.ResultSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sets[set.Define] = set
}

// ResultSet returns a published set.
func (e *Environment) ResultSet(define string) (*domain.ResultSet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	set, ok := e.sets[define]
	return set, ok
}

// Subjects returns the distinct subjects across all published sets, sorted.
func (e *Environment) Subjects() []domain.SubjectID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	seen := make(map[domain.SubjectID]bool)
	var out []domain.SubjectID
	for _, set := range e.sets {
		for _, row := range set.Rows {
			if !seen[row.Subject] {
				seen[row.Subject] = true
				out = append(out, row.Subject)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValueFor aggregates a define's rows for one subject into a single value.
// Under patient context a subject may have several document-level rows:
// numeric values reduce to their maximum, anything else to the first
// satisfied row. No rows yields absent.
func (e *Environment) ValueFor(define, member string, subject domain.SubjectID) domain.Value {
	set, ok := e.ResultSet(define)
	if !ok {
		return domain.Absent()
	}

	var values []domain.Value
	for _, row := range set.RowsFor(subject) {
		v := row.Value
		if member != "" {
			v = v.Field(member)
		}
		if !v.IsAbsent() {
			values = append(values, v)
		}
	}

	switch len(values) {
	case 0:
		return domain.Absent()
	case 1:
		return values[0]
	}

	allNumeric := true
	for _, v := range values {
		if v.Kind != domain.KindNumber {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		max := values[0]
		for _, v := range values[1:] {
			if v.Number > max.Number {
				max = v
			}
		}
		return max
	}

	for _, v := range values {
		if v.Truthy() {
			return v
		}
	}
	return values[0]
}

// Evaluate computes an expression for one subject. AND and OR short-circuit
// left to right on boolean operands; numeric comparisons evaluate both
// sides. Returns a boolean for predicates and the referenced value for a
// bare reference.
func Evaluate(env *Environment, expr domain.Expr, subject domain.SubjectID) (domain.Value, error) {
	switch e := expr.(type) {
	case *domain.LiteralExpr:
		return e.Value, nil

	case *domain.RefExpr:
		return env.ValueFor(e.Define, e.Member, subject), nil

	case *domain.NotExpr:
		v, err := Evaluate(env, e.Operand, subject)
		if err != nil {
			return domain.Absent(), err
		}
		return domain.BoolValue(!v.Truthy()), nil

	case *domain.BinaryExpr:
		return evaluateBinary(env, e, subject)

	default:
		return domain.Absent(), domain.ErrTypeMismatch
	}
}

func evaluateBinary(env *Environment, e *domain.BinaryExpr, subject domain.SubjectID) (domain.Value, error) {
	if e.Op.IsLogical() {
		left, err := Evaluate(env, e.Left, subject)
		if err != nil {
			return domain.Absent(), err
		}
		switch e.Op {
		case domain.OpAnd:
			if !left.Truthy() {
				return domain.BoolValue(false), nil
			}
		case domain.OpOr:
			if left.Truthy() {
				return domain.BoolValue(true), nil
			}
		}
		right, err := Evaluate(env, e.Right, subject)
		if err != nil {
			return domain.Absent(), err
		}
		return domain.BoolValue(right.Truthy()), nil
	}

	left, err := Evaluate(env, e.Left, subject)
	if err != nil {
		return domain.Absent(), err
	}
	right, err := Evaluate(env, e.Right, subject)
	if err != nil {
		return domain.Absent(), err
	}

	// An absent operand fails the predicate outright, for != as well: a
	// subject with no extracted value qualifies for nothing.
	if left.IsAbsent() || right.IsAbsent() {
		return domain.BoolValue(false), nil
	}

	switch e.Op {
	case domain.OpEQ:
		return domain.BoolValue(left.Equal(right)), nil
	case domain.OpNE:
		return domain.BoolValue(!left.Equal(right)), nil
	}

	cmp, err := left.Compare(right)
	if err != nil {
		return domain.Absent(), zerr.With(
			zerr.With(err, "operator", e.Op.String()),
			"subject", string(subject),
		)
	}
	switch e.Op {
	case domain.OpGT:
		return domain.BoolValue(cmp > 0), nil
	case domain.OpLT:
		return domain.BoolValue(cmp < 0), nil
	case domain.OpGE:
		return domain.BoolValue(cmp >= 0), nil
	default:
		return domain.BoolValue(cmp <= 0), nil
	}
}
