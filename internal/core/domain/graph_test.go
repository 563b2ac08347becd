package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/core/domain"
)

func buildGraph(t *testing.T, deps map[string][]string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for name, d := range deps {
		err := g.AddNode(&domain.GraphNode{Name: name, Kind: domain.NodeDefine, Dependencies: d})
		require.NoError(t, err)
	}
	return g
}

func TestGraphAddNodeDuplicate(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(&domain.GraphNode{Name: "Sepsis", Kind: domain.NodeTermSet}))

	err := g.AddNode(&domain.GraphNode{Name: "Sepsis", Kind: domain.NodeDefine})
	require.ErrorIs(t, err, domain.ErrDuplicateDeclaration)
}

func TestGraphValidateUnresolved(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"hasFever": {"FeverTerms"},
	})

	err := g.Validate()
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
}

func TestGraphValidateCycleWitness(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	err := g.Validate()
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
	require.NotErrorIs(t, err, domain.ErrUnresolvedReference)
}

func TestGraphSelfCycle(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"loop": {"loop"},
	})

	err := g.Validate()
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestGraphTopologicalOrder(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"final":    {"left", "right"},
		"left":     {"base"},
		"right":    {"base"},
		"base":     {},
		"isolated": {},
	})
	require.NoError(t, g.Validate())
	require.True(t, g.Validated())

	pos := make(map[string]int)
	i := 0
	for n := range g.Walk() {
		pos[n.Name] = i
		i++
	}
	require.Len(t, pos, 5)
	require.Less(t, pos["base"], pos["left"])
	require.Less(t, pos["base"], pos["right"])
	require.Less(t, pos["left"], pos["final"])
	require.Less(t, pos["right"], pos["final"])
}

func TestGraphOrderIsDeterministic(t *testing.T) {
	deps := map[string][]string{
		"z": {},
		"m": {},
		"a": {},
		"q": {"z", "m", "a"},
	}

	var first []string
	for run := 0; run < 5; run++ {
		g := buildGraph(t, deps)
		require.NoError(t, g.Validate())

		var order []string
		for n := range g.Walk() {
			order = append(order, n.Name)
		}
		if first == nil {
			first = order
			continue
		}
		require.Equal(t, first, order)
	}
	require.Equal(t, []string{"a", "m", "z", "q"}, first)
}

func TestGraphDependents(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"top":   {"mid"},
		"mid":   {"leaf"},
		"other": {"leaf"},
		"leaf":  {},
	})
	require.NoError(t, g.Validate())

	deps := g.Dependents("leaf")
	require.ElementsMatch(t, []string{"mid", "other"}, deps)
	require.Empty(t, g.Dependents("top"))
}

func TestGraphValidatedResetOnMutation(t *testing.T) {
	g := buildGraph(t, map[string][]string{"a": {}})
	require.NoError(t, g.Validate())
	require.True(t, g.Validated())

	require.NoError(t, g.AddNode(&domain.GraphNode{Name: "b", Kind: domain.NodeDefine}))
	require.False(t, g.Validated())
}

func TestGraphErrorsAreDistinct(t *testing.T) {
	g := buildGraph(t, map[string][]string{"a": {"missing"}})
	err := g.Validate()
	require.True(t, errors.Is(err, domain.ErrUnresolvedReference))
	require.False(t, errors.Is(err, domain.ErrCyclicDependency))
}
