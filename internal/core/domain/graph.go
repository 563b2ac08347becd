package domain

import (
	"iter"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// NodeKind discriminates dependency-graph node kinds. Term sets, document
// sets and cohorts are leaves: nothing may depend on a define from them.
type NodeKind int

const (
	// NodeDefine is a define node.
	NodeDefine NodeKind = iota
	// NodeTermSet is a term set leaf.
	NodeTermSet
	// NodeDocumentSet is a document set leaf.
	NodeDocumentSet
	// NodeCohort is a cohort leaf.
	NodeCohort
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeTermSet:
		return "termset"
	case NodeDocumentSet:
		return "documentset"
	case NodeCohort:
		return "cohort"
	default:
		return "define"
	}
}

// GraphNode is one node of the dependency graph. Dependencies point at the
// entities the node consumes.
type GraphNode struct {
	Name         string
	Kind         NodeKind
	Dependencies []string
}

// Graph is the directed acyclic dependency graph of a library. Nodes are
// added during binding; Validate computes a deterministic topological order.
type Graph struct {
	nodes      map[string]*GraphNode
	insertion  []string
	order      []string
	dependents map[string][]string
	validated  bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]*GraphNode),
		dependents: make(map[string][]string),
	}
}

// AddNode adds a node. Names are unique across all entity kinds.
func (g *Graph) AddNode(n *GraphNode) error {
	if _, exists := g.nodes[n.Name]; exists {
		return Annotate(ErrDuplicateDeclaration, "name", n.Name)
	}
	g.nodes[n.Name] = n
	g.insertion = append(g.insertion, n.Name)
	g.validated = false
	return nil
}

// Node returns the named node.
func (g *Graph) Node(name string) (*GraphNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Dependents returns the names of the nodes that consume the given node.
// Only meaningful after Validate.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// Validate checks that every dependency resolves and that the graph is
// acyclic, then fixes a deterministic topological order. A cycle is reported
// with one witness path.
func (g *Graph) Validate() error {
	inDegree := make(map[string]int, len(g.nodes))
	g.dependents = make(map[string][]string, len(g.nodes))

	for _, name := range g.insertion {
		n := g.nodes[name]
		for _, dep := range n.Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				return zerr.With(
					Annotate(ErrUnresolvedReference, "name", dep),
					"referenced_by", name,
				)
			}
			inDegree[name]++
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}

	// Kahn's algorithm with a sorted ready set keeps the order stable
	// across runs.
	ready := make([]string, 0, len(g.nodes))
	for _, name := range g.insertion {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		unlocked := make([]string, 0, len(g.dependents[name]))
		for _, dep := range g.dependents[name] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				unlocked = append(unlocked, dep)
			}
		}
		sort.Strings(unlocked)
		ready = append(ready, unlocked...)
	}

	if len(order) != len(g.nodes) {
		return Annotate(ErrCyclicDependency, "cycle", g.witnessCycle(inDegree))
	}

	g.order = order
	g.validated = true
	return nil
}

// witnessCycle walks the residual graph left by Kahn's algorithm and
// formats one cycle as "a -> b -> a".
func (g *Graph) witnessCycle(inDegree map[string]int) string {
	residual := make(map[string]bool)
	for _, name := range g.insertion {
		if inDegree[name] > 0 {
			residual[name] = true
		}
	}

	var start string
	for _, name := range g.insertion {
		if residual[name] {
			start = name
			break
		}
	}
	if start == "" {
		return ""
	}

	// Follow residual dependencies until a node repeats.
	seen := map[string]int{}
	var path []string
	cur := start
	for {
		if idx, ok := seen[cur]; ok {
			path = append(path[idx:], cur)
			return strings.Join(path, " -> ")
		}
		seen[cur] = len(path)
		path = append(path, cur)

		next := ""
		deps := append([]string(nil), g.nodes[cur].Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			if residual[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			return strings.Join(path, " -> ")
		}
		cur = next
	}
}

// Walk yields every node in topological order: producers before consumers.
// Validate must have succeeded.
func (g *Graph) Walk() iter.Seq[*GraphNode] {
	return func(yield func(*GraphNode) bool) {
		for _, name := range g.order {
			if !yield(g.nodes[name]) {
				return
			}
		}
	}
}

// Validated reports whether Validate has succeeded since the last mutation.
func (g *Graph) Validated() bool { return g.validated }
