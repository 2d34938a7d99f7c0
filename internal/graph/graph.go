// Package graph implements the directed dependency graph used to order
// component construction. Nodes are component identities; an edge A -> B
// means A requires B before it can be constructed.
package graph

// Graph manages the dependency relationships between component
// definitions. It provides cycle detection and a deterministic
// topological sort: ties between independent nodes are broken by the
// order in which the nodes were added (discovery order), so a given
// definition set always produces the same construction order.
type Graph struct {
	nodes map[string]int      // identity -> discovery index
	order []string            // identities in discovery order
	edges map[string][]string // adjacency: node -> its dependencies
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]int),
		edges: make(map[string][]string),
	}
}

// AddNode registers an identity. Adding an existing identity is a no-op;
// the original discovery index is kept.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge records that from depends on to. Both endpoints are created
// if they do not exist yet. The new edge is checked immediately: if it
// closes a cycle, the edge is removed again and a *CycleError naming
// the full cycle path is returned.
func (g *Graph) AddEdge(from, to string) error {
	g.AddNode(from)
	g.AddNode(to)

	g.edges[from] = append(g.edges[from], to)

	if path := g.findCycleFrom(from); path != nil {
		deps := g.edges[from]
		g.edges[from] = deps[:len(deps)-1]
		return &CycleError{Node: from, Path: path}
	}

	return nil
}

// Has reports whether an identity is present in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.order)
}

// Dependencies returns the direct dependencies of an identity.
func (g *Graph) Dependencies(id string) []string {
	deps := g.edges[id]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// DetectCycles checks the whole graph and returns a *CycleError for the
// first cycle found, or nil if the graph is acyclic.
func (g *Graph) DetectCycles() error {
	visited := make(map[string]bool, len(g.order))

	for _, id := range g.order {
		if visited[id] {
			continue
		}
		if path := g.dfsCycle(id, visited, make(map[string]bool), nil); path != nil {
			return &CycleError{Node: path[0], Path: path}
		}
	}

	return nil
}

// IsAcyclic reports whether the graph has no cycles.
func (g *Graph) IsAcyclic() bool {
	return g.DetectCycles() == nil
}

// Sort returns all identities in dependency order (dependencies first)
// using Kahn's algorithm. Among nodes whose dependencies are all
// satisfied, the one discovered earliest is emitted first. Returns a
// *CycleError if the graph cannot be fully sorted.
func (g *Graph) Sort() ([]string, error) {
	// out-degree here counts unsatisfied dependencies
	remaining := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		remaining[id] = len(g.edges[id])
		for _, dep := range g.edges[id] {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	result := make([]string, 0, len(g.order))
	emitted := make(map[string]bool, len(g.order))

	for len(result) < len(g.order) {
		progressed := false
		// Scan in discovery order so ties resolve deterministically.
		for _, id := range g.order {
			if emitted[id] || remaining[id] != 0 {
				continue
			}
			emitted[id] = true
			result = append(result, id)
			for _, dependent := range dependents[id] {
				remaining[dependent]--
			}
			progressed = true
		}
		if !progressed {
			if err := g.DetectCycles(); err != nil {
				return nil, err
			}
			// Unreachable: no progress without a cycle.
			return nil, &CycleError{Node: g.order[0]}
		}
	}

	return result, nil
}

// findCycleFrom looks for a cycle reachable from start and returns its
// path, or nil when none exists.
func (g *Graph) findCycleFrom(start string) []string {
	return g.dfsCycle(start, make(map[string]bool), make(map[string]bool), nil)
}

// dfsCycle walks the graph depth-first tracking the active recursion
// stack. When a back-edge is found it returns the cycle portion of the
// current path, trimmed so the repeated node appears exactly once.
func (g *Graph) dfsCycle(id string, visited, onStack map[string]bool, path []string) []string {
	visited[id] = true
	onStack[id] = true
	path = append(path, id)

	for _, dep := range g.edges[id] {
		if onStack[dep] {
			// Trim the path down to the cycle itself.
			for i, p := range path {
				if p == dep {
					cycle := make([]string, len(path)-i)
					copy(cycle, path[i:])
					return cycle
				}
			}
			return append(path, dep)
		}
		if visited[dep] {
			continue
		}
		if cycle := g.dfsCycle(dep, visited, onStack, path); cycle != nil {
			return cycle
		}
	}

	onStack[id] = false
	return nil
}
