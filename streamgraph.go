package stateful

// GraphNode is one entry of a StreamGraph's execution order: a stream name
// paired with the dependency names that must already be resolved.
type GraphNode struct {
	Name         string
	Dependencies []string
}

// StreamGraph is the directed acyclic graph of data and derived stream
// names within a space, with a synthetic root: data streams hang off the
// root with no dependencies, derived streams have an incoming edge from
// each declared dependency.
type StreamGraph struct {
	keys  map[string]struct{}
	deps  map[string][]string
	order []string
}

// NewStreamGraph constructs an empty StreamGraph, optionally seeded with a
// set of data-stream names (each gets an implicit root edge).
func NewStreamGraph(dataStreamNames ...string) *StreamGraph {
	g := &StreamGraph{
		keys: make(map[string]struct{}),
		deps: make(map[string][]string),
	}
	for _, name := range dataStreamNames {
		g.Add(name, nil)
	}
	return g
}

// Contains reports whether name is a known node.
func (g *StreamGraph) Contains(name string) bool {
	_, ok := g.keys[name]
	return ok
}

// Add upserts a node: empty dependencies register a root edge (a data
// stream); non-empty dependencies register one edge per named dependency,
// each of which must already be known.
func (g *StreamGraph) Add(name string, dependencies []string) error {
	for _, dep := range dependencies {
		if !g.Contains(dep) {
			return newError(UnknownDependency, dep, "dependency of %q is not known", name)
		}
	}
	if !g.Contains(name) {
		g.keys[name] = struct{}{}
		g.order = append(g.order, name)
	}
	g.deps[name] = append([]string{}, dependencies...)
	return nil
}

// targetColumns computes the transitive closure of predecessors of columns
// through the DAG, excluding the root (spec.md §4.5's "_target_columns").
func (g *StreamGraph) targetColumns(columns []string) map[string]bool {
	required := make(map[string]bool)
	frontier := make(map[string]bool, len(columns))
	for _, c := range columns {
		frontier[c] = true
	}
	for len(frontier) > 0 {
		var col string
		for k := range frontier {
			col = k
			break
		}
		delete(frontier, col)
		required[col] = true
		for _, p := range g.deps[col] {
			if !required[p] {
				frontier[p] = true
			}
		}
	}
	return required
}

// ExecutionOrder yields a topological ordering over columns (or every
// known node, if columns is empty): root-successors (data streams) first,
// then derived streams once every non-root predecessor has been emitted.
func (g *StreamGraph) ExecutionOrder(columns []string) []GraphNode {
	var required map[string]bool
	if len(columns) == 0 {
		required = make(map[string]bool, len(g.order))
		for _, name := range g.order {
			required[name] = true
		}
	} else {
		required = g.targetColumns(columns)
	}

	state := make(map[string]bool)
	var out []GraphNode

	for _, name := range g.order {
		if required[name] && len(g.deps[name]) == 0 {
			state[name] = true
			out = append(out, GraphNode{Name: name, Dependencies: nil})
		}
	}

	missing := remaining(g.order, required, state)
	for len(missing) > 0 {
		progressed := false
		for _, name := range missing {
			deps := g.deps[name]
			if allResolved(deps, state) {
				state[name] = true
				out = append(out, GraphNode{Name: name, Dependencies: deps})
				progressed = true
			}
		}
		missing = remaining(g.order, required, state)
		if !progressed {
			// Invariant (acyclic) violated; stop rather than loop forever.
			break
		}
	}
	return out
}

func remaining(order []string, required, state map[string]bool) []string {
	var out []string
	for _, name := range order {
		if required[name] && !state[name] {
			out = append(out, name)
		}
	}
	return out
}

func allResolved(deps []string, state map[string]bool) bool {
	for _, d := range deps {
		if !state[d] {
			return false
		}
	}
	return true
}
