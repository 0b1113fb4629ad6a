package stateful

import (
	"fmt"
	"strings"
)

// String renders the Event as its date plus a key=value list in recorded
// order, matching tada's terse Series-style scalar rendering rather than
// EventFrame's tabular one.
func (e *Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ", e.Date.Format("2006-01-02T15:04:05Z"))
	for i, key := range e.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", key, e.state[key])
	}
	return b.String()
}

// String renders the column's name, dtype, and length.
func (c *EventColumn) String() string {
	return fmt.Sprintf("%s [%s] (%d rows)", c.Name, c.dtype, c.Len())
}

// String renders a derived stream's dependency list and the primary value
// of the space it is bound to, or "unbound".
func (c *CalculatedStream) String() string {
	bound := "unbound"
	if c.parent != nil {
		bound = fmt.Sprintf("bound to %v", c.parent.PrimaryValue)
	}
	return fmt.Sprintf("CalculatedStream(%s) <- %s", strings.Join(c.Dependencies, ", "), bound)
}

// String renders the tree's dtype, interpolation policy, and length.
func (dt *DateTree) String() string {
	return fmt.Sprintf("DateTree[%s/%s] (%d points)", dt.dtype, dt.interpolation, dt.Length())
}

// String renders the stream's name, dtype, and point count.
func (s *Stream) String() string {
	return fmt.Sprintf("%s [%s] (%d points)", s.name, s.Dtype(), s.tree.Length())
}

// String renders every node in the graph alongside its dependencies.
func (g *StreamGraph) String() string {
	var b strings.Builder
	for i, name := range g.order {
		if i > 0 {
			b.WriteString("; ")
		}
		deps := g.deps[name]
		fmt.Fprintf(&b, "%s <- [%s]", name, strings.Join(deps, ", "))
	}
	return b.String()
}

// String renders the controller's registered stream names in registration
// order.
func (sc *StreamController) String() string {
	return fmt.Sprintf("StreamController(%s)", strings.Join(sc.order, ", "))
}

// String renders the state's primary/time keys and the number of spaces it
// holds.
func (s *State) String() string {
	return fmt.Sprintf("State[%s/%s] (%d spaces)", s.PrimaryKey, s.TimeKey, len(s.order))
}
