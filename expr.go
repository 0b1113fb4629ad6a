package stateful

import "time"

// Expr is the algebraic expression tree a CalculatedStream evaluates against
// a snapshot, per spec.md §9's redesign note: this replaces the source's
// per-operator method explosion with a single interpretable type.
type Expr interface {
	// EvalScalar evaluates the expression against a single-row snapshot.
	EvalScalar(snapshot *Event) (interface{}, error)
	// EvalVector evaluates the expression against a multi-row snapshot.
	EvalVector(frame *EventFrame) (*EventColumn, error)
	// Dependencies returns, in left-to-right first-use order, every stream
	// name this expression reads from a snapshot.
	Dependencies() []string
}

// DataRef reads one named stream's value out of the snapshot.
type DataRef struct {
	Name string
}

func (d DataRef) EvalScalar(snapshot *Event) (interface{}, error) {
	return snapshot.Get(d.Name), nil
}

func (d DataRef) EvalVector(frame *EventFrame) (*EventColumn, error) {
	col := frame.Column(d.Name)
	if col == nil {
		return nil, newError(UnknownDependency, d.Name, "column not present in snapshot")
	}
	return col, nil
}

func (d DataRef) Dependencies() []string { return []string{d.Name} }

// Const wraps a fixed scalar, broadcast across every row in a vector
// evaluation.
type Const struct {
	Value interface{}
}

func (c Const) EvalScalar(snapshot *Event) (interface{}, error) { return c.Value, nil }

func (c Const) EvalVector(frame *EventFrame) (*EventColumn, error) {
	events := make([]interface{}, len(frame.Dates))
	for i := range events {
		events[i] = c.Value
	}
	return &EventColumn{Dates: frame.Dates, Events: events}, nil
}

func (c Const) Dependencies() []string { return nil }

// Binary composes two sub-expressions with a BinaryOp.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (b Binary) EvalScalar(snapshot *Event) (interface{}, error) {
	l, err := b.Left.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	return applyBinary(b.Op, l, r)
}

func (b Binary) EvalVector(frame *EventFrame) (*EventColumn, error) {
	l, err := b.Left.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	return l.Binary(b.Op, r)
}

func (b Binary) Dependencies() []string {
	return mergeDependencies(b.Left.Dependencies(), b.Right.Dependencies())
}

// Unary composes one sub-expression with a UnaryOp.
type Unary struct {
	Op    UnaryOp
	Inner Expr
}

func (u Unary) EvalScalar(snapshot *Event) (interface{}, error) {
	v, err := u.Inner.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	return applyUnary(u.Op, v)
}

func (u Unary) EvalVector(frame *EventFrame) (*EventColumn, error) {
	col, err := u.Inner.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	return col.Unary(u.Op)
}

func (u Unary) Dependencies() []string { return u.Inner.Dependencies() }

// MapFn is a pure function applied over a scalar value.
type MapFn func(interface{}) (interface{}, error)

// Map composes fn after evaluating a sub-expression, used by
// CalculatedStream.Apply.
type Map struct {
	Fn    MapFn
	Inner Expr
}

func (m Map) EvalScalar(snapshot *Event) (interface{}, error) {
	v, err := m.Inner.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	return m.Fn(v)
}

func (m Map) EvalVector(frame *EventFrame) (*EventColumn, error) {
	col, err := m.Inner.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	return col.Apply(m.Fn)
}

func (m Map) Dependencies() []string { return m.Inner.Dependencies() }

// VectorFn is a pure function over a whole dependency column, for
// operations that are not naturally elementwise (a running total, a
// window, a cross-row comparison).
type VectorFn func(*EventColumn) (*EventColumn, error)

// VectorMap composes fn directly against a dependency's column rather
// than threading row-by-row through EvalScalar, used by
// CalculatedStream.ApplyVectorized. EvalScalar falls back to evaluating
// the function over a length-1 column built from the snapshot, since a
// row-wise operation has no meaning in isolation but callers may still
// invoke Get on a vectorized stream.
type VectorMap struct {
	Fn    VectorFn
	Inner Expr
}

func (m VectorMap) EvalScalar(snapshot *Event) (interface{}, error) {
	v, err := m.Inner.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	col, err := m.Fn(&EventColumn{Dates: []time.Time{snapshot.Date}, Events: []interface{}{v}})
	if err != nil {
		return nil, err
	}
	if col.Len() == 0 {
		return NA, nil
	}
	return col.At(0), nil
}

func (m VectorMap) EvalVector(frame *EventFrame) (*EventColumn, error) {
	col, err := m.Inner.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	return m.Fn(col)
}

func (m VectorMap) Dependencies() []string { return m.Inner.Dependencies() }

// mergeDependencies unions two dependency lists, preserving the left
// operand's names first, as spec.md §4.3 requires.
func mergeDependencies(left, right []string) []string {
	seen := make(map[string]bool, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))
	for _, n := range left {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range right {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
