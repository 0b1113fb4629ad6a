package stateful

import "time"

// CalculatedStream is a lazy derived-stream node over a list of dependency
// stream names plus a pure Expr. It has no tree of its own; it is
// evaluated at query time against a snapshot the controller assembles.
type CalculatedStream struct {
	Dependencies []string
	Expr         Expr
	Vectorized   bool

	dtype  Dtype
	parent *Space
}

// NewCalculatedStream constructs a derived stream over dependencies,
// evaluated by expr. A nil expr makes the stream an identity projection
// over its single dependency.
func NewCalculatedStream(dependencies []string, expr Expr, dtype Dtype) *CalculatedStream {
	return &CalculatedStream{Dependencies: dependencies, Expr: expr, dtype: dtype}
}

// Dtype returns the stream's declared or inferred dtype: a single-dependency
// stream with no explicit dtype inherits its dependency's dtype once bound
// to a parent.
func (c *CalculatedStream) Dtype() Dtype {
	if c.dtype == DtypeUnknown && len(c.Dependencies) == 1 && c.parent != nil {
		c.dtype = c.parent.controller.nodeDtype(c.Dependencies[0])
	}
	return c.dtype
}

// Parent returns the Space this stream is bound to, or nil if unbound.
func (c *CalculatedStream) Parent() *Space { return c.parent }

func (c *CalculatedStream) requireParent() error {
	if c.parent == nil {
		return newError(UnknownDependency, nil, "cannot query an unattached CalculatedStream")
	}
	return nil
}

// Start returns the earliest timestamp across every dependency.
func (c *CalculatedStream) Start() (time.Time, error) {
	if err := c.requireParent(); err != nil {
		return time.Time{}, err
	}
	var start time.Time
	for _, name := range c.Dependencies {
		st, _, empty, ok := c.parent.controller.nodeBounds(name)
		if !ok || empty {
			continue
		}
		if start.IsZero() || st.Before(start) {
			start = st
		}
	}
	return start, nil
}

// End returns the latest timestamp across every dependency.
func (c *CalculatedStream) End() (time.Time, error) {
	if err := c.requireParent(); err != nil {
		return time.Time{}, err
	}
	var end time.Time
	for _, name := range c.Dependencies {
		_, en, empty, ok := c.parent.controller.nodeBounds(name)
		if !ok || empty {
			continue
		}
		if end.IsZero() || en.After(end) {
			end = en
		}
	}
	return end, nil
}

// Empty reports whether every dependency is empty (or the stream is
// unattached).
func (c *CalculatedStream) Empty() bool {
	if c.parent == nil {
		return true
	}
	for _, name := range c.Dependencies {
		if _, _, empty, ok := c.parent.controller.nodeBounds(name); ok && !empty {
			return false
		}
	}
	return true
}

// AssignTo rebinds a parent-less CalculatedStream to a new controller,
// per spec.md §4.3's assign_to contract.
func (c *CalculatedStream) AssignTo(space *Space) *CalculatedStream {
	return &CalculatedStream{
		Dependencies: append([]string{}, c.Dependencies...),
		Expr:         c.Expr,
		Vectorized:   c.Vectorized,
		dtype:        c.dtype,
		parent:       space,
	}
}

// Add appends a value to a CalculatedStream's single underlying dependency;
// only valid for a one-dependency identity wrapper.
func (c *CalculatedStream) Add(date, value interface{}) error {
	if len(c.Dependencies) != 1 {
		return newError(TypeMismatch, c.Dependencies, "Add requires exactly one dependency")
	}
	if err := c.requireParent(); err != nil {
		return err
	}
	s, ok := c.parent.controller.streamOf(c.Dependencies[0])
	if !ok {
		return newError(UnknownDependency, c.Dependencies[0], "stream not found")
	}
	return s.Add(date, value)
}

// Get asks the controller to assemble a snapshot over Dependencies, applies
// Expr if present, and casts the result to this stream's dtype.
func (c *CalculatedStream) Get(date interface{}) (*Event, error) {
	if err := c.requireParent(); err != nil {
		return nil, err
	}
	t, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	snapshot, err := c.parent.controller.Get(t, c.Dependencies, true)
	if err != nil {
		return nil, err
	}
	return c.Calculate(snapshot)
}

// Calculate applies Expr to snapshot, producing a scalar Event cast to this
// stream's dtype. With no Expr, it is an identity projection.
func (c *CalculatedStream) Calculate(snapshot *Event) (*Event, error) {
	if c.Expr == nil {
		out := NewEvent(snapshot.Date)
		out.Set("value", castOutput(c.Dtype(), snapshot.Value()))
		return out, nil
	}
	v, err := c.Expr.EvalScalar(snapshot)
	if err != nil {
		return nil, err
	}
	out := NewEvent(snapshot.Date)
	out.Set("value", castOutput(c.Dtype(), v))
	return out, nil
}

// CalculateVector applies Expr to a multi-row snapshot frame, producing an
// EventColumn cast to this stream's dtype.
func (c *CalculatedStream) CalculateVector(frame *EventFrame, name string) (*EventColumn, error) {
	if c.Expr == nil {
		if col := frame.Column(c.Dependencies[0]); col != nil {
			out := col.Cast(c.Dtype())
			out.Name = name
			return out, nil
		}
		return nil, newError(UnknownDependency, c.Dependencies[0], "column not present in snapshot")
	}
	col, err := c.Expr.EvalVector(frame)
	if err != nil {
		return nil, err
	}
	col = col.Cast(c.Dtype())
	col.Name = name
	return col, nil
}

// Apply composes fn after the stream's current Expr (identity if none),
// preserving Dependencies. Requires exactly one dependency.
func (c *CalculatedStream) Apply(fn MapFn) *CalculatedStream {
	if len(c.Dependencies) != 1 {
		return &CalculatedStream{dtype: DtypeObject, Expr: errExpr{
			newError(TypeMismatch, c.Dependencies, "Apply requires exactly one dependency"),
		}}
	}
	inner := c.asExpr()
	out := &CalculatedStream{
		Dependencies: append([]string{}, c.Dependencies...),
		Expr:         Map{Fn: fn, Inner: inner},
		dtype:        c.dtype,
		parent:       c.parent,
	}
	return out
}

// ApplyVectorized composes fn after the stream's current Expr, the same
// way Apply does, but fn runs once against the whole dependency column
// rather than once per row — for operations such as a running total or a
// window that have no meaning applied to a single value in isolation.
// Requires exactly one dependency.
func (c *CalculatedStream) ApplyVectorized(fn VectorFn) *CalculatedStream {
	if len(c.Dependencies) != 1 {
		return &CalculatedStream{dtype: DtypeObject, Expr: errExpr{
			newError(TypeMismatch, c.Dependencies, "ApplyVectorized requires exactly one dependency"),
		}}
	}
	inner := c.asExpr()
	return &CalculatedStream{
		Dependencies: append([]string{}, c.Dependencies...),
		Expr:         VectorMap{Fn: fn, Inner: inner},
		Vectorized:   true,
		dtype:        c.dtype,
		parent:       c.parent,
	}
}

// asExpr returns the stream's expression, defaulting to a DataRef when it
// is a bare single-dependency identity wrapper. This is how binary/unary
// combinators pick up an operand that was never explicitly given an Expr.
func (c *CalculatedStream) asExpr() Expr {
	if c.Expr != nil {
		return c.Expr
	}
	if len(c.Dependencies) == 1 {
		return DataRef{Name: c.Dependencies[0]}
	}
	return nil
}

func combineParents(a, b *Space) (*Space, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	case a == b:
		return a, nil
	default:
		return nil, newError(TypeMismatch, nil, "cannot combine CalculatedStreams bound to different spaces")
	}
}

// binary builds a new CalculatedStream combining c with other (a
// CalculatedStream or a scalar constant) via op. Dependencies are the union,
// preserving c's first; dtype widens per WidenDtype; parent is whichever of
// the two is non-nil (they must agree if both are set).
func (c *CalculatedStream) binary(op BinaryOp, other interface{}) *CalculatedStream {
	var rightExpr Expr
	var rightDeps []string
	var parent *Space
	var rightDtype Dtype

	if oc, ok := other.(*CalculatedStream); ok {
		p, err := combineParents(c.parent, oc.parent)
		if err != nil {
			return &CalculatedStream{dtype: DtypeObject, Expr: errExpr{err}}
		}
		parent = p
		rightExpr = oc.asExpr()
		rightDeps = oc.Dependencies
		rightDtype = oc.Dtype()
	} else {
		parent = c.parent
		rightExpr = Const{Value: other}
		rightDtype = inferDtype(other)
	}

	deps := mergeDependencies(c.Dependencies, rightDeps)
	expr := Binary{Op: op, Left: c.asExpr(), Right: rightExpr}
	dtype := WidenDtype(c.Dtype(), rightDtype)
	if isComparison(op) {
		dtype = DtypeBoolean
	}

	out := &CalculatedStream{Dependencies: deps, Expr: expr, dtype: dtype, parent: parent}
	return out
}

func isComparison(op BinaryOp) bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGe, OpLt, OpLe, OpAnd, OpOr:
		return true
	default:
		return false
	}
}

func (c *CalculatedStream) unary(op UnaryOp, dtype Dtype) *CalculatedStream {
	if len(c.Dependencies) != 1 {
		return &CalculatedStream{dtype: DtypeObject, Expr: errExpr{
			newError(TypeMismatch, c.Dependencies, "unary operator %s requires exactly one dependency", op),
		}}
	}
	return &CalculatedStream{
		Dependencies: append([]string{}, c.Dependencies...),
		Expr:         Unary{Op: op, Inner: c.asExpr()},
		dtype:        dtype,
		parent:       c.parent,
	}
}

// errExpr is a degenerate Expr that always fails, used to surface a
// pre-condition violation (mismatched parents) lazily at evaluation time
// while still returning a *CalculatedStream from the combinator call.
type errExpr struct{ err error }

func (e errExpr) EvalScalar(*Event) (interface{}, error)      { return nil, e.err }
func (e errExpr) EvalVector(*EventFrame) (*EventColumn, error) { return nil, e.err }
func (e errExpr) Dependencies() []string                       { return nil }

// Plus, Minus, Times, Over, FloorOver, Modulo, ToThePowerOf, LogicalAnd,
// LogicalOr, Equal, NotEqual, GreaterThan, GreaterOrEqual, LessThan, and
// LessOrEqual build composite CalculatedStreams, matching the binary
// operator set spec.md §4.3 requires (Go has no operator overloading, so
// each gets a name instead of a symbol).
func (c *CalculatedStream) Plus(other interface{}) *CalculatedStream  { return c.binary(OpAdd, other) }
func (c *CalculatedStream) Minus(other interface{}) *CalculatedStream { return c.binary(OpSub, other) }
func (c *CalculatedStream) Times(other interface{}) *CalculatedStream { return c.binary(OpMul, other) }
func (c *CalculatedStream) Over(other interface{}) *CalculatedStream  { return c.binary(OpDiv, other) }
func (c *CalculatedStream) FloorOver(other interface{}) *CalculatedStream {
	return c.binary(OpFloorDiv, other)
}
func (c *CalculatedStream) Modulo(other interface{}) *CalculatedStream { return c.binary(OpMod, other) }
func (c *CalculatedStream) ToThePowerOf(other interface{}) *CalculatedStream {
	return c.binary(OpPow, other)
}
func (c *CalculatedStream) LogicalAnd(other interface{}) *CalculatedStream {
	return c.binary(OpAnd, other)
}
func (c *CalculatedStream) LogicalOr(other interface{}) *CalculatedStream {
	return c.binary(OpOr, other)
}
func (c *CalculatedStream) Equal(other interface{}) *CalculatedStream { return c.binary(OpEq, other) }
func (c *CalculatedStream) NotEqual(other interface{}) *CalculatedStream {
	return c.binary(OpNeq, other)
}
func (c *CalculatedStream) GreaterThan(other interface{}) *CalculatedStream {
	return c.binary(OpGt, other)
}
func (c *CalculatedStream) GreaterOrEqual(other interface{}) *CalculatedStream {
	return c.binary(OpGe, other)
}
func (c *CalculatedStream) LessThan(other interface{}) *CalculatedStream {
	return c.binary(OpLt, other)
}
func (c *CalculatedStream) LessOrEqual(other interface{}) *CalculatedStream {
	return c.binary(OpLe, other)
}

// Negate, Positive, AbsoluteValue, LogicalNot, AsInt, AsBool, and AsFloat
// build composite CalculatedStreams from the unary operator set. Each
// requires exactly one dependency.
func (c *CalculatedStream) Negate() *CalculatedStream { return c.unary(OpNeg, c.Dtype()) }
func (c *CalculatedStream) Positive() *CalculatedStream { return c.unary(OpPos, c.Dtype()) }
func (c *CalculatedStream) AbsoluteValue() *CalculatedStream { return c.unary(OpAbs, c.Dtype()) }
func (c *CalculatedStream) LogicalNot() *CalculatedStream { return c.unary(OpNot, DtypeBoolean) }
func (c *CalculatedStream) AsInt() *CalculatedStream     { return c.unary(OpAsInt, DtypeInteger) }
func (c *CalculatedStream) AsBool() *CalculatedStream    { return c.unary(OpAsBool, DtypeBoolean) }
func (c *CalculatedStream) AsFloat() *CalculatedStream   { return c.unary(OpAsFloat, DtypeFloating) }
