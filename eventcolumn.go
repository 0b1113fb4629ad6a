package stateful

import "time"

// EventColumn is a named vector aligned to a date index: Events[i] is the
// value recorded or interpolated at Dates[i].
type EventColumn struct {
	Name   string
	Dates  []time.Time
	Events []interface{}
	dtype  Dtype
}

// NewEventColumn constructs an EventColumn, inferring its dtype from the
// first non-null element.
func NewEventColumn(name string, dates []time.Time, events []interface{}) *EventColumn {
	col := &EventColumn{Name: name, Dates: dates, Events: events}
	for _, v := range events {
		if !IsNA(v) {
			col.dtype = inferDtype(v)
			break
		}
	}
	return col
}

// Len returns the number of rows in the column.
func (c *EventColumn) Len() int { return len(c.Dates) }

// Dtype returns the column's inferred or assigned dtype.
func (c *EventColumn) Dtype() Dtype { return c.dtype }

// At returns the value at row i.
func (c *EventColumn) At(i int) interface{} { return c.Events[i] }

// Cast coerces every element to dtype's output representation, per the
// same rule as castOutput: integer -> int, boolean -> bool, otherwise
// unchanged.
func (c *EventColumn) Cast(dtype Dtype) *EventColumn {
	out := make([]interface{}, len(c.Events))
	for i, v := range c.Events {
		out[i] = castOutput(dtype, v)
	}
	return &EventColumn{Name: c.Name, Dates: c.Dates, Events: out, dtype: dtype}
}

func sameDates(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Binary applies op elementwise against another EventColumn sharing the
// same date index, or against a scalar broadcast across every row. The
// result inherits this column's name and dates.
func (c *EventColumn) Binary(op BinaryOp, other interface{}) (*EventColumn, error) {
	if oc, ok := other.(*EventColumn); ok {
		if !sameDates(c.Dates, oc.Dates) {
			return nil, newError(TypeMismatch, oc.Name, "cannot combine columns with different date indexes")
		}
		out := make([]interface{}, len(c.Events))
		for i := range c.Events {
			v, err := applyBinary(op, c.Events[i], oc.Events[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &EventColumn{Name: c.Name, Dates: c.Dates, Events: out}, nil
	}

	out := make([]interface{}, len(c.Events))
	for i := range c.Events {
		v, err := applyBinary(op, c.Events[i], other)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &EventColumn{Name: c.Name, Dates: c.Dates, Events: out}, nil
}

// Unary applies a UnaryOp elementwise.
func (c *EventColumn) Unary(op UnaryOp) (*EventColumn, error) {
	out := make([]interface{}, len(c.Events))
	for i, v := range c.Events {
		r, err := applyUnary(op, v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &EventColumn{Name: c.Name, Dates: c.Dates, Events: out}, nil
}

// Apply maps fn over every element, returning a new EventColumn.
func (c *EventColumn) Apply(fn func(interface{}) (interface{}, error)) (*EventColumn, error) {
	out := make([]interface{}, len(c.Events))
	for i, v := range c.Events {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &EventColumn{Name: c.Name, Dates: c.Dates, Events: out, dtype: c.dtype}, nil
}
