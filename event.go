package stateful

import "time"

// Event is a scalar snapshot at one date: a mapping from stream name to
// value. If the mapping has exactly one key, Value returns that scalar
// directly; otherwise it returns the full mapping.
type Event struct {
	Date  time.Time
	keys  []string
	state map[string]interface{}
}

// NewEvent constructs an Event at date with an initially empty state.
func NewEvent(date time.Time) *Event {
	return &Event{Date: date, state: make(map[string]interface{})}
}

// Value returns the Event's single scalar value, or the full
// map[string]interface{} when the Event holds more than one key.
func (e *Event) Value() interface{} {
	if len(e.keys) == 1 {
		return e.state[e.keys[0]]
	}
	m := make(map[string]interface{}, len(e.state))
	for k, v := range e.state {
		m[k] = v
	}
	return m
}

// Get returns the value recorded for name, or NA if name is not present.
func (e *Event) Get(name string) interface{} {
	if v, ok := e.state[name]; ok {
		return v
	}
	return NA
}

// Set records value under name, appending name to the iteration order on
// first use.
func (e *Event) Set(name string, value interface{}) {
	if _, ok := e.state[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.state[name] = value
}

// Keys returns the Event's keys in the order they were first set.
func (e *Event) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of keys held by the Event.
func (e *Event) Len() int { return len(e.keys) }

// Project returns a new Event restricted to the given names. Names absent
// from the source Event are omitted, not filled with NA.
func (e *Event) Project(names []string) *Event {
	out := NewEvent(e.Date)
	for _, name := range names {
		if v, ok := e.state[name]; ok {
			out.Set(name, v)
		}
	}
	return out
}

// Apply calls fn with the Event and wraps the result as a new single-keyed
// Event named "value", matching CalculatedStream's scalar execution path.
func (e *Event) Apply(fn func(*Event) (interface{}, error)) (*Event, error) {
	v, err := fn(e)
	if err != nil {
		return nil, err
	}
	out := NewEvent(e.Date)
	out.Set("value", v)
	return out, nil
}

func coerceOperand(other interface{}) interface{} {
	if ev, ok := other.(*Event); ok {
		return ev.Value()
	}
	return other
}

// Binary applies a BinaryOp between this Event's value and other (a scalar
// or another *Event), forwarding to the underlying value as spec.md §4.4
// describes.
func (e *Event) Binary(op BinaryOp, other interface{}) (interface{}, error) {
	return applyBinary(op, e.Value(), coerceOperand(other))
}

// Unary applies a UnaryOp to this Event's value.
func (e *Event) Unary(op UnaryOp) (interface{}, error) {
	return applyUnary(op, e.Value())
}
