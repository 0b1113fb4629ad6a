package stateful

import "time"

// Stream is a named, dtype'd time-series held in a DateTree: the thin
// identity label spec.md §4.2 describes over the temporal index.
type Stream struct {
	name   string
	config StreamConfig
	tree   *DateTree
	// seq records insertion order among a controller's streams, used as a
	// stable tie-break when the merged iterator sees identical timestamps
	// across two streams (spec.md §9 Open Question (c)).
	seq int
}

// NewStream constructs a named stream with the given configuration. Its
// dtype is set from config.Dtype if not DtypeUnknown, or otherwise inferred
// from the first value appended to it.
func NewStream(name string, config StreamConfig) *Stream {
	return &Stream{
		name:   name,
		config: config,
		tree:   NewDateTree(config.Dtype, config.Interpolation, config.OnDuplicate),
	}
}

// Name returns the stream's identity label.
func (s *Stream) Name() string { return s.name }

// Dtype returns the stream's semantic dtype.
func (s *Stream) Dtype() Dtype { return s.tree.Dtype() }

// Start returns the stream's earliest recorded timestamp.
func (s *Stream) Start() time.Time { return s.tree.Start() }

// End returns the stream's latest recorded timestamp.
func (s *Stream) End() time.Time { return s.tree.End() }

// First returns the value recorded at Start.
func (s *Stream) First() interface{} { return s.tree.First() }

// Last returns the value recorded at End.
func (s *Stream) Last() interface{} { return s.tree.Last() }

// Length returns the number of points recorded in the stream.
func (s *Stream) Length() int { return s.tree.Length() }

// Empty reports whether the stream has recorded any point.
func (s *Stream) Empty() bool { return s.tree.Empty() }

// Values returns every recorded value in ascending timestamp order.
func (s *Stream) Values() []interface{} { return s.tree.Values() }

// Dates returns every recorded timestamp in ascending order.
func (s *Stream) Dates() []time.Time { return s.tree.Dates() }

// Add appends a value at date, inferring the stream's dtype from this value
// if it is not yet known.
func (s *Stream) Add(date interface{}, value interface{}) error {
	return s.tree.Add(date, value)
}

// Get returns the value at date per the stream's interpolation policy, cast
// to its dtype unless cast is false.
func (s *Stream) Get(date interface{}, cast bool) (interface{}, error) {
	v, err := s.tree.Get(date)
	if err != nil {
		return nil, err
	}
	if cast {
		return castOutput(s.Dtype(), v), nil
	}
	return v, nil
}

// All evaluates the stream at every date in dates, producing an EventColumn.
func (s *Stream) All(dates []time.Time, cast bool) *EventColumn {
	col := s.tree.All(dates)
	col.Name = s.name
	if cast {
		return col.Cast(s.Dtype())
	}
	return col
}

// Floor returns the recorded (timestamp, value) at or before date.
func (s *Stream) Floor(date interface{}) (time.Time, interface{}) { return s.tree.Floor(date) }

// Ceil returns the recorded (timestamp, value) at or after date.
func (s *Stream) Ceil(date interface{}) (time.Time, interface{}) { return s.tree.Ceil(date) }

// On toggles iterator mode on the underlying tree.
func (s *Stream) On(on bool) { s.tree.On(on) }

// Next advances the stream's iterator, returning ok=false once exhausted.
func (s *Stream) Next() (time.Time, interface{}, bool) { return s.tree.Next() }
