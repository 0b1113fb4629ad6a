package stateful

import "time"

// Space is one entity's store: its primary identity plus the
// StreamController owning its streams.
type Space struct {
	PrimaryKey   string
	PrimaryValue interface{}
	TimeKey      string

	controller *StreamController
}

// NewSpace constructs a Space identified by (primaryKey, primaryValue),
// with events timestamped under timeKey, and per-stream configuration cfg.
func NewSpace(primaryKey string, primaryValue interface{}, timeKey string, cfg Configuration) *Space {
	return &Space{
		PrimaryKey:   primaryKey,
		PrimaryValue: primaryValue,
		TimeKey:      timeKey,
		controller:   NewStreamController(cfg),
	}
}

// Add requires TimeKey to be present in event; it pops the timestamp and
// forwards every remaining (name, value) pair to that name's stream,
// creating the stream on first mention.
func (sp *Space) Add(event map[string]interface{}) error {
	rawDate, ok := event[sp.TimeKey]
	if !ok {
		return newError(InvalidEvent, sp.TimeKey, "event is missing the time key")
	}
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return err
	}
	for name, value := range event {
		if name == sp.TimeKey {
			continue
		}
		sp.controller.EnsureStream(name, value)
		s, _ := sp.controller.streamOf(name)
		if s != nil {
			if err := s.Add(date, value); err != nil {
				return err
			}
			continue
		}
		// name resolved to a derived stream (set via Set): forward through it.
		cs, ok := sp.controller.streams[name].(*CalculatedStream)
		if !ok {
			return newError(UnknownDependency, name, "stream is neither a data stream nor a derived stream")
		}
		if err := cs.Add(date, value); err != nil {
			return err
		}
	}
	return nil
}

// Get obtains an Event at date from the controller, optionally augmented
// with the event's date and the space's primary identifier. opts can
// disable the final per-key dtype cast via WithoutCast.
func (sp *Space) Get(date interface{}, includeDate, includeID bool, opts ...GetOption) (*Event, error) {
	cfg := newGetConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	t, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	event, err := sp.controller.Get(t, nil, cfg.cast)
	if err != nil {
		return nil, err
	}
	if includeDate {
		event.Set("date", t)
	}
	if includeID {
		event.Set(sp.PrimaryKey, sp.PrimaryValue)
	}
	return event, nil
}

// All delegates to the controller, evaluating every stream at every date.
// opts can disable the final per-column dtype cast via WithoutCast.
func (sp *Space) All(dates []interface{}, opts ...GetOption) (*EventFrame, error) {
	cfg := newGetConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	normalized := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := NormalizeDate(d)
		if err != nil {
			return nil, err
		}
		normalized[i] = t
	}
	return sp.controller.All(normalized, nil, cfg.cast)
}

// Set installs stream (a plain Stream or a CalculatedStream) under name. A
// parent-less CalculatedStream is bound to this space first.
func (sp *Space) Set(name string, stream interface{}) error {
	if cs, ok := stream.(*CalculatedStream); ok {
		if cs.Parent() == nil {
			cs = cs.AssignTo(sp)
		}
		return sp.controller.AddStream(name, cs, nil)
	}
	return sp.controller.AddStream(name, stream, nil)
}

// Dep returns a CalculatedStream anchored to this space over a single
// named dependency, for convenience slicing (space.Dep("amount")).
func (sp *Space) Dep(name string) *CalculatedStream {
	sp.controller.EnsureStream(name, nil)
	return &CalculatedStream{Dependencies: []string{name}, parent: sp}
}

// DepList returns a CalculatedStream anchored to this space over several
// named dependencies.
func (sp *Space) DepList(names []string) *CalculatedStream {
	for _, name := range names {
		sp.controller.EnsureStream(name, nil)
	}
	return &CalculatedStream{Dependencies: names, parent: sp}
}

// Empty reports whether no data stream in this space has any recorded
// point.
func (sp *Space) Empty() bool { return sp.controller.Empty() }

// Timestamps returns every timestamp recorded across this space's data
// streams, merged in ascending order with no duplicates.
func (sp *Space) Timestamps() []time.Time { return sp.controller.Timestamps() }

// Rows returns one Event per timestamp over the space's merged timeline.
func (sp *Space) Rows() ([]*Event, error) {
	timestamps := sp.Timestamps()
	out := make([]*Event, len(timestamps))
	for i, t := range timestamps {
		event, err := sp.controller.Get(t, nil, true)
		if err != nil {
			return nil, err
		}
		out[i] = event
	}
	return out, nil
}
