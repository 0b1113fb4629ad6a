package stateful

// State is a map from primary-key value to Space, plus bulk ingestion and
// propagation of derived-stream declarations to every space.
type State struct {
	PrimaryKey    string
	TimeKey       string
	Configuration Configuration

	spaces map[interface{}]*Space
	order  []interface{}

	// seedNames holds the stream names passed to NewState, so every space
	// created afterward starts with them as known (if empty) data streams.
	seedNames []string

	// declarations records derived-stream declarations in the order they
	// were set, so a space created later replays the same declarations a
	// space created earlier already received.
	declNames   []string
	declStreams map[string]*CalculatedStream
}

// NewState constructs an empty State. streamNames seeds every space created
// afterward with those names as known (but not yet populated) data streams.
func NewState(primaryKey, timeKey string, cfg Configuration, streamNames ...string) *State {
	if cfg == nil {
		cfg = Configuration{}
	}
	s := &State{
		PrimaryKey:    primaryKey,
		TimeKey:       timeKey,
		Configuration: cfg,
		spaces:        make(map[interface{}]*Space),
		declStreams:   make(map[string]*CalculatedStream),
	}
	s.seedNames = append([]string{}, streamNames...)
	return s
}

func (s *State) space(primaryValue interface{}, create bool) *Space {
	if sp, ok := s.spaces[primaryValue]; ok {
		return sp
	}
	if !create {
		return nil
	}
	sp := NewSpace(s.PrimaryKey, primaryValue, s.TimeKey, s.Configuration)
	for _, name := range s.seedNames {
		sp.controller.EnsureStream(name, nil)
	}
	for _, name := range s.declNames {
		decl := s.declStreams[name]
		for _, dep := range decl.Dependencies {
			sp.controller.EnsureStream(dep, nil)
		}
		_ = sp.Set(name, decl.AssignTo(sp))
	}
	s.spaces[primaryValue] = sp
	s.order = append(s.order, primaryValue)
	return sp
}

// Space returns the space for primaryValue, or nil if none has been
// created yet.
func (s *State) Space(primaryValue interface{}) *Space { return s.space(primaryValue, false) }

// Spaces returns every space in the order they were first created.
func (s *State) Spaces() []*Space {
	out := make([]*Space, len(s.order))
	for i, pv := range s.order {
		out[i] = s.spaces[pv]
	}
	return out
}

// Empty reports whether every space is empty, or there are no spaces.
func (s *State) Empty() bool {
	for _, sp := range s.spaces {
		if !sp.Empty() {
			return false
		}
	}
	return true
}

// Add requires both PrimaryKey and TimeKey in event; it routes the event to
// the space identified by event[PrimaryKey], creating it on demand.
func (s *State) Add(event map[string]interface{}) error {
	primaryValue, ok := event[s.PrimaryKey]
	if !ok {
		return newError(InvalidEvent, s.PrimaryKey, "event is missing the primary key")
	}
	if _, ok := event[s.TimeKey]; !ok {
		return newError(InvalidEvent, s.TimeKey, "event is missing the time key")
	}
	sp := s.space(primaryValue, true)

	forwarded := make(map[string]interface{}, len(event)-1)
	for k, v := range event {
		if k == s.PrimaryKey {
			continue
		}
		forwarded[k] = v
	}
	return sp.Add(forwarded)
}

// Set declares a derived stream under name, propagating it to every
// existing space (each gets its own rebound copy) and recording it so
// spaces created afterward receive it too.
func (s *State) Set(name string, stream *CalculatedStream) error {
	unbound := &CalculatedStream{
		Dependencies: append([]string{}, stream.Dependencies...),
		Expr:         stream.Expr,
		Vectorized:   stream.Vectorized,
		dtype:        stream.dtype,
	}
	for _, sp := range s.Spaces() {
		for _, dep := range unbound.Dependencies {
			sp.controller.EnsureStream(dep, nil)
		}
		if err := sp.Set(name, unbound.AssignTo(sp)); err != nil {
			return err
		}
	}
	if _, exists := s.declStreams[name]; !exists {
		s.declNames = append(s.declNames, name)
	}
	s.declStreams[name] = unbound
	return nil
}

// Dep returns an unbound CalculatedStream anchored over a single named
// dependency, to be declared with Set once composed (state.Dep(x) + ...).
func (s *State) Dep(name string) *CalculatedStream {
	return &CalculatedStream{Dependencies: []string{name}}
}

// DepList returns an unbound CalculatedStream anchored over several named
// dependencies.
func (s *State) DepList(names []string) *CalculatedStream {
	return &CalculatedStream{Dependencies: names}
}

// All yields one EventFrame per space, each augmented with a column of the
// space's primary value, evaluated at every date in dates.
func (s *State) All(dates []interface{}) (map[interface{}]*EventFrame, error) {
	out := make(map[interface{}]*EventFrame, len(s.spaces))
	for _, sp := range s.Spaces() {
		frame, err := sp.All(dates)
		if err != nil {
			return nil, err
		}
		idCol := make([]interface{}, frame.Len())
		for i := range idCol {
			idCol[i] = sp.PrimaryValue
		}
		_ = frame.AddColumn(&EventColumn{Name: s.PrimaryKey, Dates: frame.Dates, Events: idCol})
		out[sp.PrimaryValue] = frame
	}
	return out, nil
}
