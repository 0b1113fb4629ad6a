package stateful

import (
	"container/heap"
	"time"
)

// StreamController owns the streams of one space: it answers Get/All by
// executing the space's StreamGraph, and provides the k-way merged
// iterator over all data streams.
type StreamController struct {
	config  Configuration
	graph   *StreamGraph
	streams map[string]interface{} // *Stream or *CalculatedStream
	order   []string
	nextSeq int
}

// NewStreamController constructs an empty controller under config.
func NewStreamController(config Configuration) *StreamController {
	return &StreamController{
		config:  config,
		graph:   NewStreamGraph(),
		streams: make(map[string]interface{}),
	}
}

// Contains reports whether name is a known stream.
func (sc *StreamController) Contains(name string) bool {
	_, ok := sc.streams[name]
	return ok
}

// dataStreams returns every plain (non-derived) Stream, in insertion order.
func (sc *StreamController) dataStreams() []*Stream {
	var out []*Stream
	for _, name := range sc.order {
		if s, ok := sc.streams[name].(*Stream); ok {
			out = append(out, s)
		}
	}
	return out
}

// streamOf returns the plain Stream registered under name, if any.
func (sc *StreamController) streamOf(name string) (*Stream, bool) {
	s, ok := sc.streams[name].(*Stream)
	return s, ok
}

// nodeDtype returns the dtype of whichever kind of node is registered under
// name, regardless of whether it is a data or derived stream.
func (sc *StreamController) nodeDtype(name string) Dtype {
	switch v := sc.streams[name].(type) {
	case *Stream:
		return v.Dtype()
	case *CalculatedStream:
		return v.Dtype()
	default:
		return DtypeUnknown
	}
}

// nodeBounds returns the start/end/empty state of whichever kind of node is
// registered under name.
func (sc *StreamController) nodeBounds(name string) (start, end time.Time, empty bool, ok bool) {
	switch v := sc.streams[name].(type) {
	case *Stream:
		return v.Start(), v.End(), v.Empty(), true
	case *CalculatedStream:
		st, _ := v.Start()
		en, _ := v.End()
		return st, en, v.Empty(), true
	default:
		return time.Time{}, time.Time{}, true, false
	}
}

// Start returns the earliest timestamp across every data stream. Fails with
// EmptyQuery if the controller has no data streams.
func (sc *StreamController) Start() (time.Time, error) {
	streams := sc.dataStreams()
	if len(streams) == 0 {
		return time.Time{}, newError(EmptyQuery, nil, "no data streams")
	}
	var start time.Time
	for _, s := range streams {
		if s.Empty() {
			continue
		}
		if start.IsZero() || s.Start().Before(start) {
			start = s.Start()
		}
	}
	return start, nil
}

// End returns the latest timestamp across every data stream. Fails with
// EmptyQuery if the controller has no data streams.
func (sc *StreamController) End() (time.Time, error) {
	streams := sc.dataStreams()
	if len(streams) == 0 {
		return time.Time{}, newError(EmptyQuery, nil, "no data streams")
	}
	var end time.Time
	for _, s := range streams {
		if s.Empty() {
			continue
		}
		if end.IsZero() || s.End().After(end) {
			end = s.End()
		}
	}
	return end, nil
}

// Empty reports whether no data stream has any recorded point (spec.md §9
// Open Question (a)'s adopted resolution).
func (sc *StreamController) Empty() bool {
	for _, s := range sc.dataStreams() {
		if !s.Empty() {
			return false
		}
	}
	return true
}

func (sc *StreamController) streamConfig(name string) StreamConfig {
	cfg := sc.config.lookup(name)
	return cfg
}

// EnsureStream creates a plain Stream under name if one is not already
// registered, inferring its dtype from sample if not configured, and wires
// a root-edge node into the graph.
func (sc *StreamController) EnsureStream(name string, sample interface{}) {
	if sc.Contains(name) {
		return
	}
	cfg := sc.streamConfig(name)
	if cfg.Dtype == DtypeUnknown && sample != nil && !IsNA(sample) {
		cfg.Dtype = inferDtype(sample)
	}
	s := NewStream(name, cfg)
	sc.addStream(name, s, nil)
}

// AddStream registers stream under name with the given dependencies as its
// graph edges. For a CalculatedStream, a nil dependencies list is replaced
// by the stream's own Dependencies.
func (sc *StreamController) AddStream(name string, stream interface{}, dependencies []string) error {
	if cs, ok := stream.(*CalculatedStream); ok && dependencies == nil {
		dependencies = cs.Dependencies
	}
	return sc.addStreamChecked(name, stream, dependencies)
}

func (sc *StreamController) addStreamChecked(name string, stream interface{}, dependencies []string) error {
	if err := sc.graph.Add(name, dependencies); err != nil {
		return err
	}
	sc.registerStream(name, stream)
	return nil
}

// addStream is the infallible path used for plain data streams, whose
// dependencies are always empty and can never fail graph registration.
func (sc *StreamController) addStream(name string, stream interface{}, dependencies []string) {
	_ = sc.graph.Add(name, dependencies)
	sc.registerStream(name, stream)
}

func (sc *StreamController) registerStream(name string, stream interface{}) {
	if _, exists := sc.streams[name]; !exists {
		sc.order = append(sc.order, name)
	}
	if s, ok := stream.(*Stream); ok {
		s.seq = sc.nextSeq
		sc.nextSeq++
	}
	sc.streams[name] = stream
}

// Get walks the graph in execution order restricted to cols (or every
// column), assembling an Event. Derived nodes are resolved via Calculate
// against the running snapshot; data nodes via Stream.Get. When cols is
// empty, registered streams not produced by the walk are filled with NA.
// The final per-key cast is skipped when cast is false.
func (sc *StreamController) Get(date time.Time, cols []string, cast bool) (*Event, error) {
	state := NewEvent(date)
	for _, node := range sc.graph.ExecutionOrder(cols) {
		stream, ok := sc.streams[node.Name]
		if !ok {
			return nil, newError(UnknownDependency, node.Name, "stream not registered")
		}
		if len(node.Dependencies) > 0 || isCalculated(stream) {
			cs, ok := stream.(*CalculatedStream)
			if !ok {
				return nil, newError(UnknownDependency, node.Name, "expected a derived stream")
			}
			snapshot := state.Project(node.Dependencies)
			result, err := cs.Calculate(snapshot)
			if err != nil {
				return nil, err
			}
			state.Set(node.Name, result.Value())
		} else {
			s := stream.(*Stream)
			v, err := s.Get(date, false)
			if err != nil {
				return nil, err
			}
			state.Set(node.Name, v)
		}
	}

	if len(cols) == 0 {
		for name := range sc.streams {
			if _, ok := state.state[name]; !ok {
				state.Set(name, NA)
			}
		}
	}

	if cast {
		for _, name := range state.Keys() {
			state.Set(name, castOutput(sc.nodeDtype(name), state.Get(name)))
		}
	}
	return state, nil
}

func isCalculated(stream interface{}) bool {
	_, ok := stream.(*CalculatedStream)
	return ok
}

// All performs the same walk as Get, batched over dates, producing an
// EventFrame. When cols is empty, missing columns are filled with
// NA-columns of length len(dates).
func (sc *StreamController) All(dates []time.Time, cols []string, cast bool) (*EventFrame, error) {
	frame := NewEventFrame(dates)
	for _, node := range sc.graph.ExecutionOrder(cols) {
		stream, ok := sc.streams[node.Name]
		if !ok {
			return nil, newError(UnknownDependency, node.Name, "stream not registered")
		}
		if len(node.Dependencies) > 0 || isCalculated(stream) {
			cs, ok := stream.(*CalculatedStream)
			if !ok {
				return nil, newError(UnknownDependency, node.Name, "expected a derived stream")
			}
			sub := frame.Project(node.Dependencies)
			col, err := cs.CalculateVector(sub, node.Name)
			if err != nil {
				return nil, err
			}
			if err := frame.AddColumn(col); err != nil {
				return nil, err
			}
		} else {
			s := stream.(*Stream)
			col := s.All(dates, false)
			if err := frame.AddColumn(col); err != nil {
				return nil, err
			}
		}
	}

	if len(cols) == 0 {
		for name := range sc.streams {
			if frame.Column(name) == nil {
				_ = frame.AddColumn(frame.EmptyColumn(name))
			}
		}
	}

	if cast {
		for _, name := range frame.Columns() {
			col := frame.Column(name)
			_ = frame.AddColumn(col.Cast(sc.nodeDtype(name)))
		}
	}
	return frame, nil
}

// On toggles iterator mode on every data stream.
func (sc *StreamController) On(on bool) {
	for _, s := range sc.dataStreams() {
		s.On(on)
	}
}

// mergeItem is one entry in the controller's k-way merge heap: the next
// unread timestamp from one data stream, tagged with that stream's
// insertion sequence number for a stable tie-break (spec.md §9 Open
// Question (c)).
type mergeItem struct {
	t      time.Time
	seq    int
	stream *Stream
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].t.Equal(h[j].t) {
		return h[i].seq < h[j].seq
	}
	return h[i].t.Before(h[j].t)
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Timestamps returns every timestamp present in any data stream, in
// ascending order with no duplicates, merging each stream's primary index
// via a k-way heap merge under scoped iterator-mode acquisition: On(true)
// is paired with On(false) on every exit path, including early return.
func (sc *StreamController) Timestamps() []time.Time {
	streams := sc.dataStreams()
	if len(streams) == 0 {
		return nil
	}

	sc.On(true)
	defer sc.On(false)

	h := &mergeHeap{}
	heap.Init(h)
	for _, s := range streams {
		if t, v, ok := s.Next(); ok {
			_ = v
			heap.Push(h, mergeItem{t: t, seq: s.seq, stream: s})
		}
	}

	var out []time.Time
	for h.Len() > 0 {
		item := heap.Pop(h).(mergeItem)
		if len(out) == 0 || !out[len(out)-1].Equal(item.t) {
			out = append(out, item.t)
		}
		if t, _, ok := item.stream.Next(); ok {
			heap.Push(h, mergeItem{t: t, seq: item.stream.seq, stream: item.stream})
		}
	}
	return out
}
