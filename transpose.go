package stateful

// Transpose produces a cross-entity view: one EventFrame with one row per
// space and date (one row per space for a single date), each space's
// frame concatenated along the primary axis in space-creation order, with
// columns aligned to the union of all spaces' streams. Supplements the distilled spec from original_source's
// state_transposed.py — a caller of State's public API, not a core
// invariant.
func (s *State) Transpose(dates []interface{}) (*EventFrame, error) {
	frames, err := s.All(dates)
	if err != nil {
		return nil, err
	}
	var out *EventFrame
	for _, pv := range s.order {
		frame := frames[pv]
		if out == nil {
			out = frame
			continue
		}
		out = out.Concat(frame)
	}
	if out == nil {
		out = NewEventFrame(nil)
	}
	return out, nil
}
