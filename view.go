package stateful

import "time"

// SpaceView is a read-only projection of a Space onto a fixed column
// subset: it exposes Get/All/iteration but rejects mutation, surfacing
// OutOfScopeMutation. Supplements the distilled spec from
// original_source's space/space_view.py — spec.md §7 names the error kind
// this exists to raise, but the distilled spec.md never shows the
// operation that raises it.
type SpaceView struct {
	space   *Space
	columns []string
}

// View returns a read-only projection of sp restricted to columns. An
// empty columns list projects every known column.
func (sp *Space) View(columns ...string) *SpaceView {
	return &SpaceView{space: sp, columns: columns}
}

// Get evaluates the view's columns at date.
func (v *SpaceView) Get(date interface{}) (*Event, error) {
	t, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return v.space.controller.Get(t, v.columns, true)
}

// All evaluates the view's columns at every date in dates.
func (v *SpaceView) All(dates []interface{}) (*EventFrame, error) {
	normalized := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := NormalizeDate(d)
		if err != nil {
			return nil, err
		}
		normalized[i] = t
	}
	return v.space.controller.All(normalized, v.columns, true)
}

// Timestamps returns the underlying space's merged timeline.
func (v *SpaceView) Timestamps() []time.Time { return v.space.Timestamps() }

// Add always fails: a SpaceView is read-only.
func (v *SpaceView) Add(map[string]interface{}) error {
	return newError(OutOfScopeMutation, v.space.PrimaryValue, "cannot Add through a read-only Space view")
}

// Set always fails: a SpaceView is read-only.
func (v *SpaceView) Set(name string, _ interface{}) error {
	return newError(OutOfScopeMutation, name, "cannot Set through a read-only Space view")
}

// StateView is a read-only projection of a State onto a fixed column
// subset, mirroring original_source's state/state_view.py.
type StateView struct {
	state   *State
	columns []string
}

// View returns a read-only projection of s restricted to columns.
func (s *State) View(columns ...string) *StateView {
	return &StateView{state: s, columns: columns}
}

// Space returns a read-only view of the named space, or nil if it does not
// exist yet.
func (v *StateView) Space(primaryValue interface{}) *SpaceView {
	sp := v.state.Space(primaryValue)
	if sp == nil {
		return nil
	}
	return sp.View(v.columns...)
}

// Add always fails: a StateView is read-only.
func (v *StateView) Add(map[string]interface{}) error {
	return newError(OutOfScopeMutation, v.state.PrimaryKey, "cannot Add through a read-only State view")
}

// Set always fails: a StateView is read-only.
func (v *StateView) Set(name string, _ *CalculatedStream) error {
	return newError(OutOfScopeMutation, name, "cannot Set through a read-only State view")
}
