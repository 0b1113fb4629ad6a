package stateful

import (
	"time"

	"github.com/google/btree"
)

// maxDuplicateRetries bounds the increment-on-duplicate retry recursion
// (spec.md §9: "bound the retry to avoid pathological loops").
const maxDuplicateRetries = 1_000_000

const btreeDegree = 32

// timeItem is the btree.Item stored in a DateTree's primary index and
// change-tree: ordered by timestamp, carrying the value recorded at it.
type timeItem struct {
	t     time.Time
	value interface{}
}

func (a *timeItem) Less(than btree.Item) bool {
	return a.t.Before(than.(*timeItem).t)
}

// DateTree is the ordered temporal index underlying one stream: a primary
// btree (timestamp -> value), a change-tree holding only value transitions,
// and a backup map consulted before the primary index under linear
// interpolation to work around exact-hit interpolation artifacts.
type DateTree struct {
	dtype         Dtype
	interpolation Interpolation
	onDuplicate   DuplicatePolicy

	primary    *btree.BTree
	changeTree *btree.BTree
	backup     map[time.Time]interface{}

	length int

	iterating bool
	iterItems []time.Time
	iterPos   int
}

// NewDateTree constructs an empty DateTree with the given dtype and policies.
func NewDateTree(dtype Dtype, interpolation Interpolation, onDuplicate DuplicatePolicy) *DateTree {
	return &DateTree{
		dtype:         dtype,
		interpolation: interpolation,
		onDuplicate:   onDuplicate,
		primary:       btree.New(btreeDegree),
		changeTree:    btree.New(btreeDegree),
		backup:        make(map[time.Time]interface{}),
	}
}

// Dtype returns the tree's declared semantic dtype.
func (dt *DateTree) Dtype() Dtype { return dt.dtype }

// SetDtype sets the dtype of an empty tree, used for lazy dtype inference
// on a stream's first append.
func (dt *DateTree) SetDtype(dtype Dtype) { dt.dtype = dtype }

// Length returns the number of inserted points (not of value transitions).
func (dt *DateTree) Length() int { return dt.length }

// Empty reports whether the tree holds no points.
func (dt *DateTree) Empty() bool { return dt.length == 0 }

// Default returns the dtype's neutral default value.
func (dt *DateTree) Default() interface{} { return defaultFor(dt.dtype) }

// Start returns the earliest recorded timestamp, or the zero time if empty.
func (dt *DateTree) Start() time.Time {
	if dt.Empty() {
		return time.Time{}
	}
	return dt.primary.Min().(*timeItem).t
}

// End returns the latest recorded timestamp, or the zero time if empty.
func (dt *DateTree) End() time.Time {
	if dt.Empty() {
		return time.Time{}
	}
	return dt.primary.Max().(*timeItem).t
}

// First returns the value recorded at Start, or the dtype's default if empty.
func (dt *DateTree) First() interface{} {
	if dt.Empty() {
		return dt.Default()
	}
	return dt.primary.Min().(*timeItem).value
}

// Last returns the value recorded at End, or the dtype's default if empty.
func (dt *DateTree) Last() interface{} {
	if dt.Empty() {
		return dt.Default()
	}
	return dt.primary.Max().(*timeItem).value
}

// Add normalizes date, casts value to the tree's dtype, and inserts it into
// the primary index (and, if it is a transition, the change-tree). Under
// linear interpolation it is also recorded in the backup map. On a
// timestamp collision, the tree's duplicate policy decides the outcome.
func (dt *DateTree) Add(date interface{}, value interface{}) error {
	t, err := NormalizeDate(date)
	if err != nil {
		return err
	}
	if dt.dtype == DtypeUnknown && !IsNA(value) {
		dt.dtype = inferDtype(value)
	}
	cast, err := castInput(dt.dtype, value)
	if err != nil {
		return err
	}
	return dt.insert(t, cast, 0)
}

func (dt *DateTree) insert(t time.Time, value interface{}, retries int) error {
	probe := &timeItem{t: t}
	if existing := dt.primary.Get(probe); existing != nil {
		switch dt.onDuplicate {
		case DupErase:
			dt.overwrite(t, value)
			return nil
		case DupKeep:
			prior := existing.(*timeItem).value
			kept, ok := prior.([]interface{})
			if !ok {
				kept = []interface{}{prior}
			}
			dt.overwrite(t, append(kept, value))
			return nil
		default: // DupIncrement
			if retries >= maxDuplicateRetries {
				return newError(DuplicateKey, t, "exceeded %d increment retries", maxDuplicateRetries)
			}
			return dt.insert(t.Add(time.Second), value, retries+1)
		}
	}
	dt.insertFresh(t, value)
	return nil
}

func (dt *DateTree) insertFresh(t time.Time, value interface{}) {
	previous := dt.floorValue(t)
	item := &timeItem{t: t, value: value}
	dt.primary.ReplaceOrInsert(item)
	if previous == nil || !equalValues(previous, value) {
		dt.changeTree.ReplaceOrInsert(&timeItem{t: t, value: value})
	}
	if dt.interpolation == InterpLinear {
		dt.backup[t] = value
	}
	dt.length++
}

// overwrite replaces the value at an existing key (DupErase/DupKeep paths),
// without incrementing length since it resolves an existing timestamp.
func (dt *DateTree) overwrite(t time.Time, value interface{}) {
	dt.primary.ReplaceOrInsert(&timeItem{t: t, value: value})
	if prev := dt.changeTree.Get(&timeItem{t: t}); prev != nil || dt.changeTreeDiffers(t, value) {
		dt.changeTree.ReplaceOrInsert(&timeItem{t: t, value: value})
	}
	if dt.interpolation == InterpLinear {
		dt.backup[t] = value
	}
}

func (dt *DateTree) changeTreeDiffers(t time.Time, value interface{}) bool {
	previous := dt.floorValue(t)
	return previous == nil || !equalValues(previous, value)
}

// equalValues compares two stored values for the change-tree transition
// check. Non-comparable values (e.g. the []interface{} DupKeep produces)
// are treated as always different, since they have no meaningful equality.
func equalValues(a, b interface{}) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func (dt *DateTree) floorValue(t time.Time) interface{} {
	var found *timeItem
	dt.primary.DescendLessOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		found = i.(*timeItem)
		return false
	})
	if found == nil {
		return nil
	}
	return found.value
}

// Get returns the value at date per the tree's interpolation policy: the
// dtype default before Start, Last (under floor) or the default after End,
// and otherwise the interpolated value at date.
func (dt *DateTree) Get(date interface{}) (interface{}, error) {
	t, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return dt.get(t), nil
}

func (dt *DateTree) get(t time.Time) interface{} {
	return dt.at(t, false)
}

// getRange is get's counterpart for a batched All(dates) walk: it is
// otherwise identical except a floor lookup goes through the change-tree
// rather than the primary index, trading point-query correctness under
// out-of-order inserts for a structure a future range-scan could walk
// sequentially.
func (dt *DateTree) getRange(t time.Time) interface{} {
	return dt.at(t, true)
}

func (dt *DateTree) at(t time.Time, rangeQuery bool) interface{} {
	if dt.Empty() {
		return dt.Default()
	}
	start, end := dt.Start(), dt.End()
	if t.Before(start) {
		return dt.Default()
	}
	if t.After(end) {
		if dt.interpolation == InterpFloor {
			return dt.Last()
		}
		return dt.Default()
	}
	return dt.evaluate(t, rangeQuery)
}

// evaluate returns the interpolated value at a date known to be within
// [Start, End], dispatching on the tree's interpolation policy.
func (dt *DateTree) evaluate(t time.Time, rangeQuery bool) interface{} {
	switch dt.interpolation {
	case InterpCeil:
		return dt.ceilInclusive(t)
	case InterpLinear:
		return dt.linearAt(t)
	default: // InterpFloor
		if rangeQuery {
			return dt.floorInclusive(t)
		}
		return dt.floorPoint(t)
	}
}

// floorPoint answers a single-timestamp floor query directly against the
// primary index: the step-floor value at t is always the value recorded at
// or before t, regardless of the order points were inserted in. The
// change-tree (floorInclusive, below) only reflects transitions as seen at
// insert time, so it can go stale under out-of-order inserts and must not
// back a point query.
func (dt *DateTree) floorPoint(t time.Time) interface{} {
	v := dt.floorValue(t)
	if v == nil {
		return dt.Default()
	}
	return v
}

func (dt *DateTree) floorInclusive(t time.Time) interface{} {
	if v, ok := dt.backup[t]; ok && dt.interpolation == InterpLinear {
		return v
	}
	var found *timeItem
	dt.changeTree.DescendLessOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		found = i.(*timeItem)
		return false
	})
	if found == nil {
		return dt.Default()
	}
	return found.value
}

func (dt *DateTree) ceilInclusive(t time.Time) interface{} {
	var found *timeItem
	dt.primary.AscendGreaterOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		found = i.(*timeItem)
		return false
	})
	if found == nil {
		return dt.Default()
	}
	return found.value
}

// linearAt consults the backup map first (exact-hit workaround), then
// interpolates numerically between the bracketing points.
func (dt *DateTree) linearAt(t time.Time) interface{} {
	if v, ok := dt.backup[t]; ok {
		return v
	}
	var before, after *timeItem
	dt.primary.DescendLessOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		before = i.(*timeItem)
		return false
	})
	dt.primary.AscendGreaterOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		after = i.(*timeItem)
		return false
	})
	if before == nil {
		return dt.Default()
	}
	if after == nil || before.t.Equal(t) {
		return before.value
	}
	if before.t.Equal(after.t) {
		return before.value
	}
	bv, bErr := toFloat(before.value)
	av, aErr := toFloat(after.value)
	if bErr != nil || aErr != nil {
		return before.value
	}
	span := after.t.Sub(before.t).Seconds()
	frac := t.Sub(before.t).Seconds() / span
	// Stay in float64 here even for an integer-dtype tree: arithmetic over a
	// derived stream built on this value needs the raw interpolated number,
	// not a premature truncation. The integer cast happens at the Get/All
	// output boundary via castOutput.
	return bv + (av-bv)*frac
}

// Floor returns the recorded timestamp at or before date and its value, or
// the zero time and the dtype default if none exists.
func (dt *DateTree) Floor(date interface{}) (time.Time, interface{}) {
	t, err := NormalizeDate(date)
	if err != nil {
		return time.Time{}, dt.Default()
	}
	var found *timeItem
	dt.primary.DescendLessOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		found = i.(*timeItem)
		return false
	})
	if found == nil {
		return time.Time{}, dt.Default()
	}
	return found.t, found.value
}

// Ceil returns the recorded timestamp at or after date and its value, or
// the zero time and the dtype default if none exists.
func (dt *DateTree) Ceil(date interface{}) (time.Time, interface{}) {
	t, err := NormalizeDate(date)
	if err != nil {
		return time.Time{}, dt.Default()
	}
	var found *timeItem
	dt.primary.AscendGreaterOrEqual(&timeItem{t: t}, func(i btree.Item) bool {
		found = i.(*timeItem)
		return false
	})
	if found == nil {
		return time.Time{}, dt.Default()
	}
	return found.t, found.value
}

// All evaluates the tree at every date in dates, classifying each into
// before/during/after Start/End and applying the single-point rules for
// before/after; "during" dates are evaluated pointwise via the primary
// index under linear and ceil interpolation, or the change-tree under floor.
func (dt *DateTree) All(dates []time.Time) *EventColumn {
	values := make([]interface{}, len(dates))
	for i, d := range dates {
		values[i] = dt.getRange(d)
	}
	return &EventColumn{Dates: dates, Events: values, dtype: dt.dtype}
}

// Values returns every recorded value in ascending timestamp order.
func (dt *DateTree) Values() []interface{} {
	values := make([]interface{}, 0, dt.length)
	dt.primary.Ascend(func(i btree.Item) bool {
		values = append(values, i.(*timeItem).value)
		return true
	})
	return values
}

// Dates returns every recorded timestamp in ascending order.
func (dt *DateTree) Dates() []time.Time {
	dates := make([]time.Time, 0, dt.length)
	dt.primary.Ascend(func(i btree.Item) bool {
		dates = append(dates, i.(*timeItem).t)
		return true
	})
	return dates
}

// On toggles iterator mode: while on, Next walks the primary index in
// ascending order. Every acquisition via On(true) must be paired with a
// release via On(false), including on early termination.
func (dt *DateTree) On(on bool) {
	if on {
		dt.iterItems = dt.Dates()
		dt.iterPos = 0
		dt.iterating = true
	} else {
		dt.iterating = false
		dt.iterItems = nil
		dt.iterPos = 0
	}
}

// Next returns the next (date, value) pair in iterator mode, in ascending
// order, or ok=false once exhausted.
func (dt *DateTree) Next() (t time.Time, value interface{}, ok bool) {
	if !dt.iterating || dt.iterPos >= len(dt.iterItems) {
		return time.Time{}, nil, false
	}
	t = dt.iterItems[dt.iterPos]
	dt.iterPos++
	return t, dt.get(t), true
}
