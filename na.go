package stateful

import "math"

// naType is the sentinel held by string/object-typed streams where a numeric
// stream would hold NaN. Using a distinct type (rather than overloading nil)
// keeps a present-but-null string distinguishable from an absent key.
type naType struct{}

// NA is the null value returned for missing string/object data: a default
// before a stream's start, a default after its end under non-floor
// interpolation, or a missing key in an Event.
var NA interface{} = naType{}

// IsNA reports whether v is this package's null sentinel, in any of its
// forms: the NA sentinel itself, a numeric NaN, or nil.
func IsNA(v interface{}) bool {
	switch x := v.(type) {
	case naType:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case nil:
		return true
	default:
		return false
	}
}

// defaultFor returns the neutral default value for a dtype: 0 for numeric
// dtypes, false for boolean, and NA otherwise.
func defaultFor(dtype Dtype) interface{} {
	switch dtype {
	case DtypeInteger:
		return 0
	case DtypeFloating:
		return 0.0
	case DtypeBoolean:
		return false
	default:
		return NA
	}
}
