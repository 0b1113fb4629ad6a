package stateful

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
)

// NormalizeDate reduces any of the accepted timestamp representations
// (time.Time, civil.Date, a parseable string, or Unix seconds) to a single
// UTC instant truncated to second resolution. All comparisons and equality
// inside this package use this normalized value.
func NormalizeDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return normalizeTime(v), nil
	case civil.Date:
		return normalizeTime(v.In(time.UTC)), nil
	case string:
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return time.Time{}, newError(TypeMismatch, v, "cannot parse %q as a timestamp: %v", v, err)
		}
		return normalizeTime(t), nil
	case int:
		return normalizeTime(time.Unix(int64(v), 0)), nil
	case int64:
		return normalizeTime(time.Unix(v, 0)), nil
	case float64:
		return normalizeTime(time.Unix(int64(v), 0)), nil
	default:
		return time.Time{}, newError(TypeMismatch, value, "unsupported timestamp representation %T", value)
	}
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// mustNormalize is used internally where the caller has already validated the
// input shape and a parse failure would indicate a programming error.
func mustNormalize(value interface{}) time.Time {
	t, err := NormalizeDate(value)
	if err != nil {
		panic(fmt.Sprintf("stateful: invariant violated, could not normalize %v: %v", value, err))
	}
	return t
}
