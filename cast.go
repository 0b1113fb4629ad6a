package stateful

import "fmt"

// castInput coerces a value being appended to a stream into its declared
// dtype's storage representation. NA values pass through untouched.
func castInput(dtype Dtype, value interface{}) (interface{}, error) {
	if IsNA(value) {
		return value, nil
	}
	switch dtype {
	case DtypeInteger:
		return toInt(value)
	case DtypeFloating:
		return toFloat(value)
	case DtypeBoolean:
		return toBool(value)
	case DtypeString:
		return toString(value)
	default:
		return value, nil
	}
}

// castOutput maps a stored or computed value to its dtype's output
// representation: integer -> int, boolean -> bool, everything else
// passes through unchanged. NA values pass through untouched.
func castOutput(dtype Dtype, value interface{}) interface{} {
	if IsNA(value) {
		return value
	}
	switch dtype {
	case DtypeInteger:
		if v, err := toInt(value); err == nil {
			return v
		}
		return value
	case DtypeBoolean:
		if v, err := toBool(value); err == nil {
			return v
		}
		return value
	default:
		return value
	}
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, newError(TypeMismatch, value, "cannot cast %T to integer", value)
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, newError(TypeMismatch, value, "cannot cast %T to floating", value)
	}
}

func toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, newError(TypeMismatch, value, "cannot cast %T to boolean", value)
	}
}

func toString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}
