package format

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatError reports a value that cannot be read as a number. It means bad
// raw data reached the stats layer; nil is never a FormatError.
type FormatError struct {
	Value  any
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %v (%T): %s", e.Value, e.Value, e.Reason)
}

// Number coerces a raw stat value to float64. ok is false when the value is
// absent (nil, a nil pointer, or an invalid sql.Null*), which callers count as zero.
func Number(v any) (f float64, ok bool, err error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return finite(v, n)
	case float32:
		return finite(v, float64(n))
	case int:
		return float64(n), true, nil
	case int8:
		return float64(n), true, nil
	case int16:
		return float64(n), true, nil
	case int32:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint:
		return float64(n), true, nil
	case uint8:
		return float64(n), true, nil
	case uint16:
		return float64(n), true, nil
	case uint32:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case *float64:
		if n == nil {
			return 0, false, nil
		}
		return finite(v, *n)
	case *int:
		if n == nil {
			return 0, false, nil
		}
		return float64(*n), true, nil
	case *int64:
		if n == nil {
			return 0, false, nil
		}
		return float64(*n), true, nil
	case sql.NullInt64:
		if !n.Valid {
			return 0, false, nil
		}
		return float64(n.Int64), true, nil
	case sql.NullInt32:
		if !n.Valid {
			return 0, false, nil
		}
		return float64(n.Int32), true, nil
	case sql.NullFloat64:
		if !n.Valid {
			return 0, false, nil
		}
		return finite(v, n.Float64)
	case decimal.Decimal:
		return finite(v, n.InexactFloat64())
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false, &FormatError{Value: v, Reason: "not a number"}
		}
		return finite(v, parsed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false, &FormatError{Value: v, Reason: "not a number"}
		}
		return finite(v, parsed)
	default:
		return 0, false, &FormatError{Value: v, Reason: "unsupported type"}
	}
}

func finite(raw any, f float64) (float64, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, &FormatError{Value: raw, Reason: "not finite"}
	}
	return f, true, nil
}
