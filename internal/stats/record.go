package stats

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/codr1/dugout/internal/stats/format"
)

// DateLayout is the layout used for date-valued group keys.
const DateLayout = "2006-01-02"

// Record is one raw per-game stat row keyed by field name, as read from the
// store. Missing fields and nil values count as zero when summed.
type Record map[string]any

// Number returns the numeric value of field, treating absent values as zero.
func (r Record) Number(field string) (float64, error) {
	f, _, err := format.Number(r[field])
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrNonNumericField, field, err)
	}
	return f, nil
}

// Label returns field as display text, or "" when absent.
func (r Record) Label(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case sql.NullString:
		if !v.Valid {
			return ""
		}
		return v.String
	case time.Time:
		return v.Format(DateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// Key returns field normalized for partitioning: integers and integral
// floats become int64, dates become "2006-01-02" strings, and absent values
// become nil. Equal numbers therefore share one partition whatever their type.
func (r Record) Key(field string) (any, error) {
	switch v := r[field].(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintKey(field, uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintKey(field, v)
	case float32:
		return floatKey(float64(v)), nil
	case float64:
		return floatKey(v), nil
	case *int64:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case sql.NullInt64:
		if !v.Valid {
			return nil, nil
		}
		return v.Int64, nil
	case sql.NullString:
		if !v.Valid {
			return nil, nil
		}
		return v.String, nil
	case time.Time:
		return v.Format(DateLayout), nil
	default:
		return nil, fmt.Errorf("%w %q: %T", ErrUngroupableKey, field, v)
	}
}

func uintKey(field string, v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w %q: %d overflows int64", ErrUngroupableKey, field, v)
	}
	return int64(v), nil
}

// floatKey folds integral floats onto int64 so 1.0 and 1 group together.
func floatKey(v float64) any {
	if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
		return int64(v)
	}
	return v
}

// Date returns field as a calendar date. Strings must use DateLayout.
func (r Record) Date(field string) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		return truncateDay(v), true
	case string:
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// compareKeys orders group keys: nil first, numbers numerically, strings
// lexically, numbers before strings.
func compareKeys(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	af, aNum := keyNumber(a)
	bf, bNum := keyNumber(b)
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func keyNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
