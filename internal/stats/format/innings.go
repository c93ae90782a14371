package format

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrIllegalInnings is returned for innings-pitched notation whose fractional
// part is not .0, .1 or .2.
var ErrIllegalInnings = errors.New("innings pitched must end in .0, .1 or .2")

var three = decimal.NewFromInt(3)

// NotationOuts converts box-score innings notation to outs. The digit after the
// point counts outs, not tenths: 6.2 is six innings and two outs, 20 outs.
func NotationOuts(ip float64) (int64, error) {
	if math.IsNaN(ip) || math.IsInf(ip, 0) || ip < 0 {
		return 0, fmt.Errorf("%w: %v", ErrIllegalInnings, ip)
	}

	d := decimal.NewFromFloat(ip)
	whole := d.Truncate(0)
	partial := d.Sub(whole).Shift(1)
	if !partial.IsInteger() || partial.IntPart() > 2 {
		return 0, fmt.Errorf("%w: %v", ErrIllegalInnings, ip)
	}
	return whole.IntPart()*3 + partial.IntPart(), nil
}

// ValidateInningsPitched rejects values that cannot be stored as a pitching line.
func ValidateInningsPitched(ip float64) error {
	_, err := NotationOuts(ip)
	return err
}

// OutsToInnings returns the true (base ten) innings for an out count.
func OutsToInnings(outs int64) float64 {
	return float64(outs) / 3
}

// Innings renders true innings in box-score notation. Values that fall between
// outs, such as an average of 6.67 innings per start, round to the nearest out
// with halves going up: 6.67 -> "6.2", 6.5 -> "6.2", 6.1 -> "6.0".
func Innings(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	outs := decimal.NewFromFloat(math.Abs(v)).Mul(three).Round(0).IntPart()
	sign := ""
	if v < 0 && outs > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%d", sign, outs/3, outs%3)
}

// FormatInnings formats a true (base ten) innings value of any numeric type,
// so 20 outs arrive as 6.666..., not 6.2. nil formats as "0.0". Persisted
// box-score notation goes through NotationOuts and OutsToInnings first.
func FormatInnings(v any) (string, error) {
	f, _, err := Number(v)
	if err != nil {
		return "", err
	}
	return Innings(f), nil
}
