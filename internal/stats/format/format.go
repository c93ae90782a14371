// Package format renders derived stats the way a box score prints them.
//
// Batting-style values carry three places and drop the leading zero below one
// (".300", "1.000"). Pitching-style values carry two places and also drop the
// leading zero, except that zero itself prints as "0.00". Rounding is half away
// from zero on the shortest decimal form of the float, so 0.3335 prints ".334".
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	battingPlaces  = 3
	pitchingPlaces = 2
)

var one = decimal.NewFromInt(1)

// Batting formats an average-style ratio: 0.3 -> ".300", 1.1 -> "1.100", 0 -> ".000".
func Batting(v float64) string {
	return fixed(v, battingPlaces, false)
}

// Pitching formats an ERA/WHIP-style ratio: 0 -> "0.00", 0.3 -> ".30", 1.1 -> "1.10".
func Pitching(v float64) string {
	return fixed(v, pitchingPlaces, true)
}

// Signed formats a whole-number differential with an explicit plus sign.
func Signed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	n := int64(math.Round(v))
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// FormatBatting is Batting for raw values. nil formats as ".000".
func FormatBatting(v any) (string, error) {
	f, _, err := Number(v)
	if err != nil {
		return "", err
	}
	return Batting(f), nil
}

// FormatPitching is Pitching for raw values. nil formats as "0.00".
func FormatPitching(v any) (string, error) {
	f, _, err := Number(v)
	if err != nil {
		return "", err
	}
	return Pitching(f), nil
}

// fixed rounds first and then decides on the leading zero, so 0.9996 becomes
// "1.000" and never ".1000".
func fixed(v float64, places int32, zeroKeepsLeading bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	d := decimal.NewFromFloat(v).Round(places)
	if d.IsZero() {
		zeros := strings.Repeat("0", int(places))
		if zeroKeepsLeading {
			return "0." + zeros
		}
		return "." + zeros
	}

	s := d.StringFixed(places)
	if d.Abs().LessThan(one) {
		s = strings.Replace(s, "0.", ".", 1)
	}
	return s
}
