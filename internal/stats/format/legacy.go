package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseThousandths reads a formatted ratio back into thousandths:
// ".300" -> 300, "1.000" -> 1000, ".30" -> 300.
func ParseThousandths(s string) (int64, error) {
	t := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(t, "."):
		t = "0" + t
	case strings.HasPrefix(t, "-."):
		t = "-0" + t[1:]
	}

	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0, &FormatError{Value: s, Reason: "not a formatted ratio"}
	}
	scaled := d.Shift(3)
	if !scaled.IsInteger() {
		return 0, &FormatError{Value: s, Reason: "more than three decimal places"}
	}
	return scaled.IntPart(), nil
}

// LegacyOPS adds two already formatted ratios digit by digit. OPS used to be
// built this way from the displayed OBP and SLG; it can differ from formatting
// OBP+SLG by one in the last place because each side was rounded first.
func LegacyOPS(obp, slg string) (string, error) {
	a, err := ParseThousandths(obp)
	if err != nil {
		return "", err
	}
	b, err := ParseThousandths(slg)
	if err != nil {
		return "", err
	}
	return Batting(decimal.New(a+b, -3).InexactFloat64()), nil
}
