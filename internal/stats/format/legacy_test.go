package format

import "testing"

func TestParseThousandths(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: ".300", want: 300},
		{input: "1.000", want: 1000},
		{input: "0.00", want: 0},
		{input: ".30", want: 300},
		{input: "-.250", want: -250},
		{input: "abc", wantErr: true},
		{input: ".3333", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseThousandths(test.input)
		if test.wantErr {
			if err == nil {
				t.Fatalf("ParseThousandths(%q) expected error", test.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseThousandths(%q) error = %v", test.input, err)
		}
		if got != test.want {
			t.Fatalf("ParseThousandths(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

// The string-combined OPS is locked here so the float-addition OPS can be
// compared against it.
func TestLegacyOPSMatchesFloatAddition(t *testing.T) {
	tests := []struct {
		obp  float64
		slg  float64
		want string
	}{
		{obp: 0.35, slg: 0.45, want: ".800"},
		{obp: 0.5, slg: 0.6, want: "1.100"},
		{obp: 0.4, slg: 0.6, want: "1.000"},
		{obp: 0, slg: 0, want: ".000"},
		{obp: 1.0 / 3.0, slg: 0.5, want: ".833"},
	}

	for _, test := range tests {
		legacy, err := LegacyOPS(Batting(test.obp), Batting(test.slg))
		if err != nil {
			t.Fatalf("LegacyOPS error = %v", err)
		}
		if legacy != test.want {
			t.Fatalf("LegacyOPS(%v, %v) = %q, want %q", test.obp, test.slg, legacy, test.want)
		}
		if got := Batting(test.obp + test.slg); got != test.want {
			t.Fatalf("Batting(%v + %v) = %q, want %q", test.obp, test.slg, got, test.want)
		}
	}
}

func TestLegacyOPSRoundsEachSideFirst(t *testing.T) {
	obp, slg := 0.3504, 0.4504

	legacy, err := LegacyOPS(Batting(obp), Batting(slg))
	if err != nil {
		t.Fatalf("LegacyOPS error = %v", err)
	}
	if legacy != ".800" {
		t.Fatalf("LegacyOPS = %q, want .800", legacy)
	}
	if got := Batting(obp + slg); got != ".801" {
		t.Fatalf("Batting(obp+slg) = %q, want .801", got)
	}
}
