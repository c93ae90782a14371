package format

import (
	"errors"
	"strconv"
	"testing"
)

func TestNotationOuts(t *testing.T) {
	tests := []struct {
		name    string
		ip      float64
		want    int64
		wantErr bool
	}{
		{name: "whole", ip: 6.0, want: 18},
		{name: "one_out", ip: 0.1, want: 1},
		{name: "two_outs", ip: 6.2, want: 20},
		{name: "zero", ip: 0, want: 0},
		{name: "three_tenths", ip: 6.3, wantErr: true},
		{name: "hundredths", ip: 6.25, wantErr: true},
		{name: "negative", ip: -1, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := NotationOuts(test.ip)
			if test.wantErr {
				if !errors.Is(err, ErrIllegalInnings) {
					t.Fatalf("NotationOuts(%v) error = %v, want ErrIllegalInnings", test.ip, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NotationOuts(%v) error = %v", test.ip, err)
			}
			if got != test.want {
				t.Fatalf("NotationOuts(%v) = %d, want %d", test.ip, got, test.want)
			}
		})
	}
}

func TestInnings(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "zero", value: 0, want: "0.0"},
		{name: "one_out", value: 1.0 / 3.0, want: "0.1"},
		{name: "exact_two_outs", value: 20.0 / 3.0, want: "6.2"},
		{name: "average_rounds_to_two_outs", value: 6.67, want: "6.2"},
		{name: "half_out_rounds_up", value: 6.5, want: "6.2"},
		{name: "rounds_down_to_whole", value: 6.1, want: "6.0"},
		{name: "rounds_up_to_one_out", value: 6.17, want: "6.1"},
		{name: "carries_into_next_inning", value: 6.9, want: "7.0"},
		{name: "whole", value: 7, want: "7.0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Innings(test.value); got != test.want {
				t.Fatalf("Innings(%v) = %q, want %q", test.value, got, test.want)
			}
		})
	}
}

func TestInningsRoundTripsLegalNotation(t *testing.T) {
	for _, ip := range []float64{0, 0.1, 0.2, 1, 5.1, 6.2, 9, 12.2} {
		if err := ValidateInningsPitched(ip); err != nil {
			t.Fatalf("ValidateInningsPitched(%v) error = %v", ip, err)
		}
		outs, err := NotationOuts(ip)
		if err != nil {
			t.Fatalf("NotationOuts(%v) error = %v", ip, err)
		}
		want := strconv.FormatFloat(ip, 'f', 1, 64)
		if got := Innings(OutsToInnings(outs)); got != want {
			t.Fatalf("Innings(OutsToInnings(%d)) = %q, want %q", outs, got, want)
		}
	}
}

func TestFormatInnings(t *testing.T) {
	twenty := OutsToInnings(20)
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "0.0"},
		{name: "whole_int", value: 7, want: "7.0"},
		{name: "twenty_outs", value: twenty, want: "6.2"},
		{name: "pointer", value: &twenty, want: "6.2"},
		{name: "numeric_string", value: "6.5", want: "6.2"},
		{name: "one_out", value: float32(1) / 3, want: "0.1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := FormatInnings(test.value)
			if err != nil {
				t.Fatalf("FormatInnings(%v) error = %v", test.value, err)
			}
			if got != test.want {
				t.Fatalf("FormatInnings(%v) = %q, want %q", test.value, got, test.want)
			}
		})
	}
}

func TestFormatInningsFromNotation(t *testing.T) {
	outs, err := NotationOuts(6.2)
	if err != nil {
		t.Fatalf("NotationOuts(6.2) error = %v", err)
	}
	got, err := FormatInnings(OutsToInnings(outs))
	if err != nil || got != "6.2" {
		t.Fatalf("FormatInnings(notation 6.2) = %q, %v", got, err)
	}
}
