package stats

import (
	"errors"
	"testing"
)

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			name: "valid",
			def: Definition{
				Name:   "ok",
				Sums:   sums(H, AB),
				Ratios: []Ratio{avgRatio},
			},
		},
		{
			name:    "missing_name",
			def:     Definition{Sums: sums(H)},
			wantErr: true,
		},
		{
			name:    "no_sums",
			def:     Definition{Name: "empty"},
			wantErr: true,
		},
		{
			name: "ratio_references_absent_field",
			def: Definition{
				Name:   "absent",
				Sums:   sums(H),
				Ratios: []Ratio{avgRatio},
			},
			wantErr: true,
		},
		{
			name: "ratio_references_later_ratio",
			def: Definition{
				Name:   "order",
				Sums:   sums(AB, PA, H, Double, Triple, HR, BB, HBP, SF),
				Ratios: []Ratio{opsRatio, obpRatio, slgRatio},
			},
			wantErr: true,
		},
		{
			name: "ratio_references_earlier_ratio",
			def: Definition{
				Name:   "ops",
				Sums:   sums(AB, H, Double, Triple, HR, BB, HBP, SF),
				Ratios: []Ratio{obpRatio, slgRatio, opsRatio},
			},
		},
		{
			name: "ratio_references_label",
			def: Definition{
				Name:        "label",
				Projections: []Projection{playerLabel},
				Sums:        sums(H),
				Ratios: []Ratio{{
					Name:        "bad",
					Numerator:   terms(H),
					Denominator: terms(FieldPlayerName),
					Style:       StyleBatting,
				}},
			},
			wantErr: true,
		},
		{
			name: "ratio_references_count_projection",
			def: Definition{
				Name:        "per_game",
				Projections: []Projection{gamesPlayed},
				Sums:        sums(H),
				Ratios: []Ratio{{
					Name:        "HPG",
					Numerator:   terms(H),
					Denominator: terms(G),
					Style:       StylePitching,
				}},
			},
		},
		{
			name: "duplicate_field",
			def: Definition{
				Name: "dup",
				Sums: sums(H, H),
			},
			wantErr: true,
		},
		{
			name: "bad_style",
			def: Definition{
				Name:   "style",
				Sums:   sums(H, AB),
				Ratios: []Ratio{{Name: "x", Numerator: terms(H), Denominator: terms(AB), Style: "fancy"}},
			},
			wantErr: true,
		},
		{
			name: "zero_weight",
			def: Definition{
				Name:   "weight",
				Sums:   sums(H, AB),
				Ratios: []Ratio{{Name: "x", Numerator: []Term{{Field: H}}, Denominator: terms(AB), Style: StyleBatting}},
			},
			wantErr: true,
		},
		{
			name: "bad_sum_kind",
			def: Definition{
				Name: "kind",
				Sums: []SumField{{Name: IP, Kind: "thirds"}},
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.def.Validate()
			if test.wantErr {
				if !errors.Is(err, ErrInvalidDefinition) {
					t.Fatalf("expected ErrInvalidDefinition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefinitionColumns(t *testing.T) {
	def := Definition{
		Name:        "cols",
		Projections: []Projection{playerLabel},
		Sums:        sums(AB, H),
		Ratios:      []Ratio{avgRatio},
	}
	got := def.Columns()
	want := []string{FieldPlayerName, AB, H, AVG}
	if len(got) != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Columns() = %v, want %v", got, want)
		}
	}
}
