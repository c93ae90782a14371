package stats

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SumKind selects how a summed field accumulates across rows.
type SumKind string

const (
	// SumCount adds raw values.
	SumCount SumKind = "count"
	// SumInnings converts each row's baseball innings notation (6.2 = six and
	// two thirds) to outs before adding, and reports true innings.
	SumInnings SumKind = "innings"
)

// ProjectionKind selects how a passthrough column is derived from a partition.
type ProjectionKind string

const (
	// ProjectLabel carries the first non-empty value of the source field.
	ProjectLabel ProjectionKind = "label"
	// ProjectCount counts distinct non-empty values of the source field.
	ProjectCount ProjectionKind = "count"
)

// Style picks the display convention for a computed value.
type Style string

const (
	StyleBatting  Style = "batting"
	StylePitching Style = "pitching"
	StyleInnings  Style = "innings"
	StyleSigned   Style = "signed"
)

// SumField names a raw field to total. Source defaults to Name.
type SumField struct {
	Name   string  `validate:"required"`
	Source string  `validate:"omitempty"`
	Kind   SumKind `validate:"omitempty,oneof=count innings"`
}

// SourceField is the record field this sum reads.
func (s SumField) SourceField() string {
	if s.Source != "" {
		return s.Source
	}
	return s.Name
}

func (s SumField) kind() SumKind {
	if s.Kind == "" {
		return SumCount
	}
	return s.Kind
}

// Projection is a passthrough or derived column that is not a plain sum.
type Projection struct {
	Name   string         `validate:"required"`
	Source string         `validate:"omitempty"`
	Kind   ProjectionKind `validate:"required,oneof=label count"`
}

func (p Projection) source() string {
	if p.Source != "" {
		return p.Source
	}
	return p.Name
}

// Term is one weighted operand of a ratio.
type Term struct {
	Field  string  `validate:"required"`
	Weight float64 `validate:"required"`
}

// Ratio is scale * Σ(numerator) / Σ(denominator). An empty denominator
// divides by one and a zero Scale means one. A zero denominator sum yields 0.
type Ratio struct {
	Name        string `validate:"required"`
	Numerator   []Term `validate:"required,min=1,dive"`
	Denominator []Term `validate:"dive"`
	Scale       float64
	Style       Style `validate:"required,oneof=batting pitching innings signed"`
}

// Definition is one named aggregation context: which rows partition together,
// which fields are summed, and which ratios are derived from those sums.
type Definition struct {
	Name        string       `validate:"required"`
	GroupKey    string       `validate:"omitempty"`
	Projections []Projection `validate:"dive"`
	Sums        []SumField   `validate:"required,min=1,dive"`
	Ratios      []Ratio      `validate:"dive"`
}

// Validate checks struct tags, name uniqueness, and that every ratio term
// refers to a sum, a count projection, or a ratio declared before it.
func (d Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDefinition, d.Name, err)
	}

	seen := make(map[string]struct{})
	numeric := make(map[string]struct{})
	claim := func(name string) error {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w %q: duplicate field %q", ErrInvalidDefinition, d.Name, name)
		}
		seen[name] = struct{}{}
		return nil
	}

	for _, p := range d.Projections {
		if err := claim(p.Name); err != nil {
			return err
		}
		if p.Kind == ProjectCount {
			numeric[p.Name] = struct{}{}
		}
	}
	for _, s := range d.Sums {
		if err := claim(s.Name); err != nil {
			return err
		}
		numeric[s.Name] = struct{}{}
	}
	for _, ratio := range d.Ratios {
		if err := claim(ratio.Name); err != nil {
			return err
		}
		for _, terms := range [][]Term{ratio.Numerator, ratio.Denominator} {
			for _, t := range terms {
				if _, ok := numeric[t.Field]; !ok {
					return fmt.Errorf("%w %q: ratio %q references undefined field %q",
						ErrInvalidDefinition, d.Name, ratio.Name, t.Field)
				}
			}
		}
		numeric[ratio.Name] = struct{}{}
	}
	return nil
}

// Columns lists output column names in declaration order.
func (d Definition) Columns() []string {
	cols := make([]string, 0, len(d.Projections)+len(d.Sums)+len(d.Ratios))
	for _, p := range d.Projections {
		cols = append(cols, p.Name)
	}
	for _, s := range d.Sums {
		cols = append(cols, s.Name)
	}
	for _, r := range d.Ratios {
		cols = append(cols, r.Name)
	}
	return cols
}

func (d Definition) clone() Definition {
	out := d
	out.Projections = append([]Projection(nil), d.Projections...)
	out.Sums = append([]SumField(nil), d.Sums...)
	out.Ratios = make([]Ratio, len(d.Ratios))
	for i, r := range d.Ratios {
		r.Numerator = append([]Term(nil), r.Numerator...)
		r.Denominator = append([]Term(nil), r.Denominator...)
		out.Ratios[i] = r
	}
	return out
}

func term(field string) Term {
	return Term{Field: field, Weight: 1}
}

func weighted(field string, weight float64) Term {
	return Term{Field: field, Weight: weight}
}

func terms(fields ...string) []Term {
	out := make([]Term, len(fields))
	for i, f := range fields {
		out[i] = term(f)
	}
	return out
}

func sums(fields ...string) []SumField {
	out := make([]SumField, len(fields))
	for i, f := range fields {
		out[i] = SumField{Name: f}
	}
	return out
}
