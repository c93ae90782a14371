package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/codr1/dugout/internal/stats/format"
)

// Line is one aggregated group. Values holds raw sums, count projections and
// ratios; Labels holds passthrough text; Formatted holds display strings for
// ratios and innings totals.
type Line struct {
	Key       any                `json:"key"`
	Values    map[string]float64 `json:"values"`
	Labels    map[string]string  `json:"labels,omitempty"`
	Formatted map[string]string  `json:"formatted,omitempty"`
}

// Value returns the numeric value of name, or zero.
func (l Line) Value(name string) float64 {
	return l.Values[name]
}

// Display returns the string a table cell shows for name.
func (l Line) Display(name string) string {
	if s, ok := l.Formatted[name]; ok {
		return s
	}
	if s, ok := l.Labels[name]; ok {
		return s
	}
	if v, ok := l.Values[name]; ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Table is the output of Aggregate, with lines ordered by group key.
type Table struct {
	Definition string   `json:"definition"`
	GroupKey   string   `json:"groupKey,omitempty"`
	Columns    []string `json:"columns"`
	Lines      []Line   `json:"lines"`
}

type options struct {
	groupBy string
}

// Option adjusts a single Aggregate call.
type Option func(*options)

// WithGroupBy partitions by field instead of the definition's group key.
// An empty field aggregates everything into one line.
func WithGroupBy(field string) Option {
	return func(o *options) {
		o.groupBy = field
	}
}

// Aggregate partitions records by the group key, totals every sum field per
// partition and evaluates the definition's ratios against those totals. It
// never modifies records. With no group key the table has exactly one line,
// even when records is empty.
func Aggregate(records []Record, def Definition, opts ...Option) (Table, error) {
	o := options{groupBy: def.GroupKey}
	for _, opt := range opts {
		opt(&o)
	}

	table := Table{
		Definition: def.Name,
		GroupKey:   o.groupBy,
		Columns:    def.Columns(),
	}

	if o.groupBy == "" {
		p := newPartition(nil)
		for _, rec := range records {
			if err := p.add(def, rec); err != nil {
				return Table{}, err
			}
		}
		table.Lines = []Line{p.line(def)}
		return table, nil
	}

	partitions := make(map[any]*partition)
	for _, rec := range records {
		key, err := rec.Key(o.groupBy)
		if err != nil {
			return Table{}, err
		}
		p, ok := partitions[key]
		if !ok {
			p = newPartition(key)
			partitions[key] = p
		}
		if err := p.add(def, rec); err != nil {
			return Table{}, err
		}
	}

	table.Lines = make([]Line, 0, len(partitions))
	for _, p := range partitions {
		table.Lines = append(table.Lines, p.line(def))
	}
	sort.Slice(table.Lines, func(i, j int) bool {
		return compareKeys(table.Lines[i].Key, table.Lines[j].Key) < 0
	})
	return table, nil
}

type partition struct {
	key      any
	sums     map[string]float64
	outs     map[string]int64
	labels   map[string]string
	distinct map[string]map[any]struct{}
}

func newPartition(key any) *partition {
	return &partition{
		key:      key,
		sums:     make(map[string]float64),
		outs:     make(map[string]int64),
		labels:   make(map[string]string),
		distinct: make(map[string]map[any]struct{}),
	}
}

func (p *partition) add(def Definition, rec Record) error {
	for _, s := range def.Sums {
		v, err := rec.Number(s.SourceField())
		if err != nil {
			return err
		}
		if s.kind() == SumInnings {
			outs, err := format.NotationOuts(v)
			if err != nil {
				return fmt.Errorf("%s: %w", s.SourceField(), err)
			}
			p.outs[s.Name] += outs
			continue
		}
		p.sums[s.Name] += v
	}

	for _, proj := range def.Projections {
		switch proj.Kind {
		case ProjectLabel:
			if p.labels[proj.Name] == "" {
				p.labels[proj.Name] = rec.Label(proj.source())
			}
		case ProjectCount:
			key, err := rec.Key(proj.source())
			if err != nil {
				return err
			}
			if key == nil {
				continue
			}
			set, ok := p.distinct[proj.Name]
			if !ok {
				set = make(map[any]struct{})
				p.distinct[proj.Name] = set
			}
			set[key] = struct{}{}
		}
	}
	return nil
}

func (p *partition) line(def Definition) Line {
	line := Line{
		Key:       p.key,
		Values:    make(map[string]float64, len(def.Sums)+len(def.Ratios)),
		Formatted: make(map[string]string),
	}

	for _, s := range def.Sums {
		if s.kind() == SumInnings {
			ip := format.OutsToInnings(p.outs[s.Name])
			line.Values[s.Name] = ip
			line.Formatted[s.Name] = format.Innings(ip)
			continue
		}
		line.Values[s.Name] = p.sums[s.Name]
	}

	for _, proj := range def.Projections {
		switch proj.Kind {
		case ProjectLabel:
			if line.Labels == nil {
				line.Labels = make(map[string]string)
			}
			line.Labels[proj.Name] = p.labels[proj.Name]
		case ProjectCount:
			line.Values[proj.Name] = float64(len(p.distinct[proj.Name]))
		}
	}

	for _, ratio := range def.Ratios {
		v := evalRatio(ratio, line.Values)
		line.Values[ratio.Name] = v
		line.Formatted[ratio.Name] = FormatValue(ratio.Style, v)
	}
	return line
}

// evalRatio reads only partition totals. A zero denominator yields 0.
func evalRatio(r Ratio, values map[string]float64) float64 {
	num := weightedSum(r.Numerator, values)
	den := 1.0
	if len(r.Denominator) > 0 {
		den = weightedSum(r.Denominator, values)
	}
	if den == 0 {
		return 0
	}
	scale := r.Scale
	if scale == 0 {
		scale = 1
	}
	return scale * num / den
}

func weightedSum(ts []Term, values map[string]float64) float64 {
	var total float64
	for _, t := range ts {
		total += t.Weight * values[t.Field]
	}
	return total
}

// FormatValue renders v in the given display style.
func FormatValue(style Style, v float64) string {
	switch style {
	case StylePitching:
		return format.Pitching(v)
	case StyleInnings:
		return format.Innings(v)
	case StyleSigned:
		return format.Signed(v)
	default:
		return format.Batting(v)
	}
}
