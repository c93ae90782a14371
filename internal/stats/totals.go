package stats

import (
	"fmt"
	"time"
)

// AggregateTotals aggregates records into a single ungrouped line and merges
// extra as constant columns (for example {"year": "Career"}). String extras
// land in Labels and numeric extras in Values. An extra key that names a
// column of def is rejected with ErrKeyCollision.
func AggregateTotals(records []Record, def Definition, extra map[string]any) (Line, error) {
	columns := make(map[string]struct{})
	for _, c := range def.Columns() {
		columns[c] = struct{}{}
	}
	for k := range extra {
		if _, ok := columns[k]; ok {
			return Line{}, fmt.Errorf("%w: %q in %s", ErrKeyCollision, k, def.Name)
		}
	}

	table, err := Aggregate(records, def, WithGroupBy(""))
	if err != nil {
		return Line{}, err
	}
	line := table.Lines[0]

	for k, v := range extra {
		rec := Record{k: v}
		if s, ok := v.(string); ok {
			if line.Labels == nil {
				line.Labels = make(map[string]string)
			}
			line.Labels[k] = s
			continue
		}
		if n, err := rec.Number(k); err == nil && v != nil {
			line.Values[k] = n
			continue
		}
		if line.Labels == nil {
			line.Labels = make(map[string]string)
		}
		line.Labels[k] = rec.Label(k)
	}
	return line, nil
}

// ExtraStatContext returns one player's running totals for the box score
// subset over games dated from seasonStart through gameDate, both inclusive.
// Rows for other players are ignored; a row for the player with no readable
// game date is an error.
func ExtraStatContext(records []Record, playerID any, seasonStart, gameDate time.Time) (Line, error) {
	def, err := Lookup(BoxscoreRunningHitting)
	if err != nil {
		return Line{}, err
	}

	want, err := Record{FieldPlayerID: playerID}.Key(FieldPlayerID)
	if err != nil {
		return Line{}, err
	}
	from, through := truncateDay(seasonStart), truncateDay(gameDate)

	window := make([]Record, 0, len(records))
	for _, rec := range records {
		id, err := rec.Key(FieldPlayerID)
		if err != nil {
			return Line{}, err
		}
		if compareKeys(id, want) != 0 {
			continue
		}
		played, ok := rec.Date(FieldGameDate)
		if !ok {
			return Line{}, fmt.Errorf("player %v row has no %s", playerID, FieldGameDate)
		}
		if played.Before(from) || played.After(through) {
			continue
		}
		window = append(window, rec)
	}

	return AggregateTotals(window, def, nil)
}
