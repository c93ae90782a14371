package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/dugout/internal/stats"
	"github.com/codr1/dugout/internal/stats/format"
)

type statColumn struct {
	column string
	field  string
	real   bool
}

var hittingColumns = []statColumn{
	{column: "ab", field: stats.AB},
	{column: "pa", field: stats.PA},
	{column: "r", field: stats.R},
	{column: "h", field: stats.H},
	{column: "doubles", field: stats.Double},
	{column: "triples", field: stats.Triple},
	{column: "hr", field: stats.HR},
	{column: "rbi", field: stats.RBI},
	{column: "rbi_two_out", field: stats.RBI2Out},
	{column: "bb", field: stats.BB},
	{column: "so", field: stats.SO},
	{column: "sb", field: stats.SB},
	{column: "cs", field: stats.CS},
	{column: "hbp", field: stats.HBP},
	{column: "sf", field: stats.SF},
}

var pitchingColumns = []statColumn{
	{column: "w", field: stats.W},
	{column: "l", field: stats.L},
	{column: "g", field: stats.G},
	{column: "gs", field: stats.GS},
	{column: "cg", field: stats.CG},
	{column: "sho", field: stats.SHO},
	{column: "sv", field: stats.SV},
	{column: "svo", field: stats.SVO},
	{column: "h", field: stats.H},
	{column: "r", field: stats.R},
	{column: "er", field: stats.ER},
	{column: "hr", field: stats.HR},
	{column: "hb", field: stats.HB},
	{column: "bb", field: stats.BB},
	{column: "k", field: stats.K},
	{column: "innings_pitched", field: stats.IP, real: true},
}

// StatLine is one player's box score line. Counts are keyed by stat field
// name (stats.H, stats.Double, ...); a missing key is stored as NULL.
type StatLine struct {
	GameID   int64
	PlayerID int64
	TeamID   int64
	Counts   map[string]int64
	// InningsPitched uses box-score notation and applies to pitching lines only.
	InningsPitched sql.NullFloat64
}

func (q *Queries) InsertHittingLine(ctx context.Context, line StatLine) error {
	if line.InningsPitched.Valid {
		return fmt.Errorf("hitting line for player %d has innings pitched", line.PlayerID)
	}
	return q.insertLine(ctx, "hitting_lines", hittingColumns, line)
}

// InsertPitchingLine stores a pitching line after checking that innings
// pitched ends in .0, .1 or .2.
func (q *Queries) InsertPitchingLine(ctx context.Context, line StatLine) error {
	if line.InningsPitched.Valid {
		if err := format.ValidateInningsPitched(line.InningsPitched.Float64); err != nil {
			return fmt.Errorf("player %d game %d: %w", line.PlayerID, line.GameID, err)
		}
	}
	return q.insertLine(ctx, "pitching_lines", pitchingColumns, line)
}

func (q *Queries) insertLine(ctx context.Context, table string, columns []statColumn, line StatLine) error {
	known := make(map[string]struct{}, len(columns))
	names := []string{"game_id", "player_id", "team_id"}
	args := []any{line.GameID, line.PlayerID, line.TeamID}

	for _, c := range columns {
		known[c.field] = struct{}{}
		names = append(names, c.column)
		if c.real {
			args = append(args, line.InningsPitched)
			continue
		}
		if v, ok := line.Counts[c.field]; ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	for field := range line.Counts {
		if _, ok := known[field]; !ok {
			return fmt.Errorf("%s has no column for %q", table, field)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))
	_, err := q.db.ExecContext(ctx, query, args...)
	return mapError(err)
}

// StatFilter scopes a stat query to one league. Zero ids are not filtered.
type StatFilter struct {
	LeagueID int64
	SeasonID int64
	TeamID   int64
	PlayerID int64
	GameID   int64
	// FinalOnly skips lines from games that are not final.
	FinalOnly bool
}

func (f StatFilter) where(alias string) (string, []any) {
	clauses := []string{"s.league_id = ?"}
	args := []any{f.LeagueID}
	add := func(column string, v int64) {
		if v != 0 {
			clauses = append(clauses, column+" = ?")
			args = append(args, v)
		}
	}
	add("g.season_id", f.SeasonID)
	add(alias+".team_id", f.TeamID)
	add(alias+".player_id", f.PlayerID)
	add(alias+".game_id", f.GameID)
	if f.FinalOnly {
		clauses = append(clauses, "g.status = 'final'")
	}
	return strings.Join(clauses, " AND "), args
}

// HittingRecords returns one stats.Record per hitting line.
func (q *Queries) HittingRecords(ctx context.Context, f StatFilter) ([]stats.Record, error) {
	return q.statRecords(ctx, "hitting_lines", hittingColumns, f)
}

// PitchingRecords returns one stats.Record per pitching line.
func (q *Queries) PitchingRecords(ctx context.Context, f StatFilter) ([]stats.Record, error) {
	return q.statRecords(ctx, "pitching_lines", pitchingColumns, f)
}

func (q *Queries) statRecords(ctx context.Context, table string, columns []statColumn, f StatFilter) ([]stats.Record, error) {
	if f.LeagueID <= 0 {
		return nil, fmt.Errorf("league ID is required")
	}

	selected := make([]string, len(columns))
	for i, c := range columns {
		selected[i] = "x." + c.column
	}
	where, args := f.where("x")
	query := fmt.Sprintf(`SELECT g.id, g.game_date, s.id, s.year, s.name, t.id, t.name, p.id, p.first_name || ' ' || p.last_name, %s
FROM %s x
JOIN games g ON g.id = x.game_id
JOIN seasons s ON s.id = g.season_id
JOIN teams t ON t.id = x.team_id
JOIN players p ON p.id = x.player_id
WHERE %s
ORDER BY g.game_date, g.id, x.id`, strings.Join(selected, ", "), table, where)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []stats.Record
	for rows.Next() {
		var (
			gameID, seasonID, seasonYear, teamID, playerID int64
			gameDate, seasonName, teamName, playerName     string
		)
		dest := []any{&gameID, &gameDate, &seasonID, &seasonYear, &seasonName, &teamID, &teamName, &playerID, &playerName}
		values := make([]any, len(columns))
		for i, c := range columns {
			if c.real {
				values[i] = new(sql.NullFloat64)
			} else {
				values[i] = new(sql.NullInt64)
			}
		}
		if err := rows.Scan(append(dest, values...)...); err != nil {
			return nil, err
		}

		rec := stats.Record{
			stats.FieldGameID:     gameID,
			stats.FieldGameDate:   gameDate,
			stats.FieldSeasonID:   seasonID,
			stats.FieldSeasonYear: seasonYear,
			stats.FieldSeasonName: seasonName,
			stats.FieldTeamID:     teamID,
			stats.FieldTeamName:   teamName,
			stats.FieldPlayerID:   playerID,
			stats.FieldPlayerName: playerName,
		}
		for i, c := range columns {
			switch v := values[i].(type) {
			case *sql.NullInt64:
				rec[c.field] = *v
			case *sql.NullFloat64:
				rec[c.field] = *v
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ErrNoLineSource is returned for definitions whose sums are not all columns
// of a single line table, such as team standings.
var ErrNoLineSource = errors.New("definition is not backed by stat lines")

// DefinitionRecords loads the hitting or pitching lines a definition sums
// over, picking the table that carries every summed field.
func (q *Queries) DefinitionRecords(ctx context.Context, def stats.Definition, f StatFilter) ([]stats.Record, error) {
	switch {
	case coversSums(hittingColumns, def):
		return q.HittingRecords(ctx, f)
	case coversSums(pitchingColumns, def):
		return q.PitchingRecords(ctx, f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoLineSource, def.Name)
	}
}

func coversSums(columns []statColumn, def stats.Definition) bool {
	fields := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		fields[c.field] = struct{}{}
	}
	for _, s := range def.Sums {
		if _, ok := fields[s.SourceField()]; !ok {
			return false
		}
	}
	return len(def.Sums) > 0
}
