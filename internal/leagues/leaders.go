package leagues

import (
	"errors"
	"fmt"
	"sort"

	"github.com/codr1/dugout/internal/stats"
)

// ErrUnknownCategory is returned for a leader board that is not configured.
var ErrUnknownCategory = errors.New("unknown leader category")

// Category is one leader board. Lines whose Qualifier total is below Minimum
// are left off, which keeps a 1-for-1 hitter off the batting average board.
type Category struct {
	Name      string  `json:"name"`
	Stat      string  `json:"stat"`
	Qualifier string  `json:"qualifier,omitempty"`
	Minimum   float64 `json:"minimum,omitempty"`
	Ascending bool    `json:"ascending,omitempty"`
}

var DefaultCategories = []Category{
	{Name: "avg", Stat: stats.AVG, Qualifier: stats.PA, Minimum: 10},
	{Name: "hr", Stat: stats.HR},
	{Name: "rbi", Stat: stats.RBI},
	{Name: "sb", Stat: stats.SB},
	{Name: "r", Stat: stats.R},
	{Name: "h", Stat: stats.H},
}

// CategoryByName finds a default category.
func CategoryByName(name string) (Category, error) {
	for _, c := range DefaultCategories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

type Leader struct {
	Rank       int     `json:"rank"`
	PlayerID   any     `json:"playerId"`
	PlayerName string  `json:"playerName"`
	TeamName   string  `json:"teamName"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
}

// Leaders ranks the lines of a player table for one category and keeps the
// top limit entries plus anyone tied with the last of them. Equal values share
// a rank (1, 2, 2, 4) and are listed by name.
func Leaders(table stats.Table, category Category, limit int) ([]Leader, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if !hasColumn(table, category.Stat) {
		return nil, fmt.Errorf("%w: %s has no column %q", ErrUnknownCategory, table.Definition, category.Stat)
	}
	if category.Qualifier != "" && !hasColumn(table, category.Qualifier) {
		return nil, fmt.Errorf("%w: %s has no column %q", ErrUnknownCategory, table.Definition, category.Qualifier)
	}

	qualified := make([]stats.Line, 0, len(table.Lines))
	for _, line := range table.Lines {
		if category.Qualifier != "" && line.Value(category.Qualifier) < category.Minimum {
			continue
		}
		qualified = append(qualified, line)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		vi, vj := qualified[i].Value(category.Stat), qualified[j].Value(category.Stat)
		if vi != vj {
			if category.Ascending {
				return vi < vj
			}
			return vi > vj
		}
		return qualified[i].Display(stats.FieldPlayerName) < qualified[j].Display(stats.FieldPlayerName)
	})

	leaders := make([]Leader, 0, limit)
	for i, line := range qualified {
		value := line.Value(category.Stat)
		rank := i + 1
		if i > 0 && value == leaders[i-1].Value {
			rank = leaders[i-1].Rank
		}
		if i >= limit && rank != leaders[i-1].Rank {
			break
		}
		leaders = append(leaders, Leader{
			Rank:       rank,
			PlayerID:   line.Key,
			PlayerName: line.Display(stats.FieldPlayerName),
			TeamName:   line.Display(stats.FieldTeamName),
			Value:      value,
			Display:    line.Display(category.Stat),
		})
	}
	return leaders, nil
}

func hasColumn(table stats.Table, name string) bool {
	for _, c := range table.Columns {
		if c == name {
			return true
		}
	}
	return false
}
