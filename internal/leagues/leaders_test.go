package leagues

import (
	"errors"
	"testing"

	"github.com/codr1/dugout/internal/stats"
)

func leaderTable(t *testing.T) stats.Table {
	t.Helper()
	row := func(id int64, name string, pa, ab, h, hr int) stats.Record {
		return stats.Record{
			stats.FieldPlayerID:   id,
			stats.FieldPlayerName: name,
			stats.FieldTeamName:   "Owls",
			stats.PA:              pa,
			stats.AB:              ab,
			stats.H:               h,
			stats.HR:              hr,
		}
	}
	records := []stats.Record{
		row(1, "Cobb", 20, 18, 9, 0),
		row(2, "Ruth", 22, 20, 7, 4),
		row(3, "Gehrig", 21, 20, 7, 4),
		row(4, "Pinch", 2, 2, 2, 1),
		row(5, "Bench", 12, 10, 1, 0),
	}
	def, err := stats.Lookup(stats.LeagueLeaders)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	table, err := stats.Aggregate(records, def)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return table
}

func TestLeadersQualification(t *testing.T) {
	category, err := CategoryByName("avg")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	leaders, err := Leaders(leaderTable(t), category, 10)
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if len(leaders) != 4 {
		t.Fatalf("expected 4 qualified leaders, got %d", len(leaders))
	}
	if leaders[0].PlayerName != "Cobb" || leaders[0].Display != ".500" {
		t.Fatalf("unexpected leader: %+v", leaders[0])
	}
	for _, l := range leaders {
		if l.PlayerName == "Pinch" {
			t.Fatalf("unqualified player on the board: %+v", l)
		}
	}
}

func TestLeadersSharedRank(t *testing.T) {
	category, err := CategoryByName("hr")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	leaders, err := Leaders(leaderTable(t), category, 1)
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("expected tie at the cut to keep both players, got %+v", leaders)
	}
	if leaders[0].PlayerName != "Gehrig" || leaders[1].PlayerName != "Ruth" {
		t.Fatalf("ties should list by name: %+v", leaders)
	}
	if leaders[0].Rank != 1 || leaders[1].Rank != 1 {
		t.Fatalf("tied players should share rank 1: %+v", leaders)
	}

	leaders, err = Leaders(leaderTable(t), category, 3)
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if leaders[2].PlayerName != "Pinch" || leaders[2].Rank != 3 {
		t.Fatalf("expected Pinch ranked third, got %+v", leaders[2])
	}
}

func TestLeadersErrors(t *testing.T) {
	if _, err := CategoryByName("war"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := Leaders(leaderTable(t), Category{Name: "era", Stat: stats.ERA}, 5); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for missing column, got %v", err)
	}
	if _, err := Leaders(leaderTable(t), DefaultCategories[1], 0); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}
