package stats

import (
	"database/sql"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/codr1/dugout/internal/stats/format"
)

func hittingRow(playerID int64, gameID int64, ab, h int) Record {
	return Record{
		FieldPlayerID:   playerID,
		FieldPlayerName: map[int64]string{1: "Ada", 2: "Babe"}[playerID],
		FieldTeamID:     int64(10),
		FieldGameID:     gameID,
		AB:              ab,
		H:               h,
	}
}

func scenarioRows() []Record {
	return []Record{
		hittingRow(1, 100, 4, 2),
		hittingRow(1, 101, 3, 1),
		hittingRow(1, 102, 3, 0),
		hittingRow(2, 100, 4, 4),
	}
}

func mustLookup(t *testing.T, name string) Definition {
	t.Helper()
	def, err := Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return def
}

func TestAggregateGroupsByPlayer(t *testing.T) {
	table, err := Aggregate(scenarioRows(), mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(table.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(table.Lines))
	}

	a, b := table.Lines[0], table.Lines[1]
	if a.Key != int64(1) || b.Key != int64(2) {
		t.Fatalf("unexpected keys %v, %v", a.Key, b.Key)
	}
	if a.Value(AB) != 10 || a.Value(H) != 3 {
		t.Fatalf("player A totals AB=%v H=%v", a.Value(AB), a.Value(H))
	}
	if got := a.Display(AVG); got != ".300" {
		t.Fatalf("player A AVG = %q, want .300", got)
	}
	if b.Value(AB) != 4 || b.Value(H) != 4 {
		t.Fatalf("player B totals AB=%v H=%v", b.Value(AB), b.Value(H))
	}
	if got := b.Display(AVG); got != "1.000" {
		t.Fatalf("player B AVG = %q, want 1.000", got)
	}
	if got := a.Display(FieldPlayerName); got != "Ada" {
		t.Fatalf("player A name = %q", got)
	}
	if got := a.Value(G); got != 3 {
		t.Fatalf("player A games = %v, want 3", got)
	}
}

func TestAggregateZeroAtBats(t *testing.T) {
	rows := []Record{{FieldPlayerID: int64(5), AB: 0, BB: 2}}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	line := table.Lines[0]
	if line.Value(AVG) != 0 {
		t.Fatalf("AVG = %v, want 0", line.Value(AVG))
	}
	if got := line.Display(AVG); got != ".000" {
		t.Fatalf("AVG display = %q, want .000", got)
	}
	if got := line.Display(SLG); got != ".000" {
		t.Fatalf("SLG display = %q, want .000", got)
	}
	if got := line.Display(OBP); got != "1.000" {
		t.Fatalf("OBP display = %q, want 1.000", got)
	}
}

func TestAggregateTreatsMissingAsZero(t *testing.T) {
	rows := []Record{
		{FieldPlayerID: int64(1), AB: 4, H: nil},
		{FieldPlayerID: int64(1), AB: sql.NullInt64{}, H: sql.NullInt64{Int64: 2, Valid: true}},
		{FieldPlayerID: int64(1)},
	}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	line := table.Lines[0]
	if line.Value(AB) != 4 || line.Value(H) != 2 {
		t.Fatalf("AB=%v H=%v, want 4 and 2", line.Value(AB), line.Value(H))
	}
	if got := line.Display(AVG); got != ".500" {
		t.Fatalf("AVG = %q, want .500", got)
	}
}

func TestAggregateUngrouped(t *testing.T) {
	def := mustLookup(t, PlayerSeasonHitting)

	table, err := Aggregate(scenarioRows(), def, WithGroupBy(""))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(table.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(table.Lines))
	}
	if got := table.Lines[0].Value(AB); got != 14 {
		t.Fatalf("AB = %v, want 14", got)
	}

	empty, err := Aggregate(nil, def, WithGroupBy(""))
	if err != nil {
		t.Fatalf("aggregate empty: %v", err)
	}
	if len(empty.Lines) != 1 || empty.Lines[0].Display(AVG) != ".000" {
		t.Fatalf("unexpected empty aggregate: %+v", empty.Lines)
	}
}

func TestAggregateEmptyGroupedHasNoLines(t *testing.T) {
	table, err := Aggregate(nil, mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(table.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(table.Lines))
	}
}

func TestAggregateGroupByOverride(t *testing.T) {
	rows := scenarioRows()
	rows[3][FieldTeamID] = int64(20)

	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonHitting), WithGroupBy(FieldTeamID))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if table.GroupKey != FieldTeamID {
		t.Fatalf("group key = %q", table.GroupKey)
	}
	if len(table.Lines) != 2 || table.Lines[0].Key != int64(10) {
		t.Fatalf("unexpected lines: %+v", table.Lines)
	}
	if got := table.Lines[0].Value(AB); got != 10 {
		t.Fatalf("team 10 AB = %v, want 10", got)
	}
}

func TestAggregateSlugAndOPS(t *testing.T) {
	rows := []Record{{
		FieldPlayerID: int64(1),
		AB:            10,
		H:             4,
		Double:        1,
		Triple:        1,
		HR:            1,
		BB:            2,
	}}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	line := table.Lines[0]

	// total bases: 4 + 1 + 2 + 3 = 10
	if got := line.Display(SLG); got != "1.000" {
		t.Fatalf("SLG = %q, want 1.000", got)
	}
	if got := line.Display(OBP); got != ".500" {
		t.Fatalf("OBP = %q, want .500", got)
	}
	if got := line.Value(OPS); got != line.Value(OBP)+line.Value(SLG) {
		t.Fatalf("OPS = %v, want OBP+SLG", got)
	}
	if got := line.Display(OPS); got != "1.500" {
		t.Fatalf("OPS = %q, want 1.500", got)
	}
}

func TestAggregatePitchingInnings(t *testing.T) {
	rows := []Record{
		{FieldPlayerID: int64(7), IP: 6.2, ER: 2, BB: 1, H: 5, K: 8},
		{FieldPlayerID: int64(7), IP: 2.1, ER: 1, BB: 1, H: 2, K: 1},
	}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonPitching))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	line := table.Lines[0]

	if got := line.Value(IP); got != 9 {
		t.Fatalf("IP = %v, want 9 true innings", got)
	}
	tests := map[string]string{
		IP:   "9.0",
		ERA:  "3.00",
		WHIP: "1.00",
		K9:   "9.00",
		BB9:  "2.00",
	}
	for name, want := range tests {
		if got := line.Display(name); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestAggregatePitchingNoOuts(t *testing.T) {
	rows := []Record{{FieldPlayerID: int64(7), IP: 0, ER: 3, H: 4}}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonPitching))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	line := table.Lines[0]
	if got := line.Display(ERA); got != "0.00" {
		t.Fatalf("ERA = %q, want 0.00", got)
	}
	if got := line.Display(IP); got != "0.0" {
		t.Fatalf("IP = %q, want 0.0", got)
	}
}

func TestAggregateRejectsBadRows(t *testing.T) {
	def := mustLookup(t, PlayerSeasonPitching)

	_, err := Aggregate([]Record{{FieldPlayerID: int64(1), IP: 6.5}}, def)
	if !errors.Is(err, format.ErrIllegalInnings) {
		t.Fatalf("expected ErrIllegalInnings, got %v", err)
	}

	_, err = Aggregate([]Record{{FieldPlayerID: int64(1), H: "lots"}}, def)
	if !errors.Is(err, ErrNonNumericField) {
		t.Fatalf("expected ErrNonNumericField, got %v", err)
	}

	_, err = Aggregate([]Record{{FieldPlayerID: []int{1}}}, def)
	if !errors.Is(err, ErrUngroupableKey) {
		t.Fatalf("expected ErrUngroupableKey, got %v", err)
	}
}

func TestAggregateStandings(t *testing.T) {
	rows := []Record{
		{FieldTeamID: int64(1), FieldTeamName: "Owls", Win: 1, RunsFor: 5, RunsAgainst: 2},
		{FieldTeamID: int64(1), FieldTeamName: "Owls", Win: 1, RunsFor: 7, RunsAgainst: 3},
		{FieldTeamID: int64(1), FieldTeamName: "Owls", Loss: 1, RunsFor: 1, RunsAgainst: 4},
		{FieldTeamID: int64(1), FieldTeamName: "Owls", Tie: 1, RunsFor: 2, RunsAgainst: 2},
		{FieldTeamID: int64(2), FieldTeamName: "Hawks", Loss: 1, RunsFor: 2, RunsAgainst: 5},
	}
	table, err := Aggregate(rows, mustLookup(t, TeamStandings))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	owls, hawks := table.Lines[0], table.Lines[1]

	if got := owls.Display(Pct); got != ".625" {
		t.Fatalf("Owls pct = %q, want .625", got)
	}
	if got := owls.Display(RunDiff); got != "+4" {
		t.Fatalf("Owls diff = %q, want +4", got)
	}
	if got := hawks.Display(Pct); got != ".000" {
		t.Fatalf("Hawks pct = %q, want .000", got)
	}
	if got := hawks.Display(RunDiff); got != "-3" {
		t.Fatalf("Hawks diff = %q, want -3", got)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	def := mustLookup(t, PlayerSeasonHitting)
	rows := scenarioRows()

	first, err := Aggregate(rows, def)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	second, err := Aggregate(rows, def)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate is not idempotent")
	}
	if !reflect.DeepEqual(rows, scenarioRows()) {
		t.Fatalf("aggregate mutated its input")
	}
}

func TestAggregateSumsAreDistributive(t *testing.T) {
	def := mustLookup(t, PlayerSeasonHitting)
	rng := rand.New(rand.NewSource(42))

	rows := make([]Record, 0, 200)
	want := make(map[int64]map[string]float64)
	total := make(map[string]float64)
	for i := 0; i < 200; i++ {
		player := int64(rng.Intn(6))
		rec := Record{FieldPlayerID: player, FieldGameID: int64(i)}
		if want[player] == nil {
			want[player] = make(map[string]float64)
		}
		for _, field := range hittingSums {
			if rng.Intn(5) == 0 {
				continue
			}
			v := rng.Intn(6)
			rec[field] = v
			want[player][field] += float64(v)
			total[field] += float64(v)
		}
		rows = append(rows, rec)
	}

	table, err := Aggregate(rows, def)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	grand := make(map[string]float64)
	for _, line := range table.Lines {
		player := line.Key.(int64)
		for _, field := range hittingSums {
			if line.Value(field) != want[player][field] {
				t.Fatalf("player %d %s = %v, want %v", player, field, line.Value(field), want[player][field])
			}
			grand[field] += line.Value(field)
		}
	}

	ungrouped, err := Aggregate(rows, def, WithGroupBy(""))
	if err != nil {
		t.Fatalf("aggregate ungrouped: %v", err)
	}
	for _, field := range hittingSums {
		if grand[field] != total[field] || ungrouped.Lines[0].Value(field) != total[field] {
			t.Fatalf("%s: grouped %v, ungrouped %v, want %v",
				field, grand[field], ungrouped.Lines[0].Value(field), total[field])
		}
	}
}

func TestAggregateOrdersKeys(t *testing.T) {
	rows := []Record{
		{FieldGameDate: "2024-06-03", AB: 1},
		{FieldGameDate: "2024-05-28", AB: 1},
		{FieldGameDate: nil, AB: 1},
		{FieldGameDate: "2024-06-01", AB: 1},
	}
	table, err := Aggregate(rows, mustLookup(t, PlayerGameLogHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []any{nil, "2024-05-28", "2024-06-01", "2024-06-03"}
	for i, line := range table.Lines {
		if line.Key != want[i] {
			t.Fatalf("line %d key = %v, want %v", i, line.Key, want[i])
		}
	}
}

func TestAggregateMergesEqualNumericKeys(t *testing.T) {
	rows := []Record{
		{FieldPlayerID: int64(1), AB: 4, H: 2},
		{FieldPlayerID: float64(1), AB: 4, H: 1},
		{FieldPlayerID: uint(1), AB: 2, H: 1},
		{FieldPlayerID: int16(2), AB: 3, H: 3},
	}
	table, err := Aggregate(rows, mustLookup(t, PlayerSeasonHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(table.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(table.Lines), table.Lines)
	}
	one := table.Lines[0]
	if one.Key != int64(1) || one.Value(AB) != 10 || one.Value(H) != 4 {
		t.Fatalf("player 1 = key %v AB=%v H=%v", one.Key, one.Value(AB), one.Value(H))
	}
	if got := one.Display(AVG); got != ".400" {
		t.Fatalf("player 1 AVG = %q, want .400", got)
	}
}

func TestAggregateCareerSeparatesSeasonsInOneYear(t *testing.T) {
	rows := []Record{
		{FieldPlayerID: int64(1), FieldSeasonID: int64(1), FieldSeasonYear: int64(2024), FieldSeasonName: "Spring 2024", FieldGameID: int64(10), AB: 4, H: 2},
		{FieldPlayerID: int64(1), FieldSeasonID: int64(2), FieldSeasonYear: int64(2024), FieldSeasonName: "Fall 2024", FieldGameID: int64(20), AB: 4, H: 1},
		{FieldPlayerID: int64(1), FieldSeasonID: int64(2), FieldSeasonYear: int64(2024), FieldSeasonName: "Fall 2024", FieldGameID: int64(21), AB: 2, H: 0},
	}
	table, err := Aggregate(rows, mustLookup(t, PlayerCareerHitting))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(table.Lines) != 2 {
		t.Fatalf("expected one line per season, got %d", len(table.Lines))
	}

	spring, fall := table.Lines[0], table.Lines[1]
	if spring.Display(FieldSeasonName) != "Spring 2024" || spring.Value(AB) != 4 {
		t.Fatalf("spring line = %+v", spring)
	}
	if fall.Display(FieldSeasonName) != "Fall 2024" || fall.Value(AB) != 6 || fall.Value(G) != 2 {
		t.Fatalf("fall line = %+v", fall)
	}
}
