package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/codr1/dugout/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// Fixture is a small league with one season, two teams, and three players.
type Fixture struct {
	League  db.League
	Season  db.Season
	Home    db.Team
	Away    db.Team
	Players []db.Player
}

// SeedLeague inserts a Fixture.
func SeedLeague(t *testing.T, database *db.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	q := database.Queries

	league, err := q.CreateLeague(ctx, "Sandlot League", "sandlot")
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	season, err := q.CreateSeason(ctx, db.CreateSeasonParams{
		LeagueID:  league.ID,
		Year:      2024,
		Name:      "Summer 2024",
		StartDate: "2024-05-01",
		EndDate:   "2024-08-31",
	})
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	home, err := q.CreateTeam(ctx, season.ID, "Owls")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	away, err := q.CreateTeam(ctx, season.ID, "Hawks")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	fx := Fixture{League: league, Season: season, Home: home, Away: away}
	for _, name := range [][2]string{{"Ada", "Lovelace"}, {"Babe", "Ruth"}, {"Cy", "Young"}} {
		p, err := q.CreatePlayer(ctx, db.CreatePlayerParams{LeagueID: league.ID, FirstName: name[0], LastName: name[1]})
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		fx.Players = append(fx.Players, p)
	}
	return fx
}

// AddFinalGame inserts a final game between the fixture teams.
func AddFinalGame(t *testing.T, database *db.DB, fx Fixture, date string, homeScore, awayScore int64) db.Game {
	t.Helper()
	ctx := context.Background()

	game, err := database.Queries.CreateGame(ctx, db.CreateGameParams{
		SeasonID:   fx.Season.ID,
		GameDate:   date,
		HomeTeamID: fx.Home.ID,
		AwayTeamID: fx.Away.ID,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := database.Queries.RecordFinalScore(ctx, game.ID, homeScore, awayScore); err != nil {
		t.Fatalf("record score: %v", err)
	}
	game.HomeScore = sql.NullInt64{Int64: homeScore, Valid: true}
	game.AwayScore = sql.NullInt64{Int64: awayScore, Valid: true}
	game.Status = "final"
	return game
}
