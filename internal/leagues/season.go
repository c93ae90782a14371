package leagues

import (
	"context"
	"errors"
	"fmt"

	"github.com/codr1/dugout/internal/db"
)

// SeasonStandings loads a season's teams and final scores and ranks them.
func SeasonStandings(ctx context.Context, q *db.Queries, seasonID int64) ([]TeamStanding, error) {
	if q == nil {
		return nil, errors.New("queries are required")
	}
	if seasonID <= 0 {
		return nil, errors.New("season ID is required")
	}

	teamRows, err := q.ListSeasonTeams(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	games, err := q.ListFinalGames(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	teams := make([]Team, 0, len(teamRows))
	for _, t := range teamRows {
		teams = append(teams, Team{ID: t.ID, Name: t.Name})
	}
	if len(teams) == 0 {
		return []TeamStanding{}, nil
	}

	results := make([]GameResult, 0, len(games))
	for _, g := range games {
		if !g.HomeScore.Valid || !g.AwayScore.Valid {
			return nil, fmt.Errorf("game %d is missing scores", g.ID)
		}
		results = append(results, GameResult{
			GameID:     g.ID,
			GameDate:   g.GameDate,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			HomeScore:  int(g.HomeScore.Int64),
			AwayScore:  int(g.AwayScore.Int64),
		})
	}
	return CalculateStandings(teams, results)
}

// ScheduleSeason writes a round-robin schedule into the season.
func ScheduleSeason(ctx context.Context, database *db.DB, seasonID int64, games []ScheduledGame) ([]db.Game, error) {
	created := make([]db.Game, 0, len(games))
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		for _, g := range games {
			row, err := tx.Queries.CreateGame(ctx, db.CreateGameParams{
				SeasonID:   seasonID,
				GameDate:   g.GameDate.Format("2006-01-02"),
				HomeTeamID: g.HomeTeam.ID,
				AwayTeamID: g.AwayTeam.ID,
			})
			if err != nil {
				return fmt.Errorf("create game round %d: %w", g.Round, err)
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
