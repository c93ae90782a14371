package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound wraps sql.ErrNoRows for lookups scoped to a league.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert violates a constraint.
	ErrConflict = errors.New("conflicts with existing data")
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type League struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Season struct {
	ID        int64  `json:"id"`
	LeagueID  int64  `json:"leagueId"`
	Year      int64  `json:"year"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Team struct {
	ID       int64  `json:"id"`
	SeasonID int64  `json:"seasonId"`
	Name     string `json:"name"`
}

type Player struct {
	ID        int64  `json:"id"`
	LeagueID  int64  `json:"leagueId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Game struct {
	ID         int64         `json:"id"`
	SeasonID   int64         `json:"seasonId"`
	GameDate   string        `json:"gameDate"`
	HomeTeamID int64         `json:"homeTeamId"`
	AwayTeamID int64         `json:"awayTeamId"`
	HomeScore  sql.NullInt64 `json:"-"`
	AwayScore  sql.NullInt64 `json:"-"`
	Status     string        `json:"status"`
}

// mapError turns driver errors into package errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

const createLeague = `INSERT INTO leagues (name, slug) VALUES (?, ?) RETURNING id, name, slug`

func (q *Queries) CreateLeague(ctx context.Context, name, slug string) (League, error) {
	var l League
	err := q.db.QueryRowContext(ctx, createLeague, name, slug).Scan(&l.ID, &l.Name, &l.Slug)
	return l, mapError(err)
}

const getLeague = `SELECT id, name, slug FROM leagues WHERE id = ?`

func (q *Queries) GetLeague(ctx context.Context, id int64) (League, error) {
	var l League
	err := q.db.QueryRowContext(ctx, getLeague, id).Scan(&l.ID, &l.Name, &l.Slug)
	return l, mapError(err)
}

const getLeagueBySlug = `SELECT id, name, slug FROM leagues WHERE slug = ?`

func (q *Queries) GetLeagueBySlug(ctx context.Context, slug string) (League, error) {
	var l League
	err := q.db.QueryRowContext(ctx, getLeagueBySlug, slug).Scan(&l.ID, &l.Name, &l.Slug)
	return l, mapError(err)
}

const listLeagues = `SELECT id, name, slug FROM leagues ORDER BY name`

func (q *Queries) ListLeagues(ctx context.Context) ([]League, error) {
	rows, err := q.db.QueryContext(ctx, listLeagues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []League
	for rows.Next() {
		var l League
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

type CreateSeasonParams struct {
	LeagueID  int64
	Year      int64
	Name      string
	StartDate string
	EndDate   string
}

const createSeason = `INSERT INTO seasons (league_id, year, name, start_date, end_date)
VALUES (?, ?, ?, ?, ?)
RETURNING id, league_id, year, name, start_date, end_date`

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (Season, error) {
	var s Season
	err := q.db.QueryRowContext(ctx, createSeason, arg.LeagueID, arg.Year, arg.Name, arg.StartDate, arg.EndDate).
		Scan(&s.ID, &s.LeagueID, &s.Year, &s.Name, &s.StartDate, &s.EndDate)
	return s, mapError(err)
}

const getSeason = `SELECT id, league_id, year, name, start_date, end_date
FROM seasons WHERE league_id = ? AND id = ?`

func (q *Queries) GetSeason(ctx context.Context, leagueID, seasonID int64) (Season, error) {
	var s Season
	err := q.db.QueryRowContext(ctx, getSeason, leagueID, seasonID).
		Scan(&s.ID, &s.LeagueID, &s.Year, &s.Name, &s.StartDate, &s.EndDate)
	return s, mapError(err)
}

const listSeasons = `SELECT id, league_id, year, name, start_date, end_date
FROM seasons WHERE league_id = ? ORDER BY start_date DESC`

func (q *Queries) ListSeasons(ctx context.Context, leagueID int64) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx, listSeasons, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Season
	for rows.Next() {
		var s Season
		if err := rows.Scan(&s.ID, &s.LeagueID, &s.Year, &s.Name, &s.StartDate, &s.EndDate); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const createTeam = `INSERT INTO teams (season_id, name) VALUES (?, ?) RETURNING id, season_id, name`

func (q *Queries) CreateTeam(ctx context.Context, seasonID int64, name string) (Team, error) {
	var t Team
	err := q.db.QueryRowContext(ctx, createTeam, seasonID, name).Scan(&t.ID, &t.SeasonID, &t.Name)
	return t, mapError(err)
}

const listSeasonTeams = `SELECT id, season_id, name FROM teams WHERE season_id = ? ORDER BY name`

func (q *Queries) ListSeasonTeams(ctx context.Context, seasonID int64) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonTeams, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.SeasonID, &t.Name); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

type CreatePlayerParams struct {
	LeagueID  int64
	FirstName string
	LastName  string
}

const createPlayer = `INSERT INTO players (league_id, first_name, last_name) VALUES (?, ?, ?)
RETURNING id, league_id, first_name, last_name`

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	var p Player
	err := q.db.QueryRowContext(ctx, createPlayer, arg.LeagueID, arg.FirstName, arg.LastName).
		Scan(&p.ID, &p.LeagueID, &p.FirstName, &p.LastName)
	return p, mapError(err)
}

const getPlayer = `SELECT id, league_id, first_name, last_name FROM players WHERE league_id = ? AND id = ?`

func (q *Queries) GetPlayer(ctx context.Context, leagueID, playerID int64) (Player, error) {
	var p Player
	err := q.db.QueryRowContext(ctx, getPlayer, leagueID, playerID).
		Scan(&p.ID, &p.LeagueID, &p.FirstName, &p.LastName)
	return p, mapError(err)
}

const listLeaguePlayers = `SELECT id, league_id, first_name, last_name FROM players
WHERE league_id = ? ORDER BY last_name, first_name`

func (q *Queries) ListLeaguePlayers(ctx context.Context, leagueID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listLeaguePlayers, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.LeagueID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

type CreateGameParams struct {
	SeasonID   int64
	GameDate   string
	HomeTeamID int64
	AwayTeamID int64
}

const gameColumns = `id, season_id, game_date, home_team_id, away_team_id, home_score, away_score, status`

const createGame = `INSERT INTO games (season_id, game_date, home_team_id, away_team_id)
VALUES (?, ?, ?, ?) RETURNING ` + gameColumns

func scanGame(row interface{ Scan(...any) error }) (Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.SeasonID, &g.GameDate, &g.HomeTeamID, &g.AwayTeamID, &g.HomeScore, &g.AwayScore, &g.Status)
	return g, err
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	g, err := scanGame(q.db.QueryRowContext(ctx, createGame, arg.SeasonID, arg.GameDate, arg.HomeTeamID, arg.AwayTeamID))
	return g, mapError(err)
}

const getGame = `SELECT g.id, g.season_id, g.game_date, g.home_team_id, g.away_team_id, g.home_score, g.away_score, g.status
FROM games g JOIN seasons s ON s.id = g.season_id
WHERE s.league_id = ? AND g.id = ?`

func (q *Queries) GetGame(ctx context.Context, leagueID, gameID int64) (Game, error) {
	g, err := scanGame(q.db.QueryRowContext(ctx, getGame, leagueID, gameID))
	return g, mapError(err)
}

const recordFinalScore = `UPDATE games SET home_score = ?, away_score = ?, status = 'final' WHERE id = ?`

func (q *Queries) RecordFinalScore(ctx context.Context, gameID int64, homeScore, awayScore int64) error {
	res, err := q.db.ExecContext(ctx, recordFinalScore, homeScore, awayScore, gameID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	return nil
}

const listFinalGames = `SELECT ` + gameColumns + ` FROM games
WHERE season_id = ? AND status = 'final' ORDER BY game_date, id`

func (q *Queries) ListFinalGames(ctx context.Context, seasonID int64) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listFinalGames, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
