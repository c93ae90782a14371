// internal/api/stats/handlers.go
package stats

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/dugout/internal/api"
	"github.com/codr1/dugout/internal/api/apiutil"
	"github.com/codr1/dugout/internal/api/htmx"
	"github.com/codr1/dugout/internal/cache"
	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/leagues"
	"github.com/codr1/dugout/internal/metrics"
	"github.com/codr1/dugout/internal/request"
	appstats "github.com/codr1/dugout/internal/stats"
)

const (
	statsQueryTimeout  = 5 * time.Second
	defaultSearchLimit = 20
	defaultCategory    = "avg"
	careerLabel        = "season"
	careerTotalLabel   = "Career"
)

var (
	queries    *db.Queries
	tableCache *cache.Cache
	recorder   *metrics.Recorder
	settings   Settings
)

// Settings tunes leader boards.
type Settings struct {
	LeaderLimit         int
	MinPlateAppearances float64
}

type definitionSummary struct {
	Name     string   `json:"name"`
	GroupKey string   `json:"groupKey,omitempty"`
	Columns  []string `json:"columns"`
}

type tableResponse struct {
	Season db.Season      `json:"season"`
	Table  appstats.Table `json:"table"`
}

type careerResponse struct {
	Player  db.Player      `json:"player"`
	Seasons appstats.Table `json:"seasons"`
	Career  appstats.Line  `json:"career"`
}

type contextResponse struct {
	Player  db.Player     `json:"player"`
	GameID  int64         `json:"gameId"`
	From    string        `json:"from"`
	Through string        `json:"through"`
	Totals  appstats.Line `json:"totals"`
	Columns []string      `json:"columns"`
}

type leadersResponse struct {
	Season   db.Season        `json:"season"`
	Category leagues.Category `json:"category"`
	Leaders  []leagues.Leader `json:"leaders"`
}

type standingsResponse struct {
	Season    db.Season              `json:"season"`
	Standings []leagues.TeamStanding `json:"standings"`
}

// InitHandlers must be called during server startup before RegisterRoutes.
// A nil cache or recorder disables caching or metrics.
func InitHandlers(database *db.DB, c *cache.Cache, rec *metrics.Recorder, s Settings) {
	if database == nil {
		return
	}
	queries = database.Queries
	tableCache = c
	recorder = rec
	if s.LeaderLimit <= 0 {
		s.LeaderLimit = 10
	}
	settings = s
}

func loadQueries() *db.Queries {
	return queries
}

// RegisterRoutes mounts the stats API. League routes resolve {league_id}
// before the handler runs.
func RegisterRoutes(mux *http.ServeMux) {
	league := func(h http.HandlerFunc) http.Handler {
		return api.ChainMiddleware(h, api.WithLeague(loadQueries()))
	}
	const season = "/api/v1/leagues/{league_id}/seasons/{season_id}"

	mux.HandleFunc("GET /api/v1/stats/definitions", HandleDefinitions)
	mux.Handle("GET "+season+"/hitting", league(HandleSeasonTable(appstats.PlayerSeasonHitting)))
	mux.Handle("GET "+season+"/pitching", league(HandleSeasonTable(appstats.PlayerSeasonPitching)))
	mux.Handle("GET "+season+"/teams/hitting", league(HandleSeasonTable(appstats.TeamSeasonHitting)))
	mux.Handle("GET "+season+"/teams/pitching", league(HandleSeasonTable(appstats.TeamSeasonPitching)))
	mux.Handle("GET "+season+"/tables/{definition}", league(HandleDefinitionTable))
	mux.Handle("GET "+season+"/leaders", league(HandleLeaders))
	mux.Handle("GET "+season+"/standings", league(HandleStandings))
	mux.Handle("GET /api/v1/leagues/{league_id}/players/search", league(HandlePlayerSearch))
	mux.Handle("GET /api/v1/leagues/{league_id}/players/{player_id}/career", league(HandlePlayerCareer))
	mux.Handle("GET /api/v1/leagues/{league_id}/games/{game_id}/players/{player_id}/context", league(HandleStatContext))
}

// GET /api/v1/stats/definitions
func HandleDefinitions(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	names := appstats.Default.Names()
	defs := make([]definitionSummary, 0, len(names))
	for _, name := range names {
		def, err := appstats.Default.Get(name)
		if err != nil {
			logger.Error().Err(err).Str("definition", name).Msg("Failed to load stat definition")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defs = append(defs, definitionSummary{Name: def.Name, GroupKey: def.GroupKey, Columns: def.Columns()})
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, definitionsComponent(defs), nil, "Failed to render definitions", "Failed to render list")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"definitions": defs}); err != nil {
		logger.Error().Err(err).Msg("Failed to write definitions response")
	}
}

// HandleSeasonTable serves one definition aggregated over a season's final games.
func HandleSeasonTable(definition string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveSeasonTable(w, r, definition)
	}
}

// GET /api/v1/leagues/{league_id}/seasons/{season_id}/tables/{definition}
func HandleDefinitionTable(w http.ResponseWriter, r *http.Request) {
	serveSeasonTable(w, r, strings.TrimSpace(r.PathValue("definition")))
}

func serveSeasonTable(w http.ResponseWriter, r *http.Request, definition string) {
	q, league, seasonID, ok := seasonScope(w, r)
	if !ok {
		return
	}

	writeCached(w, r, league.ID, func(ctx context.Context) (any, templ.Component, error) {
		def, err := appstats.Lookup(definition)
		if err != nil {
			return nil, nil, err
		}
		season, err := q.GetSeason(ctx, league.ID, seasonID)
		if err != nil {
			return nil, nil, err
		}
		table, err := seasonTable(ctx, q, league.ID, season.ID, def)
		if err != nil {
			return nil, nil, err
		}
		return tableResponse{Season: season, Table: table}, tableComponent(table), nil
	})
}

// GET /api/v1/leagues/{league_id}/seasons/{season_id}/leaders
func HandleLeaders(w http.ResponseWriter, r *http.Request) {
	q, league, seasonID, ok := seasonScope(w, r)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("category"))
	if name == "" {
		name = defaultCategory
	}
	limit, err := apiutil.QueryInt(r, "limit", settings.LeaderLimit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	minimum, hasMinimum, err := queryMinimum(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeCached(w, r, league.ID, func(ctx context.Context) (any, templ.Component, error) {
		category, err := leagues.CategoryByName(name)
		if err != nil {
			return nil, nil, err
		}
		if category.Qualifier == appstats.PA && settings.MinPlateAppearances > 0 {
			category.Minimum = settings.MinPlateAppearances
		}
		if hasMinimum {
			category.Minimum = minimum
		}

		def, err := appstats.Lookup(appstats.LeagueLeaders)
		if err != nil {
			return nil, nil, err
		}
		season, err := q.GetSeason(ctx, league.ID, seasonID)
		if err != nil {
			return nil, nil, err
		}
		table, err := seasonTable(ctx, q, league.ID, season.ID, def)
		if err != nil {
			return nil, nil, err
		}
		leaders, err := leagues.Leaders(table, category, limit)
		if err != nil {
			return nil, nil, err
		}
		resp := leadersResponse{Season: season, Category: category, Leaders: leaders}
		return resp, leadersComponent(category, leaders), nil
	})
}

// GET /api/v1/leagues/{league_id}/seasons/{season_id}/standings
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	q, league, seasonID, ok := seasonScope(w, r)
	if !ok {
		return
	}

	writeCached(w, r, league.ID, func(ctx context.Context) (any, templ.Component, error) {
		season, err := q.GetSeason(ctx, league.ID, seasonID)
		if err != nil {
			return nil, nil, err
		}
		standings, err := leagues.SeasonStandings(ctx, q, season.ID)
		if err != nil {
			return nil, nil, err
		}
		return standingsResponse{Season: season, Standings: standings}, standingsComponent(standings), nil
	})
}

// GET /api/v1/leagues/{league_id}/players/{player_id}/career
func HandlePlayerCareer(w http.ResponseWriter, r *http.Request) {
	q, league, ok := leagueScope(w, r)
	if !ok {
		return
	}
	playerID, err := apiutil.PathInt64(r, "player_id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	definition := appstats.PlayerCareerHitting
	switch kind := strings.TrimSpace(r.URL.Query().Get("kind")); kind {
	case "", "hitting":
	case "pitching":
		definition = appstats.PlayerCareerPitching
	default:
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "kind", Reason: "must be hitting or pitching"})
		return
	}

	writeCached(w, r, league.ID, func(ctx context.Context) (any, templ.Component, error) {
		player, err := q.GetPlayer(ctx, league.ID, playerID)
		if err != nil {
			return nil, nil, err
		}
		def, err := appstats.Lookup(definition)
		if err != nil {
			return nil, nil, err
		}
		records, err := q.DefinitionRecords(ctx, def, db.StatFilter{LeagueID: league.ID, PlayerID: player.ID, FinalOnly: true})
		if err != nil {
			return nil, nil, err
		}
		table, err := aggregate(ctx, records, def)
		if err != nil {
			return nil, nil, err
		}
		career, err := appstats.AggregateTotals(records, def, map[string]any{careerLabel: careerTotalLabel})
		if err != nil {
			return nil, nil, err
		}
		delete(career.Labels, appstats.FieldSeasonName)
		resp := careerResponse{Player: player, Seasons: table, Career: career}
		return resp, careerComponent(table, career), nil
	})
}

// GET /api/v1/leagues/{league_id}/games/{game_id}/players/{player_id}/context
func HandleStatContext(w http.ResponseWriter, r *http.Request) {
	q, league, ok := leagueScope(w, r)
	if !ok {
		return
	}
	gameID, err := apiutil.PathInt64(r, "game_id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	playerID, err := apiutil.PathInt64(r, "player_id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeCached(w, r, league.ID, func(ctx context.Context) (any, templ.Component, error) {
		game, err := q.GetGame(ctx, league.ID, gameID)
		if err != nil {
			return nil, nil, err
		}
		season, err := q.GetSeason(ctx, league.ID, game.SeasonID)
		if err != nil {
			return nil, nil, err
		}
		player, err := q.GetPlayer(ctx, league.ID, playerID)
		if err != nil {
			return nil, nil, err
		}
		from, err := time.Parse(appstats.DateLayout, season.StartDate)
		if err != nil {
			return nil, nil, err
		}
		through, err := time.Parse(appstats.DateLayout, game.GameDate)
		if err != nil {
			return nil, nil, err
		}

		records, err := q.HittingRecords(ctx, db.StatFilter{LeagueID: league.ID, SeasonID: season.ID, PlayerID: player.ID})
		if err != nil {
			return nil, nil, err
		}
		line, err := appstats.ExtraStatContext(records, player.ID, from, through)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("player_id", player.ID).Int64("game_id", game.ID).Msg("Failed to build stat context")
			return nil, nil, err
		}

		def, err := appstats.Lookup(appstats.BoxscoreRunningHitting)
		if err != nil {
			return nil, nil, err
		}
		resp := contextResponse{
			Player:  player,
			GameID:  game.ID,
			From:    season.StartDate,
			Through: game.GameDate,
			Totals:  line,
			Columns: def.Columns(),
		}
		return resp, contextComponent(line, resp.Columns), nil
	})
}

// GET /api/v1/leagues/{league_id}/players/search?q=
func HandlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q, league, ok := leagueScope(w, r)
	if !ok {
		return
	}
	limit, err := apiutil.QueryInt(r, "limit", defaultSearchLimit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statsQueryTimeout)
	defer cancel()

	players, err := q.ListLeaguePlayers(ctx, league.ID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to list players")
		http.Error(w, "Failed to search players", http.StatusInternalServerError)
		return
	}
	matches := leagues.SearchPlayers(players, r.URL.Query().Get("q"), limit)

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(r.Context(), w, playerSearchComponent(matches), nil, "Failed to render player search", "Failed to render results")
		return
	}

	if matches == nil {
		matches = []db.Player{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"players": matches}); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write player search response")
	}
}

func leagueScope(w http.ResponseWriter, r *http.Request) (*db.Queries, db.League, bool) {
	q := loadQueries()
	if q == nil {
		log.Ctx(r.Context()).Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, db.League{}, false
	}
	league, ok := request.League(r.Context())
	if !ok {
		log.Ctx(r.Context()).Error().Msg("League missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, db.League{}, false
	}
	return q, league, true
}

func seasonScope(w http.ResponseWriter, r *http.Request) (*db.Queries, db.League, int64, bool) {
	q, league, ok := leagueScope(w, r)
	if !ok {
		return nil, db.League{}, 0, false
	}
	seasonID, ok := request.SeasonID(r)
	if !ok {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "season_id", Reason: "must be greater than 0"})
		return nil, db.League{}, 0, false
	}
	return q, league, seasonID, true
}

func seasonTable(ctx context.Context, q *db.Queries, leagueID, seasonID int64, def appstats.Definition) (appstats.Table, error) {
	records, err := q.DefinitionRecords(ctx, def, db.StatFilter{LeagueID: leagueID, SeasonID: seasonID, FinalOnly: true})
	if err != nil {
		return appstats.Table{}, err
	}
	return aggregate(ctx, records, def)
}

func queryMinimum(r *http.Request) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("min"))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, false, apiutil.FieldError{Field: "min", Reason: "must be a non-negative number"}
	}
	return value, true, nil
}
