package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/dugout/internal/config"
	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/leagues"
	"github.com/codr1/dugout/internal/request"
	"github.com/codr1/dugout/internal/stats"
)

const commandTimeout = time.Minute

type rootOptions struct {
	configPath string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "statsctl",
		Short:        "Dugout stats toolkit",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/app.yaml", "YAML config file used to locate the database")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides --config)")

	root.AddCommand(definitionsCmd())
	root.AddCommand(tableCmd(opts))
	root.AddCommand(migrateCmd(opts))
	root.AddCommand(scheduleCmd(opts))
	return root
}

// databasePath prefers --db and falls back to the configured filename.
func (o *rootOptions) databasePath() (string, error) {
	if o.dbPath != "" {
		return o.dbPath, nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.Filename, nil
}

// open returns a migrated database.
func (o *rootOptions) open() (*db.DB, error) {
	path, err := o.databasePath()
	if err != nil {
		return nil, err
	}
	return db.New(path)
}

// --------------------------------------------------------------------------
// definitions
// --------------------------------------------------------------------------

func definitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "definitions",
		Short: "List registered stat definitions and their columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP BY\tCOLUMNS")
			for _, name := range stats.Default.Names() {
				def, err := stats.Default.Get(name)
				if err != nil {
					return err
				}
				groupKey := def.GroupKey
				if groupKey == "" {
					groupKey = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, groupKey, strings.Join(def.Columns(), " "))
			}
			return tw.Flush()
		},
	}
}

// --------------------------------------------------------------------------
// table
// --------------------------------------------------------------------------

func tableCmd(opts *rootOptions) *cobra.Command {
	var (
		leagueRef  string
		seasonID   int64
		definition string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Aggregate one definition over a season's final games",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := stats.Lookup(definition)
			if err != nil {
				return err
			}
			database, err := opts.open()
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			league, err := resolveLeague(ctx, database.Queries, leagueRef)
			if err != nil {
				return err
			}
			if _, err := database.Queries.GetSeason(ctx, league.ID, seasonID); err != nil {
				return fmt.Errorf("season %d: %w", seasonID, err)
			}
			records, err := database.Queries.DefinitionRecords(ctx, def, db.StatFilter{LeagueID: league.ID, SeasonID: seasonID, FinalOnly: true})
			if err != nil {
				return err
			}
			table, err := stats.Aggregate(records, def)
			if err != nil {
				log.Error().Err(err).Str("definition", def.Name).Int64("league_id", league.ID).Int64("season_id", seasonID).Msg("Aggregation failed")
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			return writeTable(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().StringVar(&leagueRef, "league", "", "League id or slug")
	cmd.Flags().Int64Var(&seasonID, "season", 0, "Season id")
	cmd.Flags().StringVar(&definition, "definition", stats.PlayerSeasonHitting, "Stat definition name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func writeTable(out io.Writer, table stats.Table) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	header := table.Columns
	if table.GroupKey != "" {
		header = append([]string{table.GroupKey}, header...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, line := range table.Lines {
		cells := make([]string, 0, len(header))
		if table.GroupKey != "" {
			cells = append(cells, fmt.Sprint(line.Key))
		}
		for _, col := range table.Columns {
			cells = append(cells, line.Display(col))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func resolveLeague(ctx context.Context, q *db.Queries, ref string) (db.League, error) {
	var (
		league db.League
		err    error
	)
	if id, ok := request.ParseID(ref); ok {
		league, err = q.GetLeague(ctx, id)
	} else {
		league, err = q.GetLeagueBySlug(ctx, strings.TrimSpace(ref))
	}
	if err != nil {
		return db.League{}, fmt.Errorf("league %q: %w", ref, err)
	}
	return league, nil
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withRawDB := func(fn func(*sql.DB, io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			path, err := opts.databasePath()
			if err != nil {
				return err
			}
			sqlDB, err := db.Open(path)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return fn(sqlDB, cmd.OutOrStdout())
		}
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: withRawDB(func(sqlDB *sql.DB, out io.Writer) error {
			if err := db.MigrateDown(sqlDB, steps); err != nil {
				return err
			}
			fmt.Fprintf(out, "Rolled back %d migration(s)\n", steps)
			return nil
		}),
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withRawDB(func(sqlDB *sql.DB, out io.Writer) error {
				if err := db.MigrateUp(sqlDB); err != nil {
					return err
				}
				fmt.Fprintln(out, "Migrations applied")
				return nil
			}),
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withRawDB(func(sqlDB *sql.DB, out io.Writer) error {
				version, dirty, ok, err := db.MigrationVersion(sqlDB)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Version: none")
					return nil
				}
				fmt.Fprintf(out, "Version: %d, Dirty: %v\n", version, dirty)
				return nil
			}),
		},
	)
	return cmd
}

// --------------------------------------------------------------------------
// schedule
// --------------------------------------------------------------------------

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func scheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		leagueRef   string
		seasonID    int64
		start, end  string
		days        []string
		gamesPerDay int
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a round-robin schedule for a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(stats.DateLayout, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endDate, err := time.Parse(stats.DateLayout, end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			gameDays, err := parseWeekdays(days)
			if err != nil {
				return err
			}

			database, err := opts.open()
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			league, err := resolveLeague(ctx, database.Queries, leagueRef)
			if err != nil {
				return err
			}
			if _, err := database.Queries.GetSeason(ctx, league.ID, seasonID); err != nil {
				return fmt.Errorf("season %d: %w", seasonID, err)
			}
			rows, err := database.Queries.ListSeasonTeams(ctx, seasonID)
			if err != nil {
				return err
			}
			teams := make([]leagues.Team, len(rows))
			for i, row := range rows {
				teams[i] = leagues.Team{ID: row.ID, Name: row.Name}
			}

			schedule, err := leagues.GenerateRoundRobinSchedule(teams, startDate, endDate, gameDays, gamesPerDay)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUND\tDATE\tHOME\tAWAY")
			for _, g := range schedule {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.Round, g.GameDate.Format(stats.DateLayout), g.HomeTeam.Name, g.AwayTeam.Name)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			created, err := leagues.ScheduleSeason(ctx, database, seasonID, schedule)
			if err != nil {
				return err
			}
			log.Info().Int64("season_id", seasonID).Int("games", len(created)).Msg("Season scheduled")
			fmt.Fprintf(out, "Created %d game(s)\n", len(created))
			return nil
		},
	}
	cmd.Flags().StringVar(&leagueRef, "league", "", "League id or slug")
	cmd.Flags().Int64Var(&seasonID, "season", 0, "Season id")
	cmd.Flags().StringVar(&start, "start", "", "First playable date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last playable date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&days, "days", []string{"sat"}, "Game days, e.g. sat,sun")
	cmd.Flags().IntVar(&gamesPerDay, "per-day", 1, "Games per game day")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the schedule without writing it")
	for _, name := range []string{"league", "season", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func parseWeekdays(values []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if len(key) > 3 {
			key = key[:3]
		}
		day, ok := weekdays[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", v)
		}
		days = append(days, day)
	}
	return days, nil
}
