package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/dugout/internal/cache"
	"github.com/codr1/dugout/internal/db"
)

const (
	cacheRefreshJobName = "stat_cache_refresh"
	cacheRefreshTimeout = 30 * time.Second
)

// RegisterCacheRefresh schedules RefreshCache on cronExpr.
func RegisterCacheRefresh(s *Service, database *db.DB, c *cache.Cache, cronExpr string) (gocron.Job, error) {
	if database == nil {
		return nil, fmt.Errorf("cache refresh job requires database")
	}
	jobLogger := log.With().
		Str("component", "stat_cache_refresh_job").
		Str("job_name", cacheRefreshJobName).
		Logger()

	return s.AddJob(cacheRefreshJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheRefreshTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		removed, err := RefreshCache(ctx, database.Queries, c)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Stat cache refresh failed")
			return
		}
		jobLogger.Info().Int("removed", removed).Msg("Stat cache refreshed")
	})
}

// RefreshCache drops every league's cached tables so the next request
// re-aggregates from the store. Entries for leagues that no longer exist are
// purged along with the rest.
func RefreshCache(ctx context.Context, q *db.Queries, c *cache.Cache) (int, error) {
	if c == nil {
		return 0, nil
	}
	leagues, err := q.ListLeagues(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leagues: %w", err)
	}

	removed := 0
	for _, league := range leagues {
		n := c.InvalidatePrefix(cache.LeaguePrefix(league.ID))
		if n > 0 {
			log.Ctx(ctx).Debug().Int64("league_id", league.ID).Int("removed", n).Msg("Invalidated league tables")
		}
		removed += n
	}
	if stale := c.Len(); stale > 0 {
		removed += stale
		c.Purge()
	}
	return removed, nil
}
