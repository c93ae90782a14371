package request

import (
	"context"

	"github.com/codr1/dugout/internal/db"
)

type leagueKey struct{}

// ContextWithLeague returns a copy of ctx carrying the resolved league.
func ContextWithLeague(ctx context.Context, league db.League) context.Context {
	return context.WithValue(ctx, leagueKey{}, league)
}

// League returns the league resolved by the league middleware.
func League(ctx context.Context) (db.League, bool) {
	league, ok := ctx.Value(leagueKey{}).(db.League)
	return league, ok
}
