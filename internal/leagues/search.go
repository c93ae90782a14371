package leagues

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/codr1/dugout/internal/db"
)

// playerNames implements fuzzy.Source over player full names.
type playerNames []db.Player

func (p playerNames) Len() int {
	return len(p)
}

func (p playerNames) String(i int) string {
	return strings.ToLower(p[i].FullName())
}

// SearchPlayers ranks players by fuzzy match of query against their full
// name, best match first. An empty query matches nobody.
func SearchPlayers(players []db.Player, query string, limit int) []db.Player {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(players) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, playerNames(players))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]db.Player, len(matches))
	for i, match := range matches {
		results[i] = players[match.Index]
	}
	return results
}
