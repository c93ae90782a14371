package request

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const seasonIDKey = "season_id"

// ParseID parses a positive int64 id from a query or path value.
func ParseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// SeasonID resolves the season a request is scoped to, checking the
// {season_id} path wildcard, then the season_id query parameter, then the
// season_id on the page htmx reports in HX-Current-URL.
func SeasonID(r *http.Request) (int64, bool) {
	if seasonID, ok := ParseID(r.PathValue(seasonIDKey)); ok {
		return seasonID, true
	}
	if seasonID, ok := ParseID(r.URL.Query().Get(seasonIDKey)); ok {
		return seasonID, true
	}

	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return 0, false
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return 0, false
	}

	return ParseID(parsed.Query().Get(seasonIDKey))
}
