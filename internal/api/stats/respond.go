package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/dugout/internal/api/apiutil"
	"github.com/codr1/dugout/internal/api/htmx"
	"github.com/codr1/dugout/internal/cache"
	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/leagues"
	appstats "github.com/codr1/dugout/internal/stats"
)

// buildFunc produces the JSON payload and the HTML fragment for one response.
type buildFunc func(ctx context.Context) (any, templ.Component, error)

// writeCached serves a league-scoped response from the table cache, building
// and storing it on a miss. JSON and htmx fragments are cached separately and
// both carry an ETag honoured through If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, leagueID int64, build buildFunc) {
	logger := log.Ctx(r.Context())

	asHTML := htmx.IsRequest(r)
	variant := "json"
	if asHTML {
		variant = "html"
	}
	key := cache.Key(leagueID, r.URL.Path, r.URL.RawQuery, variant)

	entry, ok := tableCache.Get(key)
	if !ok {
		ctx, cancel := context.WithTimeout(r.Context(), statsQueryTimeout)
		defer cancel()

		payload, component, err := build(ctx)
		if err != nil {
			writeStatsError(w, r, err)
			return
		}

		body, contentType, err := encodeResponse(ctx, asHTML, payload, component)
		if err != nil {
			logger.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to encode stats response")
			http.Error(w, "Failed to render response", http.StatusInternalServerError)
			return
		}
		entry = tableCache.Set(key, body, contentType)
	}

	w.Header().Set("ETag", entry.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "HX-Request")
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), entry.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", entry.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(entry.Body); err != nil {
		logger.Error().Err(err).Msg("Failed to write stats response")
	}
}

func encodeResponse(ctx context.Context, asHTML bool, payload any, component templ.Component) ([]byte, string, error) {
	var buf bytes.Buffer
	if asHTML {
		if err := component.Render(ctx, &buf); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/html; charset=utf-8", nil
	}
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "application/json", nil
}

// writeStatsError maps lookup failures to 404 and leaves the rest to
// apiutil.WriteError.
func writeStatsError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appstats.ErrUnknownStatDefinition), errors.Is(err, leagues.ErrUnknownCategory):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: err.Error(), Err: err})
	case errors.Is(err, db.ErrNotFound):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Not found", Err: err})
	case errors.Is(err, db.ErrNoLineSource):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
	default:
		apiutil.WriteError(w, r, err)
	}
}

// aggregate runs the engine and records its outcome.
func aggregate(ctx context.Context, records []appstats.Record, def appstats.Definition) (appstats.Table, error) {
	start := time.Now()
	table, err := appstats.Aggregate(records, def)
	recorder.ObserveAggregation(def.Name, len(records), time.Since(start), err)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("definition", def.Name).Int("rows", len(records)).Msg("Aggregation failed")
		return appstats.Table{}, err
	}
	return table, nil
}
