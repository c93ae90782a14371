// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/dugout/internal/api"
	statsapi "github.com/codr1/dugout/internal/api/stats"
	"github.com/codr1/dugout/internal/cache"
	"github.com/codr1/dugout/internal/config"
	"github.com/codr1/dugout/internal/db"
	"github.com/codr1/dugout/internal/metrics"
	"github.com/codr1/dugout/internal/ratelimit"
)

// serverDeps holds the long-lived pieces the handlers share.
type serverDeps struct {
	cache    *cache.Cache
	recorder *metrics.Recorder
	limiter  *ratelimit.Limiter
}

func (d serverDeps) Close() {
	if d.limiter != nil {
		d.limiter.Close()
	}
}

func newServer(cfg *config.Config, database *db.DB) (*http.Server, serverDeps, error) {
	var deps serverDeps
	if cfg.Features.EnableMetrics {
		deps.recorder = metrics.NewRecorder()
	}
	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache.Size, cfg.Cache.TTL, deps.recorder)
		if err != nil {
			return nil, deps, fmt.Errorf("create table cache: %w", err)
		}
		deps.cache = c
	}

	statsapi.InitHandlers(database, deps.cache, deps.recorder, statsapi.Settings{
		LeaderLimit:         cfg.Stats.LeaderLimit,
		MinPlateAppearances: cfg.Stats.MinPlateAppearances,
	})

	router := http.NewServeMux()
	registerRoutes(router, deps)

	// Last listed runs first.
	middleware := []api.Middleware{
		api.WithMetrics(deps.recorder),
		api.WithLogging,
		api.WithRecovery,
	}
	if cfg.RateLimit.Enabled {
		deps.limiter = ratelimit.New(ratelimit.Config{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
			Burst:    cfg.RateLimit.Burst,
		})
		middleware = append(middleware, api.WithRateLimit(deps.limiter, cfg.RateLimit.TrustProxy, deps.recorder))
	}
	middleware = append(middleware, api.WithRequestID)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      api.ChainMiddleware(router, middleware...),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps serverDeps) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.recorder != nil {
		mux.Handle("GET /metrics", deps.recorder.Handler())
	}

	statsapi.RegisterRoutes(mux)
}
