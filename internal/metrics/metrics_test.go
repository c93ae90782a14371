package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecorderExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.ObserveRequest("GET /api/v1/stats/definitions", http.StatusOK, 12*time.Millisecond)
	r.ObserveAggregation("player_season_hitting", 40, time.Millisecond, nil)
	r.ObserveAggregation("player_season_hitting", 3, time.Millisecond, errors.New("bad row"))
	r.CacheHit()
	r.CacheMiss()
	r.RateLimited()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`dugout_http_requests_total{route="GET /api/v1/stats/definitions",status="200"} 1`,
		`dugout_aggregations_total{definition="player_season_hitting",outcome="error"} 1`,
		`dugout_aggregations_total{definition="player_season_hitting",outcome="ok"} 1`,
		`dugout_table_cache_lookups_total{result="hit"} 1`,
		`dugout_rate_limited_requests_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveRequest("x", 200, time.Second)
	r.ObserveAggregation("x", 1, time.Second, nil)
	r.CacheHit()
	r.CacheMiss()
	r.RateLimited()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
