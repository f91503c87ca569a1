package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine"
	"github.com/lintang-b-s/navigatorx-scats/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testRoute struct {
	Rank          int      `json:"rank"`
	EstimatedTime float64  `json:"estimated_time"`
	Path          []string `json:"path"`
	TrafficLevel  string   `json:"traffic_level"`
	Polyline      string   `json:"polyline"`
	Diverse       bool     `json:"diverse"`
}

type testRoutesData struct {
	Origin json.RawMessage `json:"origin"`
	Model  string          `json:"model"`
	Routes []testRoute     `json:"routes"`
}

type testBody struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeRoutes(t *testing.T, body testBody) testRoutesData {
	t.Helper()
	var data testRoutesData
	require.NoError(t, json.Unmarshal(body.Data, &data))
	return data
}

func newTestHandler(t *testing.T, opts Options) http.Handler {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("engine.predictor.kind", engine.PredictorNone)
	cfg, err := engine.LoadConfig()
	require.NoError(t, err)

	graph, _, err := datastructure.NewIntersectionGraph([]datastructure.Site{
		datastructure.NewSite("A", -37.80, 145.00, []string{"B", "D"}),
		datastructure.NewSite("B", -37.80, 145.01, []string{"A", "C"}),
		datastructure.NewSite("C", -37.81, 145.01, []string{"B", "D"}),
		datastructure.NewSite("D", -37.81, 145.00, []string{"C", "A"}),
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	p := predictor.NewProfilePredictor()
	p.Set("A", "*", 0, 20)
	e, err := engine.NewEngineFromGraph(cfg, graph, p, metrics.New(reg), zap.NewNop())
	require.NoError(t, err)

	opts.DefaultModel = predictor.LSTM
	opts.Gatherer = reg
	service := usecases.NewRoutingService(zap.NewNop(), e, e.GetGraph())
	return NewAPI(zap.NewNop()).Handler(service, opts)
}

func get(t *testing.T, h http.Handler, path string, query url.Values) (*httptest.ResponseRecorder, testBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body testBody
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestComputeRoutes(t *testing.T) {
	h := newTestHandler(t, Options{})

	tests := []struct {
		name       string
		query      url.Values
		wantStatus int
		wantCode   string
		wantPaths  [][]string
	}{
		{
			name:       "two routes",
			query:      url.Values{"origin": {"A"}, "destination": {"D"}, "start_time": {"2006-10-02 08:00"}, "k": {"2"}},
			wantStatus: http.StatusOK,
			wantPaths:  [][]string{{"A", "D"}, {"A", "B", "C", "D"}},
		},
		{
			name:       "default k",
			query:      url.Values{"origin": {"A"}, "destination": {"D"}, "model": {"gru"}},
			wantStatus: http.StatusOK,
			wantPaths:  [][]string{{"A", "D"}, {"A", "B", "C", "D"}},
		},
		{
			name:       "missing origin",
			query:      url.Values{"destination": {"D"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "unknown origin",
			query:      url.Values{"origin": {"Z"}, "destination": {"D"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "unknown model",
			query:      url.Values{"origin": {"A"}, "destination": {"D"}, "model": {"ARIMA"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "bad start time",
			query:      url.Values{"origin": {"A"}, "destination": {"D"}, "start_time": {"tomorrow"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "k out of range",
			query:      url.Values{"origin": {"A"}, "destination": {"D"}, "k": {"100"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, h, "/api/computeRoutes", tt.query)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body.Error.Code)
				return
			}

			data := decodeRoutes(t, body)
			require.Len(t, data.Routes, len(tt.wantPaths))
			for i, want := range tt.wantPaths {
				r := data.Routes[i]
				assert.Equal(t, i+1, r.Rank)
				assert.Equal(t, want, r.Path)
				assert.NotEmpty(t, r.Polyline)
				assert.True(t, r.Diverse)
			}
			assert.Equal(t, "Very low traffic", data.Routes[0].TrafficLevel)
		})
	}
}

func TestComputeRoutesByCoords(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec, body := get(t, h, "/api/computeRoutesByCoords", url.Values{
		"origin_lat": {"-37.8001"}, "origin_lon": {"145.0001"},
		"destination_lat": {"-37.8099"}, "destination_lon": {"145.0001"},
		"k": {"1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeRoutes(t, body)
	require.Len(t, data.Routes, 1)
	assert.Equal(t, []string{"A", "D"}, data.Routes[0].Path)
	assert.Contains(t, string(data.Origin), `"site_id":"A"`)

	rec, body = get(t, h, "/api/computeRoutesByCoords", url.Values{
		"origin_lat": {"-33.86"}, "origin_lon": {"151.20"},
		"destination_lat": {"-37.8099"}, "destination_lon": {"145.0001"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestSitesHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec, body := get(t, h, "/api/sites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sites []struct {
		SiteId     string   `json:"site_id"`
		Neighbours []string `json:"neighbours"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &sites))
	require.Len(t, sites, 4)
	assert.Equal(t, "A", sites[0].SiteId)
	assert.Equal(t, []string{"B", "D"}, sites[0].Neighbours)

	rec, _ = get(t, h, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	get(t, h, "/api/computeRoutes", url.Values{"origin": {"A"}, "destination": {"D"}})
	rec, _ = get(t, h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "navigatorx_route_search_duration_seconds")
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, Options{UseRateLimit: true, RateLimitRPS: 0.001, RateLimitBurst: 1})

	rec, _ := get(t, h, "/api/sites", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, body := get(t, h, "/api/sites", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limit_exceeded", body.Error.Code)
}
