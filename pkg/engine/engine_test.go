package engine

import (
	"context"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ENGINE_SEARCH_NUM_PATHS", "3")
	t.Setenv("ENGINE_PREDICTOR_KIND", "none")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.NumPaths)
	assert.Equal(t, PredictorNone, cfg.Predictor.Kind)
	assert.Equal(t, 0.7, cfg.Search.OverlapThreshold)
	assert.Equal(t, 117.0, cfg.SpeedModel.DefaultHourlyFlow)
	assert.Equal(t, 2*time.Second, cfg.Predictor.Timeout)
}

func TestLoadConfigInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("engine.search.overlap_threshold", 0)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("engine.predictor.kind", PredictorNone)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	graph, _, err := datastructure.NewIntersectionGraph([]datastructure.Site{
		datastructure.NewSite("970", -37.86703, 145.09159, []string{"2846", "3685"}),
		datastructure.NewSite("2846", -37.86149, 145.05848, []string{"970"}),
		datastructure.NewSite("3685", -37.85467, 145.09384, []string{"970", "2846"}),
	})
	require.NoError(t, err)

	profile := predictor.NewProfilePredictor()
	profile.Set("970", "*", 8*60, 20)
	e, err := NewEngineFromGraph(cfg, graph, profile, nil, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestEngineFindRoutes(t *testing.T) {
	e := newTestEngine(t)
	start := time.Date(2006, time.October, 2, 8, 0, 0, 0, time.UTC)

	routes, err := e.FindRoutes(context.Background(), "970", "2846", start, predictor.LSTM, 0)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, []string{"970", "2846"}, routes[0].GetPath())
	assert.Equal(t, []string{"970", "3685", "2846"}, routes[1].GetPath())
	assert.InDelta(t, 240.0, routes[0].GetAverageTraffic(), 1e-9)
}

func TestEngineWarmupAndSnap(t *testing.T) {
	e := newTestEngine(t)
	start := time.Date(2006, time.October, 2, 8, 0, 0, 0, time.UTC)

	res := e.Warmup(context.Background(), start, predictor.GRU)
	assert.Equal(t, predictor.WarmupResult{Predicted: 1, Unavailable: 2}, res)
	assert.Equal(t, 3, e.GetPredictor().Len())

	site, err := e.NearestSite(-37.8670, 145.0915)
	require.NoError(t, err)
	assert.Equal(t, "970", site.GetSiteId())
}
