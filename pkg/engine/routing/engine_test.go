package routing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/distance"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	mondayMorning = time.Date(2006, time.October, 2, 8, 0, 0, 0, time.UTC)
	mondayEvening = time.Date(2006, time.October, 2, 17, 0, 0, 0, time.UTC)
)

func unavailable(ctx context.Context, site string, t time.Time, model predictor.Model) (float64, error) {
	return 0, predictor.ErrPredictionUnavailable
}

type testRouter struct {
	*Router
	graph *da.IntersectionGraph
	cost  *costfunction.TrafficFlowFunction
}

func newTestRouter(t *testing.T, sites []da.Site, p predictor.FlowPredictor, cfg SearchConfig) *testRouter {
	t.Helper()
	g, _, err := da.NewIntersectionGraph(sites)
	require.NoError(t, err)
	dist, err := distance.NewCache(g, 1024)
	require.NoError(t, err)
	cost, err := costfunction.NewTrafficFlowFunction(costfunction.DefaultSpeedModel(), p, g, zap.NewNop())
	require.NoError(t, err)
	r, err := NewRouter(g, dist, cost, cfg, nil, zap.NewNop())
	require.NoError(t, err)
	return &testRouter{Router: r, graph: g, cost: cost}
}

// chainSites. A-B-C-D chain with a direct A-D shortcut
func chainSites() []da.Site {
	return []da.Site{
		da.NewSite("A", -37.80, 145.00, []string{"B", "D"}),
		da.NewSite("B", -37.80, 145.01, []string{"A", "C"}),
		da.NewSite("C", -37.81, 145.01, []string{"B", "D"}),
		da.NewSite("D", -37.81, 145.00, []string{"C", "A"}),
	}
}

// gridSites. rows x cols grid, site id "r{row}c{col}", 4-neighbourhood
func gridSites(rows, cols int) []da.Site {
	id := func(r, c int) string { return fmt.Sprintf("r%dc%d", r, c) }
	sites := make([]da.Site, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nbs := []string{}
			if r > 0 {
				nbs = append(nbs, id(r-1, c))
			}
			if c+1 < cols {
				nbs = append(nbs, id(r, c+1))
			}
			if r+1 < rows {
				nbs = append(nbs, id(r+1, c))
			}
			if c > 0 {
				nbs = append(nbs, id(r, c-1))
			}
			sites = append(sites, da.NewSite(id(r, c), -37.80-0.01*float64(r), 145.00+0.01*float64(c), nbs))
		}
	}
	return sites
}

func TestFindRoutesChain(t *testing.T) {
	tr := newTestRouter(t, chainSites(), predictor.PredictorFunc(unavailable), DefaultSearchConfig())

	routes, err := tr.FindRoutes(context.Background(), "A", "D", mondayMorning, predictor.LSTM, 2)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, []string{"A", "D"}, routes[0].GetPath())
	assert.Equal(t, []string{"A", "B", "C", "D"}, routes[1].GetPath())
	assert.Less(t, routes[0].GetTravelTime(), routes[1].GetTravelTime())
	assert.False(t, routes[0].IsRelaxed())
	assert.False(t, routes[1].IsRelaxed())

	// free flow at 60 km/h: one minute per km plus half a minute per intersection
	assert.InDelta(t, routes[0].GetDist()+0.5, routes[0].GetTravelTime(), 1e-9)
	assert.InDelta(t, routes[1].GetDist()+1.5, routes[1].GetTravelTime(), 1e-9)
	assert.InDelta(t, 117.0, routes[0].GetAverageTraffic(), 1e-9)
}

func TestFindRoutesGrid(t *testing.T) {
	tr := newTestRouter(t, gridSites(3, 3), predictor.PredictorFunc(unavailable), DefaultSearchConfig())

	routes, err := tr.FindRoutes(context.Background(), "r0c0", "r2c2", mondayMorning, predictor.GRU, 5)
	require.NoError(t, err)
	require.Len(t, routes, 5)

	seen := make(map[string]bool)
	for i, r := range routes {
		path := r.GetPath()
		assert.Equal(t, "r0c0", path[0])
		assert.Equal(t, "r2c2", path[len(path)-1])

		nodes := make(map[string]bool)
		for _, site := range path {
			assert.False(t, nodes[site], "route %d visits %s twice", i, site)
			nodes[site] = true
		}

		key := fmt.Sprint(path)
		assert.False(t, seen[key], "route %v returned twice", path)
		seen[key] = true

		if i > 0 {
			assert.LessOrEqual(t, routes[i-1].GetTravelTime(), r.GetTravelTime())
		}
	}
}

func TestFindRoutesOverlapBeforeRelaxation(t *testing.T) {
	tr := newTestRouter(t, gridSites(4, 4), predictor.PredictorFunc(unavailable), DefaultSearchConfig())

	routes, err := tr.FindRoutes(context.Background(), "r0c0", "r3c3", mondayMorning, predictor.LSTM, 5)
	require.NoError(t, err)
	require.Len(t, routes, 5)

	diverse := make([]*Route, 0)
	for _, r := range routes {
		if !r.IsRelaxed() {
			diverse = append(diverse, r)
		}
	}
	require.NotEmpty(t, diverse)

	for i := range diverse {
		for j := i + 1; j < len(diverse); j++ {
			a := siteEdges(diverse[i].GetPath())
			b := siteEdges(diverse[j].GetPath())
			shared := 0
			for e := range a {
				if b[e] {
					shared++
				}
			}
			assert.Less(t, float64(shared)/float64(min(len(a), len(b))), 0.7)
		}
	}
}

func siteEdges(path []string) map[[2]string]bool {
	edges := make(map[[2]string]bool)
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		if u > v {
			u, v = v, u
		}
		edges[[2]string{u, v}] = true
	}
	return edges
}

func TestReportedTimeExcludesPenalty(t *testing.T) {
	tr := newTestRouter(t, gridSites(3, 3), predictor.PredictorFunc(unavailable), DefaultSearchConfig())
	ctx := context.Background()

	routes, err := tr.FindRoutes(ctx, "r0c0", "r2c2", mondayMorning, predictor.SAES, 5)
	require.NoError(t, err)

	for _, r := range routes {
		want, wantDist := 0.0, 0.0
		path := r.GetPath()
		for i := 0; i+1 < len(path); i++ {
			u, _ := tr.graph.GetIndex(path[i])
			v, _ := tr.graph.GetIndex(path[i+1])
			d := tr.distances.Distance(u, v)
			segment, _ := tr.cost.GetSegmentTime(ctx, u, d, mondayMorning, predictor.SAES)
			want += segment
			wantDist += d
		}
		assert.InDelta(t, want, r.GetTravelTime(), 1e-9)
		assert.InDelta(t, wantDist, r.GetDist(), 1e-9)
	}
}

func TestFindRoutesTimeDependent(t *testing.T) {
	sites := []da.Site{
		da.NewSite("A", -37.80, 145.00, []string{"B", "C"}),
		da.NewSite("B", -37.79, 145.01, []string{"A", "D"}),
		da.NewSite("C", -37.81, 145.01, []string{"A", "D"}),
		da.NewSite("D", -37.80, 145.02, []string{"B", "C"}),
	}
	// B is congested in the morning peak, C in the evening peak
	p := predictor.PredictorFunc(func(ctx context.Context, site string, t time.Time, model predictor.Model) (float64, error) {
		switch {
		case site == "B" && t.Hour() == 8, site == "C" && t.Hour() == 17:
			return 80, nil
		}
		return 0, predictor.ErrPredictionUnavailable
	})
	tr := newTestRouter(t, sites, p, DefaultSearchConfig())

	tests := []struct {
		name  string
		start time.Time
		want  []string
	}{
		{name: "morning peak avoids B", start: mondayMorning, want: []string{"A", "C", "D"}},
		{name: "evening peak avoids C", start: mondayEvening, want: []string{"A", "B", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, err := tr.FindRoutes(context.Background(), "A", "D", tt.start, predictor.LSTM, 1)
			require.NoError(t, err)
			require.Len(t, routes, 1)
			assert.Equal(t, tt.want, routes[0].GetPath())
		})
	}
}

func TestFindRoutesEdgeCases(t *testing.T) {
	sites := append(chainSites(),
		da.NewSite("X", -37.90, 145.10, []string{"Y"}),
		da.NewSite("Y", -37.91, 145.10, []string{"X"}),
	)
	tr := newTestRouter(t, sites, predictor.PredictorFunc(unavailable), DefaultSearchConfig())
	ctx := context.Background()

	t.Run("disconnected", func(t *testing.T) {
		routes, err := tr.FindRoutes(ctx, "A", "X", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		assert.Empty(t, routes)
	})

	t.Run("unknown origin", func(t *testing.T) {
		routes, err := tr.FindRoutes(ctx, "nope", "D", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		assert.Empty(t, routes)
	})

	t.Run("unknown destination", func(t *testing.T) {
		routes, err := tr.FindRoutes(ctx, "A", "nope", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		assert.Empty(t, routes)
	})

	t.Run("origin is destination", func(t *testing.T) {
		routes, err := tr.FindRoutes(ctx, "B", "B", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, []string{"B"}, routes[0].GetPath())
		assert.Zero(t, routes[0].GetTravelTime())
		assert.Zero(t, routes[0].GetDist())
	})

	t.Run("fewer routes than requested", func(t *testing.T) {
		routes, err := tr.FindRoutes(ctx, "X", "Y", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, []string{"X", "Y"}, routes[0].GetPath())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		routes, err := tr.FindRoutes(cctx, "A", "D", mondayMorning, predictor.LSTM, 5)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, routes)
	})
}

func TestFindRoutesDeterministic(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.ShuffleNeighbors = true
	cfg.RandomSeed = 7

	run := func() [][]string {
		tr := newTestRouter(t, gridSites(4, 4), predictor.PredictorFunc(unavailable), cfg)
		routes, err := tr.FindRoutes(context.Background(), "r0c0", "r3c3", mondayMorning, predictor.LSTM, 5)
		require.NoError(t, err)
		paths := make([][]string, 0, len(routes))
		for _, r := range routes {
			paths = append(paths, r.GetPath())
		}
		return paths
	}

	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestFindRoutesIterationCap(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.MaxIterations = 3
	tr := newTestRouter(t, gridSites(5, 5), predictor.PredictorFunc(unavailable), cfg)

	routes, err := tr.FindRoutes(context.Background(), "r0c0", "r4c4", mondayMorning, predictor.LSTM, 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(routes), 5)
}

func TestNewRouterInvalidConfig(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.OverlapThreshold = 1.5
	_, err := NewRouter(nil, nil, nil, cfg, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSearchConfig)
}
