package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/distance"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/spatialindex"
	"go.uber.org/zap"
)

type Engine struct {
	config    Config
	graph     *datastructure.IntersectionGraph
	router    *routing.Router
	predictor *predictor.CachedPredictor
	rtree     *spatialindex.Rtree
	logger    *zap.Logger
}

func (e *Engine) GetGraph() *datastructure.IntersectionGraph {
	return e.graph
}

func (e *Engine) GetPredictor() *predictor.CachedPredictor {
	return e.predictor
}

// NewEngine. read the intersection graph and the flow predictor described by cfg and assemble the router.
func NewEngine(cfg Config, met *metrics.Metrics, logger *zap.Logger) (*Engine, error) {
	logger.Info("Reading intersection graph from ", zap.String("graphFile", cfg.GraphFile))
	graph, err := datastructure.ReadIntersectionGraph(cfg.GraphFile, logger)
	if err != nil {
		return nil, err
	}

	flowPredictor, err := newFlowPredictor(cfg.Predictor, logger)
	if err != nil {
		return nil, err
	}
	return NewEngineFromGraph(cfg, graph, flowPredictor, met, logger)
}

// NewEngineFromGraph. assemble the router on an already loaded graph and predictor.
func NewEngineFromGraph(cfg Config, graph *datastructure.IntersectionGraph, flowPredictor predictor.FlowPredictor,
	met *metrics.Metrics, logger *zap.Logger) (*Engine, error) {
	cached, err := predictor.NewCachedPredictor(flowPredictor, cfg.Predictor.CacheSize,
		cfg.Search.TimeBucketSeconds, met)
	if err != nil {
		return nil, err
	}

	distances, err := distance.NewCache(graph, cfg.DistanceCacheSize, distance.WithMetrics(met))
	if err != nil {
		return nil, err
	}

	costFunction, err := costfunction.NewTrafficFlowFunction(cfg.SpeedModel, cached, graph, logger)
	if err != nil {
		return nil, err
	}

	router, err := routing.NewRouter(graph, distances, costFunction, cfg.Search, met, logger)
	if err != nil {
		return nil, err
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, logger)

	return &Engine{
		config:    cfg,
		graph:     graph,
		router:    router,
		predictor: cached,
		rtree:     rtree,
		logger:    logger,
	}, nil
}

func newFlowPredictor(cfg PredictorConfig, logger *zap.Logger) (predictor.FlowPredictor, error) {
	switch cfg.Kind {
	case PredictorProfile:
		logger.Info("Reading flow profile from ", zap.String("profileFile", cfg.ProfileFile))
		return predictor.ReadProfile(cfg.ProfileFile, logger)
	case PredictorRemote:
		logger.Info("Using remote flow predictor", zap.String("baseURL", cfg.BaseURL))
		rc := predictor.DefaultRemoteConfig(cfg.BaseURL)
		rc.Timeout = cfg.Timeout
		rc.RequestsPerSec = cfg.RequestsPerSec
		rc.Burst = cfg.Burst
		rc.AdjustTimeOfDay = cfg.AdjustTimeOfDay
		return predictor.NewRemotePredictor(rc, nil), nil
	case PredictorNone:
		logger.Warn("no flow predictor configured, every segment uses the default flow")
		return predictor.PredictorFunc(func(ctx context.Context, site string, t time.Time,
			model predictor.Model) (float64, error) {
			return 0, predictor.ErrPredictionUnavailable
		}), nil
	}
	return nil, fmt.Errorf("unknown predictor kind %q", cfg.Kind)
}

// Warmup. prefetch the flow of every site at t into the prediction cache
func (e *Engine) Warmup(ctx context.Context, t time.Time, model predictor.Model) predictor.WarmupResult {
	sites := make([]string, 0, e.graph.NumberOfVertices())
	e.graph.ForVertices(func(v *datastructure.Vertex) {
		sites = append(sites, v.GetSiteId())
	})

	start := time.Now()
	res := predictor.Warmup(ctx, e.predictor, sites, t, model, e.config.Predictor.WarmupWorkers)
	e.logger.Info("prediction cache warmed up", zap.Time("time", t), zap.String("model", model.String()),
		zap.Int("predicted", res.Predicted), zap.Int("unavailable", res.Unavailable),
		zap.Int("failed", res.Failed), zap.Duration("took", time.Since(start)))
	return res
}

// FindRoutes. site id routes, see routing.Router.FindRoutes
func (e *Engine) FindRoutes(ctx context.Context, origin, destination string, start time.Time,
	model predictor.Model, numPaths int) ([]*routing.Route, error) {
	return e.router.FindRoutes(ctx, origin, destination, start, model, numPaths)
}

// NearestSite. site id of the intersection nearest to (lat, lon)
func (e *Engine) NearestSite(lat, lon float64) (spatialindex.SiteCandidate, error) {
	return e.rtree.NearestSite(lat, lon, e.config.Snap.InitialRadiusKm, e.config.Snap.MaxRadiusKm)
}
