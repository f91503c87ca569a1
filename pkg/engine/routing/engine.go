package routing

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/costfunction"
	met "github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"go.uber.org/zap"
)

var ErrNoRouteFound = errors.New("no route found")

// Router. time-dependent diversity aware multi route search over the intersection graph.
// safe for concurrent use, every FindRoutes call owns its search state.
type Router struct {
	graph        Graph
	distances    DistanceOracle
	costFunction costfunction.CostFunction
	config       SearchConfig
	metrics      *met.Metrics
	logger       *zap.Logger
}

func NewRouter(graph Graph, distances DistanceOracle, costFunction costfunction.CostFunction,
	config SearchConfig, metrics *met.Metrics, logger *zap.Logger) (*Router, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Router{
		graph:        graph,
		distances:    distances,
		costFunction: costFunction,
		config:       config,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// FindRoutes. up to numPaths routes from origin to destination departing at start, fastest first.
// numPaths <= 0 uses the configured number of paths.
// unknown or disconnected intersections give an empty result and a nil error.
// when ctx is done the routes found so far are returned together with ctx.Err().
func (r *Router) FindRoutes(ctx context.Context, origin, destination string, start time.Time,
	model predictor.Model, numPaths int) ([]*Route, error) {
	if numPaths <= 0 {
		numPaths = r.config.NumPaths
	}

	s, err := r.findRoutes(ctx, origin, destination, start, model, numPaths)
	if s == nil {
		return []*Route{}, err
	}

	routes := RankRoutes(s.results(), numPaths)
	elapsed := time.Since(s.startedAt).Seconds()
	r.metrics.ObserveSearch(elapsed, s.expanded, len(routes), s.truncated)
	r.logger.Debug("route search done", zap.String("origin", origin), zap.String("destination", destination),
		zap.Time("start", start), zap.String("model", model.String()), zap.Int("routes", len(routes)),
		zap.Int("expanded", s.expanded), zap.Int("iterations", s.iterations),
		zap.Bool("truncated", s.truncated), zap.Float64("seconds", elapsed))
	return routes, err
}

func (r *Router) findRoutes(ctx context.Context, origin, destination string, start time.Time,
	model predictor.Model, numPaths int) (*multiRouteSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	originId, ok := r.graph.GetIndex(origin)
	if !ok {
		r.logger.Debug("unknown origin", zap.String("origin", origin))
		return nil, nil
	}
	destinationId, ok := r.graph.GetIndex(destination)
	if !ok {
		r.logger.Debug("unknown destination", zap.String("destination", destination))
		return nil, nil
	}

	s := newMultiRouteSearch(r, originId, destinationId, start, model, numPaths)
	if originId == destinationId {
		s.accept(newOriginPath(originId, start), nil)
		return s, nil
	}
	if !r.graph.SameComponent(originId, destinationId) {
		r.logger.Debug("origin and destination are not connected", zap.String("origin", origin),
			zap.String("destination", destination))
		return s, nil
	}
	return s, s.run(ctx)
}
