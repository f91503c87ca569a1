package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-scats/pkg/geo"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"go.uber.org/zap"
)

// RouteResult. route with its encoded polyline and traffic level label
type RouteResult struct {
	route        *routing.Route
	polyline     string
	trafficLevel string
}

func (rr RouteResult) GetRoute() *routing.Route {
	return rr.route
}

func (rr RouteResult) GetPolyline() string {
	return rr.polyline
}

func (rr RouteResult) GetTrafficLevel() string {
	return rr.trafficLevel
}

// SiteInfo. one intersection of the graph
type SiteInfo struct {
	SiteId     string
	Lat        float64
	Lon        float64
	Neighbours []string
}

type RoutingService struct {
	log    *zap.Logger
	engine RoutingEngine
	graph  SiteGraph
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, graph SiteGraph) *RoutingService {
	return &RoutingService{
		log:    log,
		engine: engine,
		graph:  graph,
	}
}

// ComputeRoutes. up to k routes between two site ids, fastest first.
func (rs *RoutingService) ComputeRoutes(ctx context.Context, origin, destination string, start time.Time,
	model predictor.Model, k int) ([]RouteResult, error) {
	if _, _, err := rs.graph.Coordinates(origin); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "unknown origin %s", origin)
	}
	if _, _, err := rs.graph.Coordinates(destination); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "unknown destination %s", destination)
	}

	routes, err := rs.engine.FindRoutes(ctx, origin, destination, start, model, k)
	if err != nil {
		if len(routes) == 0 {
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "route search from %s to %s",
				origin, destination)
		}
		rs.log.Warn("route search interrupted, returning partial result", zap.String("origin", origin),
			zap.String("destination", destination), zap.Int("routes", len(routes)), zap.Error(err))
	}
	if len(routes) == 0 {
		return nil, util.WrapErrorf(routing.ErrNoRouteFound, util.ErrNotFound, "no route found from %s to %s",
			origin, destination)
	}

	results := make([]RouteResult, 0, len(routes))
	for _, r := range routes {
		results = append(results, rs.newRouteResult(r))
	}
	return results, nil
}

// ComputeRoutesByCoords. snap both coordinates to the nearest intersection, then ComputeRoutes.
func (rs *RoutingService) ComputeRoutesByCoords(ctx context.Context, origLat, origLon, dstLat, dstLon float64,
	start time.Time, model predictor.Model, k int) (spatialindex.SiteCandidate, spatialindex.SiteCandidate,
	[]RouteResult, error) {
	origin, err := rs.snap(origLat, origLon)
	if err != nil {
		return origin, spatialindex.SiteCandidate{}, nil, err
	}
	destination, err := rs.snap(dstLat, dstLon)
	if err != nil {
		return origin, destination, nil, err
	}

	results, err := rs.ComputeRoutes(ctx, origin.GetSiteId(), destination.GetSiteId(), start, model, k)
	return origin, destination, results, err
}

func (rs *RoutingService) snap(lat, lon float64) (spatialindex.SiteCandidate, error) {
	site, err := rs.engine.NearestSite(lat, lon)
	if err != nil {
		if errors.Is(err, spatialindex.ErrNoSiteNearby) {
			return site, util.WrapErrorf(err, util.ErrNotFound, "no intersection near %f,%f", lat, lon)
		}
		return site, util.WrapErrorf(err, util.ErrInternalServerError, "snap %f,%f", lat, lon)
	}
	return site, nil
}

// Sites. every intersection ordered by site id
func (rs *RoutingService) Sites() []SiteInfo {
	sites := make([]SiteInfo, 0)
	rs.graph.ForVertices(func(v *da.Vertex) {
		sites = append(sites, SiteInfo{
			SiteId:     v.GetSiteId(),
			Lat:        v.GetLat(),
			Lon:        v.GetLon(),
			Neighbours: rs.graph.Neighbors(v.GetSiteId()),
		})
	})
	sort.Slice(sites, func(i, j int) bool {
		return sites[i].SiteId < sites[j].SiteId
	})
	return sites
}

func (rs *RoutingService) newRouteResult(r *routing.Route) RouteResult {
	coords := make([]geo.Coordinate, 0, len(r.GetPath()))
	for _, site := range r.GetPath() {
		lat, lon, err := rs.graph.Coordinates(site)
		if err != nil {
			continue
		}
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}

	intervalFlow := r.GetAverageTraffic() * pkg.REPORTING_INTERVAL_MINUTES / 60.0
	return RouteResult{
		route:        r,
		polyline:     geo.PolylineFromCoords(coords),
		trafficLevel: predictor.InterpretFlow(intervalFlow),
	}
}
