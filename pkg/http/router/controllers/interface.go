package controllers

import (
	"context"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/spatialindex"
)

type RoutingService interface {
	ComputeRoutes(ctx context.Context, origin, destination string, start time.Time,
		model predictor.Model, k int) ([]usecases.RouteResult, error)
	ComputeRoutesByCoords(ctx context.Context, origLat, origLon, dstLat, dstLon float64, start time.Time,
		model predictor.Model, k int) (spatialindex.SiteCandidate, spatialindex.SiteCandidate, []usecases.RouteResult, error)
	Sites() []usecases.SiteInfo
}
