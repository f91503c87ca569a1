package usecases

import (
	"context"
	"time"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/spatialindex"
)

type RoutingEngine interface {
	FindRoutes(ctx context.Context, origin, destination string, start time.Time,
		model predictor.Model, numPaths int) ([]*routing.Route, error)
	NearestSite(lat, lon float64) (spatialindex.SiteCandidate, error)
}

type SiteGraph interface {
	Coordinates(siteId string) (float64, float64, error)
	Neighbors(siteId string) []string
	ForVertices(handle func(v *da.Vertex))
}
