package costfunction

import (
	"context"
	"time"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
)

// CostFunction. time-dependent travel time of a road segment leaving vertex u at departure.
type CostFunction interface {
	// GetSegmentTime. minutes to drive distanceKm leaving u at departure, and the hourly flow used
	GetSegmentTime(ctx context.Context, u da.Index, distanceKm float64, departure time.Time,
		model predictor.Model) (minutes float64, hourlyFlow float64)
}

type SiteResolver interface {
	GetSiteId(u da.Index) string
}
