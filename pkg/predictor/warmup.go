package predictor

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
)

type WarmupResult struct {
	Predicted   int
	Unavailable int
	Failed      int
}

// Warmup. ask the predictor for every site at t with numWorkers goroutines, so that a CachedPredictor
// answers the first searches from memory.
func Warmup(ctx context.Context, p FlowPredictor, sites []string, t time.Time, model Model, numWorkers int) WarmupResult {
	outcomes := concurrent.Map(numWorkers, sites, func(site string) error {
		if util.StopConcurrentOperation(ctx) {
			return ctx.Err()
		}
		_, err := p.Predict(ctx, site, t, model)
		return err
	})

	var res WarmupResult
	for _, err := range outcomes {
		switch {
		case err == nil:
			res.Predicted++
		case errors.Is(err, ErrPredictionUnavailable):
			res.Unavailable++
		default:
			res.Failed++
		}
	}
	return res
}
