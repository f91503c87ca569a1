package predictor

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"golang.org/x/sync/singleflight"
)

const cacheName = "prediction"

type cacheKey struct {
	site   string
	bucket int64
	model  Model
}

type cachedFlow struct {
	flow      float64
	available bool
}

// CachedPredictor. memoizes predictions per (site, time bucket, model).
// "unavailable" answers are cached too, any other error is not.
// concurrent misses of the same key share one call to the wrapped predictor.
type CachedPredictor struct {
	next          FlowPredictor
	cache         *lru.Cache[cacheKey, cachedFlow]
	flight        singleflight.Group
	bucketSeconds int
	metrics       *metrics.Metrics
}

func NewCachedPredictor(next FlowPredictor, size, bucketSeconds int, m *metrics.Metrics) (*CachedPredictor, error) {
	if size <= 0 {
		size = pkg.PREDICTION_CACHE_SIZE
	}
	if bucketSeconds <= 0 {
		bucketSeconds = pkg.TIME_BUCKET_SECONDS
	}
	cache, err := lru.New[cacheKey, cachedFlow](size)
	if err != nil {
		return nil, err
	}
	return &CachedPredictor{
		next:          next,
		cache:         cache,
		bucketSeconds: bucketSeconds,
		metrics:       m,
	}, nil
}

func (cp *CachedPredictor) Predict(ctx context.Context, site string, t time.Time, model Model) (float64, error) {
	key := cacheKey{site: site, bucket: util.TruncateToBucket(t, cp.bucketSeconds), model: model}
	if v, ok := cp.cache.Get(key); ok {
		cp.metrics.CacheHit(cacheName)
		return v.toResult(site)
	}
	cp.metrics.CacheMiss(cacheName)

	flightKey := fmt.Sprintf("%s|%d|%s", key.site, key.bucket, key.model)
	res, err, _ := cp.flight.Do(flightKey, func() (interface{}, error) {
		if v, ok := cp.cache.Get(key); ok {
			return v, nil
		}
		flow, err := cp.next.Predict(ctx, site, t, model)
		switch {
		case err == nil:
			cp.metrics.Prediction("ok")
			v := cachedFlow{flow: flow, available: true}
			cp.cache.Add(key, v)
			return v, nil
		case errors.Is(err, ErrPredictionUnavailable):
			cp.metrics.Prediction("unavailable")
			v := cachedFlow{}
			cp.cache.Add(key, v)
			return v, nil
		default:
			cp.metrics.Prediction("error")
			return nil, err
		}
	})
	if err != nil {
		return 0, err
	}
	return res.(cachedFlow).toResult(site)
}

func (cp *CachedPredictor) Len() int {
	return cp.cache.Len()
}

func (v cachedFlow) toResult(site string) (float64, error) {
	if !v.available {
		return 0, fmt.Errorf("site %s: %w", site, ErrPredictionUnavailable)
	}
	return v.flow, nil
}
