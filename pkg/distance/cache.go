package distance

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-scats/pkg"
	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/geo"
	"github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
)

const cacheName = "distance"

type CoordinateSource interface {
	GetVertexCoordinates(u da.Index) (float64, float64, bool)
}

// DistanceFunc. distance in km between two coordinates
type DistanceFunc func(latOne, lonOne, latTwo, lonTwo float64) float64

// pairKey. unordered vertex pair, smaller index first
type pairKey struct {
	u, v da.Index
}

func newPairKey(a, b da.Index) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{u: a, v: b}
}

// Cache. memoized geodesic distance between intersections.
// github.com/hashicorp/golang-lru/v2 is thread-safe, two goroutines missing the same pair compute it twice.
type Cache struct {
	coords   CoordinateSource
	cache    *lru.Cache[pairKey, float64]
	distFunc DistanceFunc
	metrics  *metrics.Metrics
}

type Option func(*Cache)

// WithDistanceFunc. replace the s2 geodesic distance
func WithDistanceFunc(f DistanceFunc) Option {
	return func(c *Cache) { c.distFunc = f }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func NewCache(coords CoordinateSource, size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = pkg.DISTANCE_CACHE_SIZE
	}
	cache, err := lru.New[pairKey, float64](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		coords:   coords,
		cache:    cache,
		distFunc: geo.CalculateGeodesicDistance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Distance. km between a and b. 0 when the coordinates of a or b are unknown (not "adjacent").
func (c *Cache) Distance(a, b da.Index) float64 {
	if a == b {
		return 0
	}
	key := newPairKey(a, b)
	if d, ok := c.cache.Get(key); ok {
		c.metrics.CacheHit(cacheName)
		return d
	}
	c.metrics.CacheMiss(cacheName)

	latA, lonA, okA := c.coords.GetVertexCoordinates(key.u)
	latB, lonB, okB := c.coords.GetVertexCoordinates(key.v)
	if !okA || !okB {
		return 0
	}

	d := c.distFunc(latA, lonA, latB, lonB)
	c.cache.Add(key, d)
	return d
}

func (c *Cache) Len() int {
	return c.cache.Len()
}
