package spatialindex

import (
	"errors"
	"sort"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

var ErrNoSiteNearby = errors.New("no intersection near the query point")

type Rtree struct {
	tr *rtree.RTreeG[SiteCandidate]
}

// SiteCandidate. intersection near a query point
type SiteCandidate struct {
	id     da.Index
	siteId string
	lat    float64
	lon    float64
	dist   float64 // km from the query point, set by search
}

func (sc SiteCandidate) GetID() da.Index {
	return sc.id
}

func (sc SiteCandidate) GetSiteId() string {
	return sc.siteId
}

func (sc SiteCandidate) GetLat() float64 {
	return sc.lat
}

func (sc SiteCandidate) GetLon() float64 {
	return sc.lon
}

func (sc SiteCandidate) GetDist() float64 {
	return sc.dist
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[SiteCandidate]
	return &Rtree{
		tr: &tr,
	}
}

// Build. index every intersection as a point
func (rt *Rtree) Build(graph *da.IntersectionGraph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	graph.ForVertices(func(v *da.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, SiteCandidate{
			id:     v.GetID(),
			siteId: v.GetSiteId(),
			lat:    v.GetLat(),
			lon:    v.GetLon(),
		})
	})
	log.Info("R-tree spatial index built.", zap.Int("sites", rt.tr.Len()))
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius. intersections within radius (in km) of (qLat, qLon), nearest first
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []SiteCandidate {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius*1.5)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius*1.5)

	results := make([]SiteCandidate, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data SiteCandidate) bool {
			data.dist = geo.CalculateHaversineDistance(qLat, qLon, data.lat, data.lon)
			if data.dist <= radius {
				results = append(results, data)
			}
			return true
		})

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist != results[j].dist {
			return results[i].dist < results[j].dist
		}
		return results[i].siteId < results[j].siteId
	})
	return results
}

// NearestSite. nearest intersection to (qLat, qLon), doubling the search radius from initialRadius up to maxRadius (km)
func (rt *Rtree) NearestSite(qLat, qLon, initialRadius, maxRadius float64) (SiteCandidate, error) {
	if initialRadius <= 0 {
		initialRadius = maxRadius
	}
	for radius := initialRadius; ; radius *= 2 {
		radius = min(radius, maxRadius)
		if candidates := rt.SearchWithinRadius(qLat, qLon, radius); len(candidates) > 0 {
			return candidates[0], nil
		}
		if radius >= maxRadius {
			return SiteCandidate{}, ErrNoSiteNearby
		}
	}
}
