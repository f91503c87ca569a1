package routing

import (
	"time"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
)

// Route. one completed route from origin to destination
type Route struct {
	travelTime     float64 // minute
	dist           float64 // km
	path           []string
	averageTraffic float64 // vehicles/hour
	relaxed        bool
}

func NewRoute(travelTime, dist float64, path []string, averageTraffic float64) *Route {
	return &Route{
		travelTime:     travelTime,
		dist:           dist,
		path:           path,
		averageTraffic: averageTraffic,
	}
}

func (r *Route) GetTravelTime() float64 {
	return r.travelTime
}

func (r *Route) GetDist() float64 {
	return r.dist
}

// GetPath. site ids from origin to destination
func (r *Route) GetPath() []string {
	return r.path
}

func (r *Route) GetNumberOfIntersections() int {
	return len(r.path) - 1
}

// GetAverageTraffic. mean predicted hourly flow at the intersections the route departs from
func (r *Route) GetAverageTraffic() float64 {
	return r.averageTraffic
}

// IsRelaxed. true when the route was added without the overlap constraint because too few diverse routes exist
func (r *Route) IsRelaxed() bool {
	return r.relaxed
}

// partialPath. search tree node, the path is the chain of parents back to the origin.
type partialPath struct {
	vertex     da.Index
	parent     *partialPath
	length     int     // number of vertices
	travelTime float64 // minute, without diversity penalty
	cost       float64 // priority, travel time plus diversity penalty
	dist       float64 // km
	arrival    time.Time
	totalFlow  float64 // sum of hourly flow used by every segment
}

func newOriginPath(origin da.Index, start time.Time) *partialPath {
	return &partialPath{
		vertex:  origin,
		length:  1,
		arrival: start,
	}
}

func (pp *partialPath) extend(v da.Index, segmentTime, penalty, segmentDist, hourlyFlow float64,
	arrival time.Time) *partialPath {
	return &partialPath{
		vertex:     v,
		parent:     pp,
		length:     pp.length + 1,
		travelTime: pp.travelTime + segmentTime,
		cost:       pp.cost + segmentTime + penalty,
		dist:       pp.dist + segmentDist,
		arrival:    arrival,
		totalFlow:  pp.totalFlow + hourlyFlow,
	}
}

// contains. true if v is already on this path
func (pp *partialPath) contains(v da.Index) bool {
	for p := pp; p != nil; p = p.parent {
		if p.vertex == v {
			return true
		}
	}
	return false
}

func (pp *partialPath) vertices() []da.Index {
	vs := make([]da.Index, pp.length)
	i := pp.length - 1
	for p := pp; p != nil; p = p.parent {
		vs[i] = p.vertex
		i--
	}
	return vs
}

func (pp *partialPath) averageTraffic() float64 {
	if pp.length < 2 {
		return 0
	}
	return pp.totalFlow / float64(pp.length-1)
}
