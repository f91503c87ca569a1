package routing

import (
	"context"
	"sort"
	"time"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"golang.org/x/exp/rand"
)

// stateKey. intersection and arrival time bucket
type stateKey struct {
	vertex da.Index
	bucket int64
}

type acceptedRoute struct {
	edges map[edgeKey]struct{}
	route *Route
}

// multiRouteSearch. best first search over partial paths ordered by travel time plus diversity penalty.
// a completed path is accepted when it overlaps less than the threshold with every accepted route,
// otherwise it is kept as reserve for the relaxation pass.
type multiRouteSearch struct {
	router        *Router
	config        SearchConfig
	origin        da.Index
	destination   da.Index
	start         time.Time
	model         predictor.Model
	numPaths      int
	maxExpansions int

	pq        *da.MinHeap[*partialPath]
	expansion map[stateKey]int
	penalties *penaltyTable
	rng       *rand.Rand
	nbBuf     []da.Index

	accepted []acceptedRoute
	reserve  []*partialPath

	startedAt  time.Time
	expanded   int
	iterations int
	truncated  bool
}

func newMultiRouteSearch(r *Router, origin, destination da.Index, start time.Time, model predictor.Model,
	numPaths int) *multiRouteSearch {
	cfg := r.config
	return &multiRouteSearch{
		router:        r,
		config:        cfg,
		origin:        origin,
		destination:   destination,
		start:         start,
		model:         model,
		numPaths:      numPaths,
		maxExpansions: cfg.stateExpansionLimit(numPaths),
		pq:            da.NewFourAryHeap[*partialPath](),
		expansion:     make(map[stateKey]int),
		penalties:     newPenaltyTable(cfg.PenaltyPerSharedEdge, cfg.PenaltyCap),
		rng:           rand.New(rand.NewSource(uint64(cfg.RandomSeed))),
		accepted:      make([]acceptedRoute, 0, numPaths),
		reserve:       make([]*partialPath, 0),
		startedAt:     time.Now(),
	}
}

func (s *multiRouteSearch) run(ctx context.Context) error {
	s.pq.Insert(da.NewPriorityQueueNode(0, newOriginPath(s.origin, s.start)))

	var err error
	for !s.pq.IsEmpty() && len(s.accepted) < s.numPaths {
		if err = ctx.Err(); err != nil {
			break
		}
		if s.config.MaxIterations > 0 && s.iterations >= s.config.MaxIterations {
			s.truncated = true
			break
		}
		s.iterations++

		node, _ := s.pq.ExtractMin()
		pp := node.GetItem()

		if pp.vertex == s.destination {
			s.consider(pp)
			continue
		}

		key := stateKey{vertex: pp.vertex, bucket: util.TruncateToBucket(pp.arrival, s.config.TimeBucketSeconds)}
		if s.expansion[key] >= s.maxExpansions {
			continue
		}
		s.expansion[key]++
		s.expanded++

		s.relax(ctx, pp)
	}

	if len(s.accepted) < s.numPaths {
		s.fillFromReserve()
	}
	return err
}

// relax. push every neighbour of pp that is not already on the path
func (s *multiRouteSearch) relax(ctx context.Context, pp *partialPath) {
	neighbors := s.router.graph.GetNeighbors(pp.vertex)
	if s.config.ShuffleNeighbors && len(neighbors) > 1 {
		s.nbBuf = append(s.nbBuf[:0], neighbors...)
		s.rng.Shuffle(len(s.nbBuf), func(i, j int) {
			s.nbBuf[i], s.nbBuf[j] = s.nbBuf[j], s.nbBuf[i]
		})
		neighbors = s.nbBuf
	}

	for _, v := range neighbors {
		if pp.contains(v) {
			continue
		}
		if s.config.MaxFrontierSize > 0 && s.pq.Size() >= s.config.MaxFrontierSize {
			s.truncated = true
			return
		}

		segmentDist := s.router.distances.Distance(pp.vertex, v)
		segmentTime, hourlyFlow := s.router.costFunction.GetSegmentTime(ctx, pp.vertex, segmentDist,
			pp.arrival, s.model)
		arrival := pp.arrival.Add(util.MinutesToDuration(segmentTime))
		penalty := s.penalties.penalty(pp.vertex, v)

		child := pp.extend(v, segmentTime, penalty, segmentDist, hourlyFlow, arrival)
		s.pq.Insert(da.NewPriorityQueueNode(child.cost, child))
	}
}

// consider. accept a completed path if it is diverse enough, otherwise keep it as reserve
func (s *multiRouteSearch) consider(pp *partialPath) {
	edges := pathEdges(pp.vertices())
	for _, a := range s.accepted {
		if overlap(edges, a.edges) >= s.config.OverlapThreshold {
			s.reserve = append(s.reserve, pp)
			return
		}
	}
	s.accept(pp, edges)
}

func (s *multiRouteSearch) accept(pp *partialPath, edges []edgeKey) *Route {
	route := s.toRoute(pp)
	s.accepted = append(s.accepted, acceptedRoute{
		edges: edgeSet(edges),
		route: route,
	})
	s.penalties.add(edges)
	return route
}

// fillFromReserve. relaxation pass, add the fastest rejected paths (and completed paths still in the
// frontier of a truncated search) until numPaths routes are found.
func (s *multiRouteSearch) fillFromReserve() {
	for !s.pq.IsEmpty() {
		node, _ := s.pq.ExtractMin()
		if pp := node.GetItem(); pp.vertex == s.destination {
			s.reserve = append(s.reserve, pp)
		}
	}

	sort.SliceStable(s.reserve, func(i, j int) bool {
		return s.reserve[i].travelTime < s.reserve[j].travelTime
	})
	for _, pp := range s.reserve {
		if len(s.accepted) >= s.numPaths {
			break
		}
		route := s.accept(pp, pathEdges(pp.vertices()))
		route.relaxed = true
	}
	s.reserve = s.reserve[:0]
}

func (s *multiRouteSearch) toRoute(pp *partialPath) *Route {
	vertices := pp.vertices()
	path := make([]string, len(vertices))
	for i, v := range vertices {
		path[i] = s.router.graph.GetSiteId(v)
	}
	return NewRoute(pp.travelTime, pp.dist, path, pp.averageTraffic())
}

func (s *multiRouteSearch) results() []*Route {
	routes := make([]*Route, 0, len(s.accepted))
	for _, a := range s.accepted {
		routes = append(routes, a.route)
	}
	return routes
}
