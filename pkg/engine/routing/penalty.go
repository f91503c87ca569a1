package routing

import (
	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
)

// edgeKey. undirected edge, smaller index first
type edgeKey struct {
	u, v da.Index
}

func newEdgeKey(a, b da.Index) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{u: a, v: b}
}

func pathEdges(vertices []da.Index) []edgeKey {
	if len(vertices) < 2 {
		return []edgeKey{}
	}
	edges := make([]edgeKey, 0, len(vertices)-1)
	for i := 0; i+1 < len(vertices); i++ {
		edges = append(edges, newEdgeKey(vertices[i], vertices[i+1]))
	}
	return edges
}

func edgeSet(edges []edgeKey) map[edgeKey]struct{} {
	set := make(map[edgeKey]struct{}, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return set
}

// overlap. fraction of shared edges relative to the shorter of the two routes, 0 if either has no edge
func overlap(a []edgeKey, b map[edgeKey]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	seen := make(map[edgeKey]struct{}, len(a))
	for _, e := range a {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		if _, ok := b[e]; ok {
			shared++
		}
	}
	return float64(shared) / float64(min(len(seen), len(b)))
}

// penaltyTable. how many accepted routes use each edge
type penaltyTable struct {
	uses    map[edgeKey]int
	perEdge float64
	cap     float64
}

func newPenaltyTable(perEdge, maxPenalty float64) *penaltyTable {
	return &penaltyTable{
		uses:    make(map[edgeKey]int),
		perEdge: perEdge,
		cap:     maxPenalty,
	}
}

func (pt *penaltyTable) add(edges []edgeKey) {
	for e := range edgeSet(edges) {
		pt.uses[e]++
	}
}

// penalty. extra minutes for traversing u-v, grows with every accepted route using the edge up to the cap
func (pt *penaltyTable) penalty(u, v da.Index) float64 {
	n := pt.uses[newEdgeKey(u, v)]
	if n == 0 {
		return 0
	}
	return min(pt.cap, pt.perEdge*float64(n))
}
