package routing

import (
	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
)

// Graph. read only view of the intersection graph used by the search
type Graph interface {
	GetIndex(siteId string) (da.Index, bool)
	GetSiteId(u da.Index) string
	GetNeighbors(u da.Index) []da.Index
	NumberOfVertices() int
	SameComponent(u, v da.Index) bool
}

// DistanceOracle. geodesic distance in km between two intersections
type DistanceOracle interface {
	Distance(a, b da.Index) float64
}
