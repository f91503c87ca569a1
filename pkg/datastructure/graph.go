package datastructure

import (
	"errors"
	"fmt"
)

type Index uint32

var (
	ErrUnknownNode = errors.New("unknown intersection")
	ErrEmptyGraph  = errors.New("intersection graph has no valid sites")
)

// Site. one SCATS intersection record: site id, coordinates & neighbouring site ids
type Site struct {
	Id         string
	Lat        float64
	Lon        float64
	Neighbours []string
}

func NewSite(id string, lat, lon float64, neighbours []string) Site {
	return Site{
		Id:         id,
		Lat:        lat,
		Lon:        lon,
		Neighbours: neighbours,
	}
}

type Vertex struct {
	lat    float64
	lon    float64
	id     Index
	siteId string
}

func NewVertex(lat, lon float64, id Index, siteId string) *Vertex {
	return &Vertex{
		lat:    lat,
		lon:    lon,
		id:     id,
		siteId: siteId,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetSiteId() string {
	return v.siteId
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

// IntersectionGraph. static adjacency list of SCATS sites. immutable after construction, safe for concurrent reads.
// edges are stored as directed adjacency per vertex, but every edge u->v has a matching v->u.
type IntersectionGraph struct {
	vertices  []*Vertex
	adjList   [][]Index
	siteIndex map[string]Index
	numEdges  int

	components    []int32
	numComponents int
}

// NewIntersectionGraph. build the graph from site records. records with an empty or duplicated id are skipped,
// neighbour ids that are not sites are dropped, and a missing reverse edge is added.
// skipped is the list of human readable reasons for every dropped record/neighbour.
func NewIntersectionGraph(sites []Site) (g *IntersectionGraph, skipped []string, err error) {
	g = &IntersectionGraph{
		vertices:  make([]*Vertex, 0, len(sites)),
		siteIndex: make(map[string]Index, len(sites)),
	}

	accepted := make([]Site, 0, len(sites))
	for _, s := range sites {
		if s.Id == "" {
			skipped = append(skipped, "site with empty id")
			continue
		}
		if _, ok := g.siteIndex[s.Id]; ok {
			skipped = append(skipped, fmt.Sprintf("duplicated site %s", s.Id))
			continue
		}
		id := Index(len(g.vertices))
		g.siteIndex[s.Id] = id
		g.vertices = append(g.vertices, NewVertex(s.Lat, s.Lon, id, s.Id))
		accepted = append(accepted, s)
	}

	if len(g.vertices) == 0 {
		return nil, skipped, ErrEmptyGraph
	}

	g.adjList = make([][]Index, len(g.vertices))
	hasEdge := make(map[[2]Index]struct{})

	addEdge := func(u, v Index) {
		if _, ok := hasEdge[[2]Index{u, v}]; ok {
			return
		}
		hasEdge[[2]Index{u, v}] = struct{}{}
		g.adjList[u] = append(g.adjList[u], v)
		g.numEdges++
	}

	for _, s := range accepted {
		u := g.siteIndex[s.Id]
		for _, nb := range s.Neighbours {
			if nb == "" {
				continue
			}
			v, ok := g.siteIndex[nb]
			if !ok {
				skipped = append(skipped, fmt.Sprintf("neighbour %s of site %s is not a site", nb, s.Id))
				continue
			}
			if u == v {
				continue
			}
			addEdge(u, v)
		}
	}

	// second pass keeps file order for listed neighbours, reverse edges go last
	for u := range g.adjList {
		for _, v := range g.adjList[u] {
			addEdge(v, Index(u))
		}
	}

	g.computeComponents()
	return g, skipped, nil
}

func (g *IntersectionGraph) NumberOfVertices() int {
	return len(g.vertices)
}

// NumberOfEdges. number of directed edges
func (g *IntersectionGraph) NumberOfEdges() int {
	return g.numEdges
}

func (g *IntersectionGraph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *IntersectionGraph) GetVertices() []*Vertex {
	return g.vertices
}

func (g *IntersectionGraph) GetIndex(siteId string) (Index, bool) {
	id, ok := g.siteIndex[siteId]
	return id, ok
}

func (g *IntersectionGraph) GetSiteId(u Index) string {
	return g.vertices[u].siteId
}

func (g *IntersectionGraph) HasVertex(u Index) bool {
	return int(u) < len(g.vertices)
}

// GetNeighbors. adjacent vertices of u. the returned slice must not be modified.
func (g *IntersectionGraph) GetNeighbors(u Index) []Index {
	if !g.HasVertex(u) {
		return nil
	}
	return g.adjList[u]
}

func (g *IntersectionGraph) GetVertexCoordinates(u Index) (float64, float64, bool) {
	if !g.HasVertex(u) {
		return 0, 0, false
	}
	v := g.vertices[u]
	return v.lat, v.lon, true
}

// Neighbors. neighbouring site ids of siteId, empty if siteId is unknown
func (g *IntersectionGraph) Neighbors(siteId string) []string {
	u, ok := g.siteIndex[siteId]
	if !ok {
		return []string{}
	}
	nbs := make([]string, 0, len(g.adjList[u]))
	for _, v := range g.adjList[u] {
		nbs = append(nbs, g.vertices[v].siteId)
	}
	return nbs
}

func (g *IntersectionGraph) Coordinates(siteId string) (float64, float64, error) {
	u, ok := g.siteIndex[siteId]
	if !ok {
		return 0, 0, fmt.Errorf("site %s: %w", siteId, ErrUnknownNode)
	}
	v := g.vertices[u]
	return v.lat, v.lon, nil
}

func (g *IntersectionGraph) ForVertices(handle func(v *Vertex)) {
	for _, v := range g.vertices {
		handle(v)
	}
}
