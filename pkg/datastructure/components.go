package datastructure

// computeComponents. label the connected components of the graph with an iterative dfs.
// every edge has its reverse, so the strongly connected components are the connected components.
func (g *IntersectionGraph) computeComponents() {
	n := len(g.vertices)
	g.components = make([]int32, n)
	for i := range g.components {
		g.components[i] = -1
	}

	stack := make([]Index, 0, 64)
	numComponents := int32(0)
	for s := 0; s < n; s++ {
		if g.components[s] >= 0 {
			continue
		}
		g.components[s] = numComponents
		stack = append(stack[:0], Index(s))
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range g.adjList[u] {
				if g.components[v] < 0 {
					g.components[v] = numComponents
					stack = append(stack, v)
				}
			}
		}
		numComponents++
	}
	g.numComponents = int(numComponents)
}

func (g *IntersectionGraph) NumberOfComponents() int {
	return g.numComponents
}

// SameComponent. true if v is reachable from u
func (g *IntersectionGraph) SameComponent(u, v Index) bool {
	if !g.HasVertex(u) || !g.HasVertex(v) {
		return false
	}
	return g.components[u] == g.components[v]
}
