package routing

import "sort"

// RankRoutes. the n fastest routes by estimated travel time, ties keep their input order.
// the input slice is not modified.
func RankRoutes(routes []*Route, n int) []*Route {
	ranked := make([]*Route, len(routes))
	copy(ranked, routes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].travelTime < ranked[j].travelTime
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
