package geo

import (
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/navigatorx-scats/pkg"
)

// CalculateGeodesicDistance. great-circle distance in km between two coordinates on the s2 sphere
func CalculateGeodesicDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	p := s2.LatLngFromDegrees(latOne, longOne)
	q := s2.LatLngFromDegrees(latTwo, longTwo)
	return p.Distance(q).Radians() * pkg.EARTH_RADIUS_KM
}
