package geo

import (
	"math"
	"testing"

	"github.com/twpayne/go-polyline"
)

func TestGeodesicDistance(t *testing.T) {
	testCases := []struct {
		name                   string
		latA, lonA, latB, lonB float64
		want                   float64
	}{
		{
			name: "same point",
			latA: -37.86703, lonA: 145.09159, latB: -37.86703, lonB: 145.09159,
			want: 0,
		},
		{
			name: "one degree of latitude",
			latA: 0, lonA: 0, latB: 1, lonB: 0,
			want: 111.195,
		},
		{
			name: "boroondara sites",
			latA: -37.86703, lonA: 145.09159, latB: -37.85192, lonB: 145.09432,
			want: 1.697,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateGeodesicDistance(tt.latA, tt.lonA, tt.latB, tt.lonB)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("got %f km, want %f km", got, tt.want)
			}
			hav := CalculateHaversineDistance(tt.latA, tt.lonA, tt.latB, tt.lonB)
			if math.Abs(got-hav) > 1e-6 {
				t.Errorf("s2 (%f) and haversine (%f) disagree", got, hav)
			}
			rev := CalculateGeodesicDistance(tt.latB, tt.lonB, tt.latA, tt.lonA)
			if got != rev {
				t.Errorf("distance is not symmetric: %f != %f", got, rev)
			}
		})
	}
}

func TestGetDestinationPoint(t *testing.T) {
	lat, lon := GetDestinationPoint(-37.86703, 145.09159, 45, 2.0)
	d := CalculateHaversineDistance(-37.86703, 145.09159, lat, lon)
	if math.Abs(d-2.0) > 1e-6 {
		t.Errorf("destination point is %f km away, want 2 km", d)
	}
}

func TestPolylineFromCoords(t *testing.T) {
	coords := []Coordinate{NewCoordinate(-37.86703, 145.09159), NewCoordinate(-37.85192, 145.09432)}
	encoded := PolylineFromCoords(coords)
	if encoded == "" {
		t.Fatal("polyline should not be empty")
	}

	decoded, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d points, want 2", len(decoded))
	}
	if math.Abs(decoded[1][0]-coords[1].Lat) > 1e-5 || math.Abs(decoded[1][1]-coords[1].Lon) > 1e-5 {
		t.Errorf("decoded %v, want %v", decoded[1], coords[1])
	}

	if PolylineFromCoords(nil) != "" {
		t.Error("empty coords should encode to empty string")
	}
}
