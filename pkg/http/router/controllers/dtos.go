package controllers

import (
	"github.com/lintang-b-s/navigatorx-scats/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-scats/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
)

type computeRoutesRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	StartTime   string `json:"start_time"`
	Model       string `json:"model" validate:"omitempty,oneof=LSTM GRU SAES lstm gru saes"`
	K           int    `json:"k" validate:"min=0,max=20"`
}

type computeRoutesByCoordsRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	StartTime      string  `json:"start_time"`
	Model          string  `json:"model" validate:"omitempty,oneof=LSTM GRU SAES lstm gru saes"`
	K              int     `json:"k" validate:"min=0,max=20"`
}

type routeResponse struct {
	Rank           int      `json:"rank"`
	EstimatedTime  float64  `json:"estimated_time"` // minutes
	Distance       float64  `json:"distance"`       // km
	Path           []string `json:"path"`
	Intersections  int      `json:"intersections"`
	AverageTraffic float64  `json:"average_traffic"` // vehicles/hour
	TrafficLevel   string   `json:"traffic_level"`
	Polyline       string   `json:"polyline"`
	Diverse        bool     `json:"diverse"`
}

type computeRoutesResponse struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	StartTime   string          `json:"start_time"`
	Model       string          `json:"model"`
	Routes      []routeResponse `json:"routes"`
}

func NewRouteResponses(results []usecases.RouteResult) []routeResponse {
	routes := make([]routeResponse, 0, len(results))
	for i, res := range results {
		r := res.GetRoute()
		routes = append(routes, routeResponse{
			Rank:           i + 1,
			EstimatedTime:  util.RoundFloat(r.GetTravelTime(), 2),
			Distance:       util.RoundFloat(r.GetDist(), 3),
			Path:           r.GetPath(),
			Intersections:  r.GetNumberOfIntersections(),
			AverageTraffic: util.RoundFloat(r.GetAverageTraffic(), 1),
			TrafficLevel:   res.GetTrafficLevel(),
			Polyline:       res.GetPolyline(),
			Diverse:        !r.IsRelaxed(),
		})
	}
	return routes
}

type snappedSite struct {
	SiteId   string  `json:"site_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"` // km from the requested coordinate
}

func newSnappedSite(sc spatialindex.SiteCandidate) snappedSite {
	return snappedSite{
		SiteId:   sc.GetSiteId(),
		Lat:      sc.GetLat(),
		Lon:      sc.GetLon(),
		Distance: util.RoundFloat(sc.GetDist(), 3),
	}
}

type computeRoutesByCoordsResponse struct {
	Origin      snappedSite     `json:"origin"`
	Destination snappedSite     `json:"destination"`
	StartTime   string          `json:"start_time"`
	Model       string          `json:"model"`
	Routes      []routeResponse `json:"routes"`
}

type siteResponse struct {
	SiteId     string   `json:"site_id"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Neighbours []string `json:"neighbours"`
}

func NewSitesResponse(sites []usecases.SiteInfo) []siteResponse {
	resp := make([]siteResponse, 0, len(sites))
	for _, s := range sites {
		resp = append(resp, siteResponse{
			SiteId:     s.SiteId,
			Lat:        s.Lat,
			Lon:        s.Lon,
			Neighbours: s.Neighbours,
		})
	}
	return resp
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
