package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/navigatorx-scats/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"go.uber.org/zap"
)

const startTimeLayout = "2006-01-02 15:04"

type routingAPI struct {
	routingService RoutingService
	defaultModel   predictor.Model
	validator      *validator.Validate
	trans          ut.Translator
	log            *zap.Logger
}

func New(routingService RoutingService, defaultModel predictor.Model, log *zap.Logger) *routingAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &routingAPI{
		routingService: routingService,
		defaultModel:   defaultModel,
		validator:      validate,
		trans:          trans,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.computeRoutes)
	group.GET("/computeRoutesByCoords", api.computeRoutesByCoords)
	group.GET("/sites", api.sites)
}

// computeRoutes
//
//	@Summary		up to k diverse routes between two SCATS sites, fastest first
//	@Tags			routing
//	@Produce		json
//	@Param			origin		query	string	true	"origin site id"
//	@Param			destination	query	string	true	"destination site id"
//	@Param			start_time	query	string	false	"departure, 2006-01-02 15:04 or RFC3339, default now"
//	@Param			model		query	string	false	"LSTM, GRU or SAES"
//	@Param			k			query	int		false	"number of routes"
//	@Router			/computeRoutes [get]
func (api *routingAPI) computeRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request computeRoutesRequest
		err     error
	)

	query := r.URL.Query()
	request.Origin = strings.TrimSpace(query.Get("origin"))
	request.Destination = strings.TrimSpace(query.Get("destination"))
	request.StartTime = query.Get("start_time")
	request.Model = query.Get("model")
	request.K, err = parseK(query.Get("k"))
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	start, model, err := api.parseStartAndModel(request.StartTime, request.Model)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.routingService.ComputeRoutes(r.Context(), request.Origin, request.Destination, start,
		model, request.K)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": computeRoutesResponse{
		Origin:      request.Origin,
		Destination: request.Destination,
		StartTime:   start.Format(time.RFC3339),
		Model:       model.String(),
		Routes:      NewRouteResponses(results),
	}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// computeRoutesByCoords
//
//	@Summary		snap both coordinates to the nearest SCATS site, then compute routes
//	@Tags			routing
//	@Produce		json
//	@Param			origin_lat		query	number	true	"origin latitude"
//	@Param			origin_lon		query	number	true	"origin longitude"
//	@Param			destination_lat	query	number	true	"destination latitude"
//	@Param			destination_lon	query	number	true	"destination longitude"
//	@Param			start_time		query	string	false	"departure, 2006-01-02 15:04 or RFC3339, default now"
//	@Param			model			query	string	false	"LSTM, GRU or SAES"
//	@Param			k				query	int		false	"number of routes"
//	@Router			/computeRoutesByCoords [get]
func (api *routingAPI) computeRoutesByCoords(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request computeRoutesByCoordsRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}
	request.StartTime = query.Get("start_time")
	request.Model = query.Get("model")
	request.K, err = parseK(query.Get("k"))
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	start, model, err := api.parseStartAndModel(request.StartTime, request.Model)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	origin, destination, results, err := api.routingService.ComputeRoutesByCoords(r.Context(), request.OriginLat,
		request.OriginLon, request.DestinationLat, request.DestinationLon, start, model, request.K)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": computeRoutesByCoordsResponse{
		Origin:      newSnappedSite(origin),
		Destination: newSnappedSite(destination),
		StartTime:   start.Format(time.RFC3339),
		Model:       model.String(),
		Routes:      NewRouteResponses(results),
	}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// sites
//
//	@Summary		every SCATS site of the intersection graph
//	@Tags			routing
//	@Produce		json
//	@Router			/sites [get]
func (api *routingAPI) sites(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSitesResponse(api.routingService.Sites())},
		headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func parseK(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("number of routes k must be a valid int")
	}
	return k, nil
}

// parseStartTime. "2006-01-02 15:04" in local time or RFC3339, empty is now
func parseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.ParseInLocation(startTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("start_time %q must be formatted as %q or RFC3339", s, startTimeLayout)
}

func (api *routingAPI) parseStartAndModel(startTime, modelName string) (time.Time, predictor.Model, error) {
	start, err := parseStartTime(startTime)
	if err != nil {
		return time.Time{}, "", err
	}
	model := api.defaultModel
	if modelName != "" {
		model, err = predictor.ParseModel(modelName)
		if err != nil {
			return time.Time{}, "", err
		}
	}
	return start, model, nil
}
