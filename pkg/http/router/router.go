package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/navigatorx-scats/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/navigatorx-scats/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/navigatorx-scats/pkg/http/server"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

type Options struct {
	UseRateLimit   bool
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	DefaultModel   predictor.Model
	Gatherer       prometheus.Gatherer
}

//	@title			Navigatorx SCATS API
//	@version		1.0
//	@description	Traffic aware multi route planner over SCATS intersections.

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Handler(routingService controllers.RoutingService, opts Options) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.GET("/doc/*any", swaggerHandler)
	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)
	if opts.Gatherer != nil {
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	group := router_helper.NewRouteGroup(router, "/api")
	routingRoutes := controllers.New(routingService, opts.DefaultModel, api.log)
	routingRoutes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if opts.UseRateLimit {
		mwChain = append(mwChain, Limit(opts.RateLimitRPS, opts.RateLimitBurst))
	}
	mwChain = append(mwChain, Timeout(opts.RequestTimeout))
	return alice.New(mwChain...).Then(router)
}

// Run. serve the API until ctx is done, then shut the server down gracefully.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	routingService controllers.RoutingService,
	opts Options,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(routingService, opts), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
