package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/navigatorx-scats/pkg/engine"
	http_router "github.com/lintang-b-s/navigatorx-scats/pkg/http/router"
	"github.com/lintang-b-s/navigatorx-scats/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-scats/pkg/http/server"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. start the API in the background. the returned errgroup reports why it stopped.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	routingService controllers.RoutingService,
	defaultModel predictor.Model,
	gatherer prometheus.Gatherer,
) *errgroup.Group {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("API_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("API_RATE_LIMIT", false)
	viper.SetDefault("API_RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("API_RATE_LIMIT_BURST", 20)

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
	opts := http_router.Options{
		UseRateLimit:   viper.GetBool("API_RATE_LIMIT"),
		RateLimitRPS:   viper.GetFloat64("API_RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("API_RATE_LIMIT_BURST"),
		RequestTimeout: viper.GetDuration("API_REQUEST_TIMEOUT"),
		DefaultModel:   defaultModel,
		Gatherer:       gatherer,
	}

	server := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, routingService, opts)
	})
	return g
}

// GracefulShutdown. block until SIGINT or SIGTERM
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// DefaultModel. model used when a request does not name one
func DefaultModel(cfg engine.Config) predictor.Model {
	model, err := predictor.ParseModel(cfg.Predictor.DefaultModel)
	if err != nil {
		return predictor.LSTM
	}
	return model
}
