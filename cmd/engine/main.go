package main

import (
	"context"
	"flag"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg/engine"
	"github.com/lintang-b-s/navigatorx-scats/pkg/http"
	"github.com/lintang-b-s/navigatorx-scats/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-scats/pkg/logger"
	"github.com/lintang-b-s/navigatorx-scats/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	warmup = flag.Bool("warmup", false, "prefetch the flow prediction of every site for the current time before serving")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // ignore

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Fatal("load engine config", zap.Error(err))
	}

	met := metrics.New(prometheus.DefaultRegisterer)
	routingEngine, err := engine.NewEngine(cfg, met, logger)
	if err != nil {
		logger.Fatal("start engine", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	defaultModel := http.DefaultModel(cfg)
	if *warmup || cfg.Predictor.WarmupOnStart {
		routingEngine.Warmup(ctx, time.Now(), defaultModel)
	}

	api := http.NewServer(logger)
	routingService := usecases.NewRoutingService(logger, routingEngine, routingEngine.GetGraph())
	g := api.Use(ctx, logger, routingService, defaultModel, prometheus.DefaultGatherer)

	go func() {
		signal := http.GracefulShutdown()
		logger.Info("Navigatorx SCATS Routing Server stopping", zap.String("signal", signal.String()))
		cleanup()
	}()

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
	cleanup()
	logger.Info("Navigatorx SCATS Routing Server Stopped")
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
