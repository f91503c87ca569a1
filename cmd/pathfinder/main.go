package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine"
	"github.com/lintang-b-s/navigatorx-scats/pkg/logger"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"go.uber.org/zap"
)

var (
	origin      = flag.String("origin", "", "origin SCATS site id")
	destination = flag.String("destination", "", "destination SCATS site id")
	startTime   = flag.String("time", "", "departure time, \"2006-01-02 15:04\", default now")
	modelName   = flag.String("model", "", "flow model: LSTM, GRU or SAES, default from config")
	numPaths    = flag.Int("k", 0, "number of routes, default from config")
	timeout     = flag.Duration("timeout", 30*time.Second, "search timeout")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // ignore

	if *origin == "" || *destination == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("read config", zap.Error(err))
	}
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Fatal("load engine config", zap.Error(err))
	}

	model, err := predictor.ParseModel(cfg.Predictor.DefaultModel)
	if *modelName != "" {
		model, err = predictor.ParseModel(*modelName)
	}
	if err != nil {
		logger.Fatal("parse model", zap.Error(err))
	}

	start := time.Now()
	if *startTime != "" {
		start, err = time.ParseInLocation("2006-01-02 15:04", *startTime, time.Local)
		if err != nil {
			logger.Fatal("parse time", zap.Error(err))
		}
	}

	routingEngine, err := engine.NewEngine(cfg, nil, logger)
	if err != nil {
		logger.Fatal("start engine", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	routes, err := routingEngine.FindRoutes(ctx, *origin, *destination, start, model, *numPaths)
	if err != nil {
		logger.Warn("route search interrupted", zap.Error(err))
	}
	if len(routes) == 0 {
		fmt.Printf("No route found from %s to %s\n", *origin, *destination)
		os.Exit(1)
	}

	fmt.Printf("Routes from %s to %s departing %s (%s)\n", *origin, *destination,
		start.Format("2006-01-02 15:04"), model)
	for i, r := range routes {
		intervalFlow := r.GetAverageTraffic() * pkg.REPORTING_INTERVAL_MINUTES / 60.0
		fmt.Printf("%d. %.2f min, %.2f km, %d intersections, %s\n   %s\n", i+1, r.GetTravelTime(), r.GetDist(),
			r.GetNumberOfIntersections(), predictor.InterpretFlow(intervalFlow), strings.Join(r.GetPath(), " -> "))
	}
}
