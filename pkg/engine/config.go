package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"github.com/lintang-b-s/navigatorx-scats/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-scats/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"github.com/spf13/viper"
)

const (
	PredictorProfile = "profile"
	PredictorRemote  = "remote"
	PredictorNone    = "none"
)

type PredictorConfig struct {
	Kind            string        `mapstructure:"kind"`
	ProfileFile     string        `mapstructure:"profile_file"`
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RequestsPerSec  float64       `mapstructure:"requests_per_sec"`
	Burst           int           `mapstructure:"burst"`
	AdjustTimeOfDay bool          `mapstructure:"adjust_time_of_day"`
	CacheSize       int           `mapstructure:"cache_size"`
	DefaultModel    string        `mapstructure:"default_model"`
	WarmupWorkers   int           `mapstructure:"warmup_workers"`
	WarmupOnStart   bool          `mapstructure:"warmup_on_start"`
}

type SnapConfig struct {
	InitialRadiusKm float64 `mapstructure:"initial_radius_km"`
	MaxRadiusKm     float64 `mapstructure:"max_radius_km"`
}

type Config struct {
	GraphFile         string                  `mapstructure:"graph_file"`
	DistanceCacheSize int                     `mapstructure:"distance_cache_size"`
	Predictor         PredictorConfig         `mapstructure:"predictor"`
	SpeedModel        costfunction.SpeedModel `mapstructure:"speed_model"`
	Search            routing.SearchConfig    `mapstructure:"search"`
	Snap              SnapConfig              `mapstructure:"snap"`
}

func setDefaults() {
	viper.SetDefault("engine.graph_file", "./data/scats_neighbours.csv")
	viper.SetDefault("engine.distance_cache_size", pkg.DISTANCE_CACHE_SIZE)

	viper.SetDefault("engine.predictor.kind", PredictorProfile)
	viper.SetDefault("engine.predictor.profile_file", "./data/flow_profile.csv")
	viper.SetDefault("engine.predictor.base_url", "http://localhost:8000")
	viper.SetDefault("engine.predictor.timeout", pkg.DEFAULT_REMOTE_PREDICT_TIMEOUT*time.Second)
	viper.SetDefault("engine.predictor.requests_per_sec", 50.0)
	viper.SetDefault("engine.predictor.burst", 10)
	viper.SetDefault("engine.predictor.adjust_time_of_day", true)
	viper.SetDefault("engine.predictor.cache_size", pkg.PREDICTION_CACHE_SIZE)
	viper.SetDefault("engine.predictor.default_model", string(predictor.LSTM))
	viper.SetDefault("engine.predictor.warmup_workers", pkg.DEFAULT_WARMUP_WORKERS)
	viper.SetDefault("engine.predictor.warmup_on_start", false)

	sm := costfunction.DefaultSpeedModel()
	viper.SetDefault("engine.speed_model.reporting_interval_minutes", sm.ReportingIntervalMinutes)
	viper.SetDefault("engine.speed_model.flow_at_speed_limit", sm.FlowAtSpeedLimit)
	viper.SetDefault("engine.speed_model.capacity_flow", sm.CapacityFlow)
	viper.SetDefault("engine.speed_model.max_flow", sm.MaxFlow)
	viper.SetDefault("engine.speed_model.speed_limit", sm.SpeedLimit)
	viper.SetDefault("engine.speed_model.capacity_speed", sm.CapacitySpeed)
	viper.SetDefault("engine.speed_model.min_speed", sm.MinSpeed)
	viper.SetDefault("engine.speed_model.intersection_delay", sm.IntersectionDelay)
	viper.SetDefault("engine.speed_model.default_hourly_flow", sm.DefaultHourlyFlow)

	sc := routing.DefaultSearchConfig()
	viper.SetDefault("engine.search.num_paths", sc.NumPaths)
	viper.SetDefault("engine.search.overlap_threshold", sc.OverlapThreshold)
	viper.SetDefault("engine.search.penalty_per_shared_edge", sc.PenaltyPerSharedEdge)
	viper.SetDefault("engine.search.penalty_cap", sc.PenaltyCap)
	viper.SetDefault("engine.search.time_bucket_seconds", sc.TimeBucketSeconds)
	viper.SetDefault("engine.search.random_seed", sc.RandomSeed)
	viper.SetDefault("engine.search.shuffle_neighbors", sc.ShuffleNeighbors)
	viper.SetDefault("engine.search.max_state_expansions", sc.MaxStateExpansions)
	viper.SetDefault("engine.search.max_iterations", sc.MaxIterations)
	viper.SetDefault("engine.search.max_frontier_size", sc.MaxFrontierSize)

	viper.SetDefault("engine.snap.initial_radius_km", pkg.SITE_SNAP_INITIAL_RADIUS_KM)
	viper.SetDefault("engine.snap.max_radius_km", pkg.SITE_SNAP_MAX_RADIUS_KM)
}

// LoadConfig. engine config from the global viper instance, environment variables override the file
// (engine.search.num_paths -> ENGINE_SEARCH_NUM_PATHS).
func LoadConfig() (Config, error) {
	viper.SetEnvKeyReplacer(newEnvReplacer())
	viper.AutomaticEnv()
	setDefaults()

	// Unmarshal goes through AllSettings, which sees environment overrides of nested keys
	var root struct {
		Engine Config `mapstructure:"engine"`
	}
	if err := viper.Unmarshal(&root); err != nil {
		return Config{}, fmt.Errorf("unmarshal engine config: %w", err)
	}
	if err := root.Engine.Validate(); err != nil {
		return Config{}, err
	}
	return root.Engine, nil
}

func (c Config) Validate() error {
	if c.GraphFile == "" {
		return fmt.Errorf("engine.graph_file is required")
	}
	switch c.Predictor.Kind {
	case PredictorProfile, PredictorRemote, PredictorNone:
	default:
		return fmt.Errorf("unknown engine.predictor.kind %q", c.Predictor.Kind)
	}
	if _, err := predictor.ParseModel(c.Predictor.DefaultModel); err != nil {
		return err
	}
	if c.Snap.MaxRadiusKm <= 0 {
		return fmt.Errorf("engine.snap.max_radius_km must be positive")
	}
	if err := c.SpeedModel.Validate(); err != nil {
		return err
	}
	return c.Search.Validate()
}

func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
