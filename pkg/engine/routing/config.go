package routing

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
)

var ErrInvalidSearchConfig = errors.New("invalid search config")

// SearchConfig. tunable policies of the multi route search
type SearchConfig struct {
	NumPaths int `mapstructure:"num_paths"`
	// OverlapThreshold. a route is diverse when it shares less than this fraction of edges with every accepted route
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`
	// PenaltyPerSharedEdge. minutes added to a segment for every accepted route that uses it
	PenaltyPerSharedEdge float64 `mapstructure:"penalty_per_shared_edge"`
	PenaltyCap           float64 `mapstructure:"penalty_cap"`
	TimeBucketSeconds    int     `mapstructure:"time_bucket_seconds"`
	RandomSeed           int64   `mapstructure:"random_seed"`
	ShuffleNeighbors     bool    `mapstructure:"shuffle_neighbors"`
	// MaxStateExpansions. how many times one (intersection, time bucket) state may be expanded. 0 means NumPaths
	MaxStateExpansions int `mapstructure:"max_state_expansions"`
	MaxIterations      int `mapstructure:"max_iterations"`
	MaxFrontierSize    int `mapstructure:"max_frontier_size"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		NumPaths:             pkg.DEFAULT_NUM_PATHS,
		OverlapThreshold:     pkg.ALTERNATIVE_OVERLAP_THRESHOLD,
		PenaltyPerSharedEdge: pkg.SHARED_EDGE_PENALTY_MINUTES,
		PenaltyCap:           pkg.SHARED_EDGE_PENALTY_CAP,
		TimeBucketSeconds:    pkg.TIME_BUCKET_SECONDS,
		RandomSeed:           pkg.DEFAULT_RANDOM_SEED,
		MaxIterations:        pkg.MAX_SEARCH_ITERATIONS,
		MaxFrontierSize:      pkg.MAX_FRONTIER_SIZE,
	}
}

func (c SearchConfig) Validate() error {
	switch {
	case c.NumPaths < 1:
		return fmt.Errorf("%w: num_paths must be at least 1", ErrInvalidSearchConfig)
	case c.OverlapThreshold <= 0 || c.OverlapThreshold > 1:
		return fmt.Errorf("%w: overlap_threshold must be in (0, 1]", ErrInvalidSearchConfig)
	case c.PenaltyPerSharedEdge < 0 || c.PenaltyCap < 0:
		return fmt.Errorf("%w: penalties must not be negative", ErrInvalidSearchConfig)
	case c.TimeBucketSeconds < 1:
		return fmt.Errorf("%w: time_bucket_seconds must be at least 1", ErrInvalidSearchConfig)
	case c.MaxStateExpansions < 0 || c.MaxIterations < 0 || c.MaxFrontierSize < 0:
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidSearchConfig)
	}
	return nil
}

func (c SearchConfig) stateExpansionLimit(numPaths int) int {
	if c.MaxStateExpansions > 0 {
		return c.MaxStateExpansions
	}
	return numPaths
}
