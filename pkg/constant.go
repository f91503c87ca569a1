package pkg

const (
	// traffic flow speed model (SCATS reporting interval is 5 minutes)
	REPORTING_INTERVAL_MINUTES = 5.0
	FLOW_AT_SPEED_LIMIT        = 117.0  // vehicles/hour
	CAPACITY_FLOW              = 500.0  // vehicles/hour
	MAX_FLOW                   = 1000.0 // vehicles/hour
	SPEED_LIMIT                = 60.0   // km/h
	CAPACITY_SPEED             = 32.0   // km/h
	MIN_SPEED                  = 10.0   // km/h
	INTERSECTION_DELAY_MINUTES = 0.5

	// flow predictions are min-max normalized over [0, 500] vehicles/5 min
	PREDICTION_MIN_FLOW = 0.0
	PREDICTION_MAX_FLOW = 500.0

	DEFAULT_NUM_PATHS              = 5
	ALTERNATIVE_OVERLAP_THRESHOLD  = 0.7
	SHARED_EDGE_PENALTY_MINUTES    = 2.0
	SHARED_EDGE_PENALTY_CAP        = 10.0
	TIME_BUCKET_SECONDS            = 300
	DEFAULT_RANDOM_SEED            = 42
	MAX_SEARCH_ITERATIONS          = 200000
	MAX_FRONTIER_SIZE              = 500000
	DISTANCE_CACHE_SIZE            = 1 << 20 // 1048576
	PREDICTION_CACHE_SIZE          = 1 << 18
	NEIGHBOUR_SEPARATOR            = ";"
	SITE_SNAP_INITIAL_RADIUS_KM    = 0.25
	SITE_SNAP_MAX_RADIUS_KM        = 8.0
	EARTH_RADIUS_KM                = 6371.0
	DEFAULT_WARMUP_WORKERS         = 8
	DEFAULT_REMOTE_PREDICT_TIMEOUT = 2 // seconds
)

const (
	DEBUG = false
)
