package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"golang.org/x/time/rate"
)

type RemoteConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RequestsPerSec  float64
	Burst           int
	MinFlow         float64
	MaxFlow         float64
	AdjustTimeOfDay bool
}

func DefaultRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{
		BaseURL:         baseURL,
		Timeout:         pkg.DEFAULT_REMOTE_PREDICT_TIMEOUT * time.Second,
		RequestsPerSec:  50,
		Burst:           10,
		MinFlow:         pkg.PREDICTION_MIN_FLOW,
		MaxFlow:         pkg.PREDICTION_MAX_FLOW,
		AdjustTimeOfDay: true,
	}
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
}

// RemotePredictor. client of a model server answering
// GET {base}/predict?site=970&time=2006-10-01T08:00:00Z&model=LSTM with {"prediction": 0.31}.
// the normalized prediction is denormalized to [MinFlow, MaxFlow], then scaled by the time of day factor.
type RemotePredictor struct {
	cfg     RemoteConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewRemotePredictor(cfg RemoteConfig, client *http.Client) *RemotePredictor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RemotePredictor{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (rp *RemotePredictor) Predict(ctx context.Context, site string, t time.Time, model Model) (float64, error) {
	if err := rp.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("site", site)
	q.Set("time", t.Format(time.RFC3339))
	q.Set("model", string(model))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rp.cfg.BaseURL+"/predict?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := rp.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("predict site %s: %w", site, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("no %s model for site %s: %w", model, site, ErrPredictionUnavailable)
	case resp.StatusCode != http.StatusOK:
		// transient, not cached
		return 0, fmt.Errorf("predict site %s: unexpected status %d", site, resp.StatusCode)
	}

	var body predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode prediction of site %s: %w", site, err)
	}
	if body.Prediction == nil {
		return 0, fmt.Errorf("empty prediction for site %s: %w", site, ErrPredictionUnavailable)
	}

	flow := Denormalize(*body.Prediction, rp.cfg.MinFlow, rp.cfg.MaxFlow)
	if rp.cfg.AdjustTimeOfDay {
		flow = ApplyTimeAdjustment(flow, t)
	}
	return flow, nil
}
