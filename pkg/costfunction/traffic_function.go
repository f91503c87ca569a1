package costfunction

import (
	"context"
	"math"
	"time"

	da "github.com/lintang-b-s/navigatorx-scats/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-scats/pkg/predictor"
	"go.uber.org/zap"
)

// TrafficFlowFunction. segment travel time from the predicted flow at the departure intersection.
type TrafficFlowFunction struct {
	speedModel SpeedModel
	predictor  predictor.FlowPredictor
	sites      SiteResolver
	log        *zap.Logger
}

func NewTrafficFlowFunction(speedModel SpeedModel, flowPredictor predictor.FlowPredictor, sites SiteResolver,
	log *zap.Logger) (*TrafficFlowFunction, error) {
	if err := speedModel.Validate(); err != nil {
		return nil, err
	}
	return &TrafficFlowFunction{
		speedModel: speedModel,
		predictor:  flowPredictor,
		sites:      sites,
		log:        log,
	}, nil
}

// GetHourlyFlow. predicted hourly flow of u at t, the default flow when the prediction is unavailable
func (tf *TrafficFlowFunction) GetHourlyFlow(ctx context.Context, u da.Index, t time.Time,
	model predictor.Model) (float64, bool) {
	site := tf.sites.GetSiteId(u)
	flow, err := tf.predictor.Predict(ctx, site, t, model)
	if err != nil {
		tf.log.Debug("flow prediction unavailable, using default flow", zap.String("site", site),
			zap.Time("time", t), zap.String("model", model.String()), zap.Error(err))
		return tf.speedModel.DefaultHourlyFlow, false
	}
	if math.IsNaN(flow) || math.IsInf(flow, 0) || flow < 0 {
		tf.log.Warn("invalid flow prediction, using default flow", zap.String("site", site),
			zap.Time("time", t), zap.String("model", model.String()), zap.Float64("flow", flow))
		return tf.speedModel.DefaultHourlyFlow, false
	}
	return tf.speedModel.HourlyFlow(flow), true
}

func (tf *TrafficFlowFunction) GetSegmentTime(ctx context.Context, u da.Index, distanceKm float64,
	departure time.Time, model predictor.Model) (float64, float64) {
	hourlyFlow, _ := tf.GetHourlyFlow(ctx, u, departure, model)
	speed := tf.speedModel.Speed(hourlyFlow)
	return tf.speedModel.TravelTime(distanceKm, speed), hourlyFlow
}
