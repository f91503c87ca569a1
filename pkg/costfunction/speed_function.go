package costfunction

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
)

// SpeedModel. three regime flow-speed relation of an urban arterial.
//
//	hourly flow <= FlowAtSpeedLimit             -> SpeedLimit
//	FlowAtSpeedLimit < flow <= CapacityFlow      -> convex drop to CapacitySpeed
//	CapacityFlow < flow                          -> linear drop to MinSpeed at MaxFlow, clamped
type SpeedModel struct {
	ReportingIntervalMinutes float64 `mapstructure:"reporting_interval_minutes"`
	FlowAtSpeedLimit         float64 `mapstructure:"flow_at_speed_limit"`
	CapacityFlow             float64 `mapstructure:"capacity_flow"`
	MaxFlow                  float64 `mapstructure:"max_flow"`
	SpeedLimit               float64 `mapstructure:"speed_limit"`
	CapacitySpeed            float64 `mapstructure:"capacity_speed"`
	MinSpeed                 float64 `mapstructure:"min_speed"`
	IntersectionDelay        float64 `mapstructure:"intersection_delay"`
	// DefaultHourlyFlow is used when the predictor has no answer
	DefaultHourlyFlow float64 `mapstructure:"default_hourly_flow"`
}

var ErrInvalidSpeedModel = errors.New("invalid speed model")

func DefaultSpeedModel() SpeedModel {
	return SpeedModel{
		ReportingIntervalMinutes: pkg.REPORTING_INTERVAL_MINUTES,
		FlowAtSpeedLimit:         pkg.FLOW_AT_SPEED_LIMIT,
		CapacityFlow:             pkg.CAPACITY_FLOW,
		MaxFlow:                  pkg.MAX_FLOW,
		SpeedLimit:               pkg.SPEED_LIMIT,
		CapacitySpeed:            pkg.CAPACITY_SPEED,
		MinSpeed:                 pkg.MIN_SPEED,
		IntersectionDelay:        pkg.INTERSECTION_DELAY_MINUTES,
		DefaultHourlyFlow:        pkg.FLOW_AT_SPEED_LIMIT,
	}
}

func (sm SpeedModel) Validate() error {
	switch {
	case sm.ReportingIntervalMinutes <= 0:
		return fmt.Errorf("%w: reporting interval must be positive", ErrInvalidSpeedModel)
	case sm.FlowAtSpeedLimit < 0 || sm.FlowAtSpeedLimit >= sm.CapacityFlow || sm.CapacityFlow >= sm.MaxFlow:
		return fmt.Errorf("%w: need 0 <= flow_at_speed_limit < capacity_flow < max_flow", ErrInvalidSpeedModel)
	case sm.MinSpeed <= 0 || sm.MinSpeed > sm.CapacitySpeed || sm.CapacitySpeed > sm.SpeedLimit:
		return fmt.Errorf("%w: need 0 < min_speed <= capacity_speed <= speed_limit", ErrInvalidSpeedModel)
	case sm.IntersectionDelay < 0 || sm.DefaultHourlyFlow < 0:
		return fmt.Errorf("%w: intersection delay and default flow must not be negative", ErrInvalidSpeedModel)
	}
	return nil
}

// HourlyFlow. vehicles per reporting interval to vehicles per hour
func (sm SpeedModel) HourlyFlow(intervalFlow float64) float64 {
	return intervalFlow * (60.0 / sm.ReportingIntervalMinutes)
}

// Speed. km/h at hourlyFlow
func (sm SpeedModel) Speed(hourlyFlow float64) float64 {
	switch {
	case hourlyFlow <= sm.FlowAtSpeedLimit:
		return sm.SpeedLimit
	case hourlyFlow <= sm.CapacityFlow:
		frac := (hourlyFlow - sm.FlowAtSpeedLimit) / (sm.CapacityFlow - sm.FlowAtSpeedLimit)
		return sm.SpeedLimit - frac*frac*(sm.SpeedLimit-sm.CapacitySpeed)
	default:
		over := (hourlyFlow - sm.CapacityFlow) / (sm.MaxFlow - sm.CapacityFlow)
		return math.Max(sm.MinSpeed, sm.CapacitySpeed-(sm.CapacitySpeed-sm.MinSpeed)*over)
	}
}

// TravelTime. minutes to drive distanceKm at speedKmh plus the fixed intersection delay
func (sm SpeedModel) TravelTime(distanceKm, speedKmh float64) float64 {
	if distanceKm <= 0 {
		return sm.IntersectionDelay
	}
	return distanceKm/speedKmh*60 + sm.IntersectionDelay
}
