package predictor

import (
	"math"
	"time"
)

// hourly demand factors of a weekday, applied to denormalized model output
var weekdayFactors = [24]float64{
	0.3, 0.2, 0.15, 0.15, 0.2, 0.4, // early morning
	0.6, 0.9, 1.1, 1.0, // morning peak
	0.9, 0.9, 1.0, 1.0, 1.0, // midday
	1.1, 1.2, 1.2, 1.1, // evening peak
	0.9, 0.8, 0.7, 0.5, 0.4, // night
}

// TimeFactor. weekend factors are 70% of the weekday factor, but never below 0.5
func TimeFactor(t time.Time) float64 {
	f := weekdayFactors[t.Hour()]
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		f = math.Max(0.5, f*0.7)
	}
	return f
}

func ApplyTimeAdjustment(flow float64, t time.Time) float64 {
	return math.Max(0, flow*TimeFactor(t))
}

// Denormalize. min-max normalized model output back to vehicles per interval, rounded to a whole vehicle count
func Denormalize(prediction, minValue, maxValue float64) float64 {
	return math.Round(minValue + prediction*(maxValue-minValue))
}

// InterpretFlow. traffic level of a flow in vehicles per 5 minutes
func InterpretFlow(flow float64) string {
	switch {
	case flow < 30:
		return "Very low traffic"
	case flow < 75:
		return "Low traffic"
	case flow < 150:
		return "Moderate traffic"
	case flow < 250:
		return "High traffic"
	default:
		return "Very high traffic"
	}
}
