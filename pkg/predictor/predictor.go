package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPredictionUnavailable = errors.New("flow prediction unavailable")
	ErrUnknownModel          = errors.New("unknown prediction model")
)

// Model. selector of the pretrained flow model
type Model string

const (
	LSTM Model = "LSTM"
	GRU  Model = "GRU"
	SAES Model = "SAES"
)

var Models = []Model{LSTM, GRU, SAES}

func ParseModel(s string) (Model, error) {
	m := Model(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Models {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected LSTM, GRU or SAES)", ErrUnknownModel, s)
}

func (m Model) String() string {
	return string(m)
}

// FlowPredictor. predicted flow (vehicles per 5-minute reporting interval) of a SCATS site at time t.
// implementations return an error wrapping ErrPredictionUnavailable when they have no answer.
type FlowPredictor interface {
	Predict(ctx context.Context, site string, t time.Time, model Model) (float64, error)
}

// PredictorFunc. adapter to use an ordinary function as a FlowPredictor
type PredictorFunc func(ctx context.Context, site string, t time.Time, model Model) (float64, error)

func (f PredictorFunc) Predict(ctx context.Context, site string, t time.Time, model Model) (float64, error) {
	return f(ctx, site, t, model)
}
