package predictor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"go.uber.org/zap"
)

const (
	anyModel    = "*"
	slotsPerDay = 24 * 60 / int(pkg.REPORTING_INTERVAL_MINUTES)
)

type profileKey struct {
	site  string
	model string
}

type daySlots struct {
	flow [slotsPerDay]float64
	set  [slotsPerDay]bool
}

// ProfilePredictor. historical flow profile (one value per site, model and 5-minute time of day slot).
// a missing slot falls back to the nearest earlier slot of the same day profile.
type ProfilePredictor struct {
	profiles map[profileKey]*daySlots
}

func NewProfilePredictor() *ProfilePredictor {
	return &ProfilePredictor{profiles: make(map[profileKey]*daySlots)}
}

// Set. flow (vehicles per 5 min) of site at minuteOfDay, model "*" matches every model
func (pp *ProfilePredictor) Set(site, model string, minuteOfDay int, flow float64) {
	key := profileKey{site: site, model: strings.ToUpper(model)}
	slots, ok := pp.profiles[key]
	if !ok {
		slots = &daySlots{}
		pp.profiles[key] = slots
	}
	slot := slotOf(minuteOfDay)
	slots.flow[slot] = flow
	slots.set[slot] = true
}

func (pp *ProfilePredictor) Predict(ctx context.Context, site string, t time.Time, model Model) (float64, error) {
	slots, ok := pp.profiles[profileKey{site: site, model: string(model)}]
	if !ok {
		slots, ok = pp.profiles[profileKey{site: site, model: anyModel}]
	}
	if !ok {
		return 0, fmt.Errorf("no %s profile for site %s: %w", model, site, ErrPredictionUnavailable)
	}

	slot := slotOf(t.Hour()*60 + t.Minute())
	for i := 0; i < slotsPerDay; i++ {
		s := (slot - i + slotsPerDay) % slotsPerDay
		if slots.set[s] {
			return slots.flow[s], nil
		}
	}
	return 0, fmt.Errorf("empty %s profile for site %s: %w", model, site, ErrPredictionUnavailable)
}

func slotOf(minuteOfDay int) int {
	minuteOfDay = ((minuteOfDay % (24 * 60)) + 24*60) % (24 * 60)
	return minuteOfDay / int(pkg.REPORTING_INTERVAL_MINUTES)
}

// ReadProfile. read a profile csv file with header site,model,time,flow (time is HH:MM).
func ReadProfile(filename string, log *zap.Logger) (*ProfilePredictor, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseProfile(f, log)
}

func ParseProfile(r io.Reader, log *zap.Logger) (*ProfilePredictor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read profile header: %w", err)
	}
	cols := map[string]int{"site": -1, "model": -1, "time": -1, "flow": -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[h]; ok {
			cols[h] = i
		}
	}
	for name, i := range cols {
		if i < 0 {
			return nil, fmt.Errorf("profile is missing column %q", name)
		}
	}

	pp := NewProfilePredictor()
	line, rows := 1, 0
	for {
		record, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping malformed profile record", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(record) != len(header) {
			log.Warn("skipping malformed profile record", zap.Int("line", line))
			continue
		}

		minuteOfDay, tErr := parseClock(record[cols["time"]])
		flow, fErr := strconv.ParseFloat(strings.TrimSpace(record[cols["flow"]]), 64)
		site := strings.TrimSpace(record[cols["site"]])
		if tErr != nil || fErr != nil || site == "" || !validFlow(flow) {
			log.Warn("skipping malformed profile record", zap.Int("line", line), zap.String("site", site))
			continue
		}
		model := strings.TrimSpace(record[cols["model"]])
		if model == "" {
			model = anyModel
		}

		pp.Set(site, model, minuteOfDay, flow)
		rows++
	}

	log.Info("flow profile loaded", zap.Int("rows", rows), zap.Int("profiles", len(pp.profiles)))
	return pp, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func validFlow(flow float64) bool {
	return flow >= 0 && !math.IsInf(flow, 1)
}
