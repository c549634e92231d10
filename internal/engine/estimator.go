package engine

import (
	"time"

	"github.com/dev265545/store-monitor/internal/domain"
)

// Estimator turns a business-hours-filtered, time-ordered observation
// sequence into estimated active and inactive minutes for one window.
//
// The estimate is an approximation, not ground truth, so it is kept behind an
// interface: alternative strategies (midpoint interpolation between status
// changes, for example) can be swapped in without touching the pipeline.
type Estimator interface {
	Estimate(obs []domain.StatusObservation, windowMinutes float64) (activeMinutes, inactiveMinutes float64)
}

// GapSumEstimator implements gap accounting with uniform extrapolation.
//
// Raw coverage per status is the sum of gaps between consecutive
// observations of that same status (a status seen 0 or 1 times contributes
// nothing). The raw figures are then rescaled by windowMinutes/rawTotal so
// the sparse sample represents the full window. When nothing was observed
// (rawTotal == 0) both figures stay 0: no data yields no signal, not a guess.
type GapSumEstimator struct{}

func (GapSumEstimator) Estimate(obs []domain.StatusObservation, windowMinutes float64) (float64, float64) {
	var rawActive, rawInactive float64
	lastSeen := make(map[domain.Status]time.Time, 2)

	for _, o := range obs {
		if prev, ok := lastSeen[o.Status]; ok {
			gap := o.TimestampUTC.Sub(prev).Minutes()
			switch o.Status {
			case domain.StatusActive:
				rawActive += gap
			case domain.StatusInactive:
				rawInactive += gap
			}
		}
		lastSeen[o.Status] = o.TimestampUTC
	}

	rawTotal := rawActive + rawInactive
	if rawTotal <= 0 {
		return 0, 0
	}

	factor := windowMinutes / rawTotal
	return rawActive * factor, rawInactive * factor
}
