package strategy

import (
	"github.com/dkalas/aphelion/pkg/quant/coint"
)

type Option func(*BasketReversion)

// WithThresholds sets the z-score entry and exit levels. Both are
// magnitudes; an entry above the exit produces hysteresis.
func WithThresholds(enter, exit float64) Option {
	return func(s *BasketReversion) {
		s.enter = enter
		s.exit = exit
	}
}

func WithBasketSize(size int) Option {
	return func(s *BasketReversion) {
		if size > 0 {
			s.basketSize = size
		}
	}
}

func WithConfidence(confidence coint.Confidence) Option {
	return func(s *BasketReversion) {
		s.confidence = confidence
	}
}

// WithRollingWindow bounds the synthetic price series to the most recent n
// observations. Zero keeps the full series, matching the reference
// behavior of an ever-growing window.
func WithRollingWindow(n int) Option {
	return func(s *BasketReversion) {
		if n >= 0 {
			s.window = n
		}
	}
}

// WithCompoundingAdjustment controls how corporate-action factors touch the
// hedge ratio. When true the factor multiplies the stored weight on every
// bar, compounding across updates; when false the factor is applied against
// the originally selected weight each update.
func WithCompoundingAdjustment(compound bool) Option {
	return func(s *BasketReversion) {
		s.compound = compound
	}
}

// WithStationarityRecheck toggles the per-update stationarity guard.
// Disabling it is a degraded mode that trades a decohered spread until the
// next full re-selection trigger; the guard is on by default.
func WithStationarityRecheck(recheck bool) Option {
	return func(s *BasketReversion) {
		s.recheck = recheck
	}
}

// WithStationarityMinObs sets how many spread observations must accumulate
// before the guard starts testing.
func WithStationarityMinObs(n int) Option {
	return func(s *BasketReversion) {
		if n > 0 {
			s.minObs = n
		}
	}
}

// WithFailureHandler installs the callback invoked when mid-run basket
// re-selection fails irrecoverably. The strategy halts afterwards either
// way; the default handler only logs.
func WithFailureHandler(fn func(error)) Option {
	return func(s *BasketReversion) {
		if fn != nil {
			s.onFailure = fn
		}
	}
}
