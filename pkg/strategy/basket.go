package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/quant/coint"
	"github.com/dkalas/aphelion/pkg/utility"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

const basketComponentName = "strategy.basket"

// Position is the state of the basket as a whole, never per instrument.
type Position int

const (
	PositionFlat Position = iota
	PositionLong
	PositionShort
)

func (p Position) String() string {
	switch p {
	case PositionLong:
		return "long"
	case PositionShort:
		return "short"
	default:
		return "flat"
	}
}

// BasketReversion trades the synthetic spread of a cointegrated basket.
// A rolling z-score of the spread drives a three-state machine: short the
// basket when the spread is rich, long when it is cheap, exit when it
// reverts. When the spread loses stationarity the position is closed and a
// fresh basket is selected.
type BasketReversion struct {
	router      *bus.Router
	provider    BarProvider
	cointOracle CointegrationOracle
	statOracle  StationarityOracle

	enter      float64
	exit       float64
	confidence coint.Confidence
	basketSize int
	window     int
	compound   bool
	recheck    bool
	minObs     int
	onFailure  func(error)

	basket      Basket
	baseWeights []float64
	weights     []float64
	spread      []float64
	position    Position
	halted      bool
}

// NewBasketReversion runs the initial basket search and returns a ready
// strategy. An exhausted search is a non-recoverable construction failure.
func NewBasketReversion(router *bus.Router, provider BarProvider, cointOracle CointegrationOracle, statOracle StationarityOracle, options ...Option) (*BasketReversion, error) {
	s := &BasketReversion{
		router:      router,
		provider:    provider,
		cointOracle: cointOracle,
		statOracle:  statOracle,
		enter:       2.0,
		exit:        0.5,
		confidence:  coint.Confidence95,
		basketSize:  12,
		compound:    true,
		recheck:     true,
		minObs:      30,
	}
	s.onFailure = func(err error) {
		slog.Error("basket re-selection failed, strategy halted", "error", err)
	}

	for _, option := range options {
		option(s)
	}

	basket, err := SelectBasket(s.provider, s.cointOracle, s.statOracle, s.basketSize, s.confidence)
	if err != nil {
		return nil, fmt.Errorf("initial basket selection: %w", err)
	}
	s.adoptBasket(basket)

	return s, nil
}

func (s *BasketReversion) Basket() Basket {
	return s.basket
}

func (s *BasketReversion) Position() Position {
	return s.position
}

func (s *BasketReversion) adoptBasket(b Basket) {
	s.basket = b
	s.baseWeights = append([]float64(nil), b.Weights...)
	s.weights = append([]float64(nil), b.Weights...)
	s.spread = nil
	s.provider.SetActiveBasket(b.Symbols)
}

func (s *BasketReversion) CalculateSignals(ctx context.Context, update common.MarketUpdate) {
	if s.halted {
		return
	}

	bars := make([]common.Bar, len(s.basket.Symbols))
	for i, symbol := range s.basket.Symbols {
		latest := s.provider.LatestBars(symbol, 1)
		if len(latest) == 0 {
			slog.Debug("member has no bar yet, skipping update", "symbol", symbol)
			return
		}
		bars[i] = latest[len(latest)-1]
	}

	price, ok := s.syntheticPrice(bars)
	if !ok {
		return
	}
	s.spread = append(s.spread, price)
	if s.window > 0 && len(s.spread) > s.window {
		s.spread = s.spread[len(s.spread)-s.window:]
	}

	if s.recheck && len(s.spread) >= s.minObs && !s.statOracle.IsStationary(s.spread) {
		s.onDecoherence(ctx, update)
		return
	}

	if len(s.spread) < 2 {
		return
	}
	mean := stat.Mean(s.spread, nil)
	stdDev := stat.StdDev(s.spread, nil)
	if stdDev == 0 {
		slog.Debug("zero spread variance, skipping update", "ts", update.TimeStamp)
		return
	}
	s.applyTransition(ctx, update, (price-mean)/stdDev)
}

// applyTransition evaluates the state machine in strict priority order:
// exits first, then entries. At most one transition fires per update.
func (s *BasketReversion) applyTransition(ctx context.Context, update common.MarketUpdate, z float64) {
	switch {
	case s.position == PositionLong && z >= s.exit:
		s.emitAll(ctx, update, common.DirectionExit)
		s.position = PositionFlat
	case s.position == PositionShort && z <= -s.exit:
		s.emitAll(ctx, update, common.DirectionExit)
		s.position = PositionFlat
	case s.position != PositionShort && z >= s.enter:
		s.emitAll(ctx, update, common.DirectionShort)
		s.position = PositionShort
	case s.position != PositionLong && z <= -s.enter:
		s.emitAll(ctx, update, common.DirectionLong)
		s.position = PositionLong
	}
}

// syntheticPrice applies per-member corporate-action factors to the hedge
// ratio and returns the weighted sum of closes.
func (s *BasketReversion) syntheticPrice(bars []common.Bar) (float64, bool) {
	price := 0.0
	for i, bar := range bars {
		closePx, okClose := bar.Close.Float64()
		dividend, okDiv := bar.Dividend.Float64()
		split, okSplit := bar.Split.Float64()
		if !okClose || !okDiv || !okSplit || closePx == 0 {
			slog.Warn("unusable bar, skipping update", "symbol", bar.Symbol, "ts", bar.TimeStamp)
			return 0, false
		}
		if split == 0 {
			split = 1
		}

		factor := split * (closePx + dividend) / closePx
		if s.compound {
			s.weights[i] *= factor
		} else {
			s.weights[i] = s.baseWeights[i] * factor
		}
		price += s.weights[i] * closePx
	}
	return price, true
}

// onDecoherence closes out the basket and selects a replacement. A failed
// re-selection is fatal to the strategy.
func (s *BasketReversion) onDecoherence(ctx context.Context, update common.MarketUpdate) {
	slog.Info("spread lost stationarity, re-selecting basket",
		"ts", update.TimeStamp, "position", s.position)

	s.emitAll(ctx, update, common.DirectionExit)
	s.position = PositionFlat

	basket, err := SelectBasket(s.provider, s.cointOracle, s.statOracle, s.basketSize, s.confidence)
	if err != nil {
		s.halted = true
		s.onFailure(fmt.Errorf("basket re-selection: %w", err))
		return
	}
	s.adoptBasket(basket)
}

func (s *BasketReversion) emitAll(ctx context.Context, update common.MarketUpdate, direction common.Direction) {
	for i, symbol := range s.basket.Symbols {
		if err := s.router.Post(bus.SignalEvent, common.Signal{
			Source:      basketComponentName,
			Symbol:      symbol,
			ExecutionId: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			TimeStamp:   update.TimeStamp,
			Direction:   direction,
			Strength:    fixed.FromFloat64(s.weights[i]),
		}); err != nil {
			slog.Warn("unable to post signal", "error", err, "symbol", symbol)
		}
	}
}
