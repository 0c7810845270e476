package strategy

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/quant/coint"
)

// Strategy is the single capability every concrete strategy exposes. It is
// invoked once per market update, emits zero or more signals to the router
// as a side effect and must not panic on any well-formed input.
type Strategy interface {
	CalculateSignals(ctx context.Context, update common.MarketUpdate)
}

// BarProvider is the slice of the market-data layer strategies depend on.
// history.Store satisfies it.
type BarProvider interface {
	LatestBars(symbol string, n int) []common.Bar
	OrderedByOldestHistory() []string
	TrainingMatrix(field common.PriceField, symbols []string) (*mat.Dense, error)
	SetActiveBasket(symbols []string)
	ActiveSymbols() []string
}

// CointegrationOracle computes a cointegrating relationship for a matrix of
// aligned price series. coint.JohansenOracle satisfies it.
type CointegrationOracle interface {
	Test(prices *mat.Dense) (*coint.JohansenResult, error)
}

// StationarityOracle reports whether a series is stationary.
// coint.ADFOracle satisfies it.
type StationarityOracle interface {
	IsStationary(series []float64) bool
}
