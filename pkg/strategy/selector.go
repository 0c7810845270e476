package strategy

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/quant/coint"
)

// ErrNoCointegratedBasket marks an exhausted search: no subset of the
// universe produced a stationary synthetic spread. Not retryable, the
// search space is already exhaustive for the given inputs.
var ErrNoCointegratedBasket = errors.New("no cointegrated basket found")

// Basket is a fixed-size instrument subset plus its hedge-ratio vector,
// one weight per member in member order.
type Basket struct {
	Symbols []string
	Weights []float64
}

// SelectBasket searches all size-element subsets of the universe, oldest
// history first, in lexicographic order, and returns the first basket whose
// Johansen statistics clear both critical values at the given confidence
// and whose synthetic spread independently passes the stationarity oracle.
// The search is deterministic for a fixed universe and oracle behavior.
func SelectBasket(provider BarProvider, cointOracle CointegrationOracle, statOracle StationarityOracle, size int, confidence coint.Confidence) (Basket, error) {
	universe := provider.OrderedByOldestHistory()
	if len(universe) < size {
		return Basket{}, fmt.Errorf("universe of %d cannot fill a basket of %d: %w",
			len(universe), size, ErrNoCointegratedBasket)
	}

	comb := newCombinations(len(universe), size)
	for comb.next() {
		symbols := make([]string, size)
		for i, idx := range comb.indices {
			symbols[i] = universe[idx]
		}

		prices, err := provider.TrainingMatrix(common.FieldClose, symbols)
		if err != nil {
			slog.Info("candidate has no aligned training window", "symbols", symbols, "error", err)
			continue
		}

		res, err := cointOracle.Test(prices)
		if err != nil {
			if errors.Is(err, coint.ErrDegenerateInput) {
				slog.Info("degenerate candidate", "symbols", symbols, "error", err)
				continue
			}
			return Basket{}, fmt.Errorf("cointegration test: %w", err)
		}

		if res.TraceStats[0] < res.TraceCritical(0, confidence) ||
			res.MaxEigStats[0] < res.MaxEigCritical(0, confidence) {
			slog.Debug("candidate not cointegrated", "symbols", symbols,
				"trace", res.TraceStats[0], "max_eig", res.MaxEigStats[0])
			continue
		}

		weights := column(res.Eigenvectors, 0)
		if !statOracle.IsStationary(syntheticSeries(prices, weights)) {
			slog.Debug("candidate spread not stationary", "symbols", symbols)
			continue
		}

		slog.Info("stationary basket found", "symbols", symbols,
			"trace", res.TraceStats[0], "max_eig", res.MaxEigStats[0])
		return Basket{Symbols: symbols, Weights: weights}, nil
	}

	return Basket{}, ErrNoCointegratedBasket
}

// syntheticSeries computes the weighted sum of each price row.
func syntheticSeries(prices *mat.Dense, weights []float64) []float64 {
	rows, cols := prices.Dims()
	out := make([]float64, rows)
	for t := 0; t < rows; t++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += prices.At(t, j) * weights[j]
		}
		out[t] = sum
	}
	return out
}

func column(m *mat.Dense, col int) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.At(i, col)
	}
	return out
}

// combinations enumerates k-element index subsets of [0,n) in lexicographic
// order.
type combinations struct {
	n, k    int
	indices []int
	started bool
}

func newCombinations(n, k int) *combinations {
	return &combinations{n: n, k: k}
}

func (c *combinations) next() bool {
	if !c.started {
		c.started = true
		if c.k <= 0 || c.k > c.n {
			return false
		}
		c.indices = make([]int, c.k)
		for i := range c.indices {
			c.indices[i] = i
		}
		return true
	}

	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}
