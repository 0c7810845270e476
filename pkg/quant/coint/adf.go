package coint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultADFLags is the lagged-difference order used by the stationarity
// oracle when none is configured.
const DefaultADFLags = 1

// MinADFObservations is the shortest series the ADF regression accepts.
const MinADFObservations = 12

// ADF computes the augmented Dickey-Fuller t statistic for the null of a
// unit root, regression with a constant. More negative means more evidence
// of stationarity.
func ADF(series []float64, lags int) (float64, error) {
	if lags < 0 {
		lags = 0
	}
	if len(series) < MinADFObservations || len(series)-1-lags < lags+4 {
		return 0, fmt.Errorf("series of %d observations: %w", len(series), ErrDegenerateInput)
	}

	n := len(series) - 1 - lags
	cols := 2 + lags

	// dy_t = c + phi*y_{t-1} + sum_i psi_i dy_{t-i} + e_t
	y := mat.NewVecDense(n, nil)
	x := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		t := i + lags + 1
		y.SetVec(i, series[t]-series[t-1])
		x.Set(i, 0, 1)
		x.Set(i, 1, series[t-1])
		for l := 1; l <= lags; l++ {
			x.Set(i, 1+l, series[t-l]-series[t-l-1])
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return 0, fmt.Errorf("least squares: %w", ErrDegenerateInput)
	}

	var fit mat.VecDense
	fit.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fit.AtVec(i)
		rss += r * r
	}
	dof := n - cols
	if dof <= 0 {
		return 0, fmt.Errorf("no degrees of freedom: %w", ErrDegenerateInput)
	}
	sigma2 := rss / float64(dof)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return 0, fmt.Errorf("X'X inverse: %w", ErrDegenerateInput)
	}

	se := math.Sqrt(sigma2 * xtxInv.At(1, 1))
	if se == 0 || math.IsNaN(se) {
		return 0, fmt.Errorf("zero standard error: %w", ErrDegenerateInput)
	}

	return beta.AtVec(1) / se, nil
}

// ADFOracle is the stationarity oracle backed by the ADF test.
type ADFOracle struct {
	Lags       int
	Confidence Confidence
}

func NewADFOracle(lags int, confidence Confidence) *ADFOracle {
	return &ADFOracle{
		Lags:       lags,
		Confidence: confidence,
	}
}

// IsStationary rejects the unit-root null at the configured confidence.
// Untestable series (too short, degenerate regression) are reported as
// non-stationary.
func (o *ADFOracle) IsStationary(series []float64) bool {
	stat, err := ADF(series, o.Lags)
	if err != nil {
		return false
	}
	return stat <= adfCriticalValues[o.Confidence]
}
