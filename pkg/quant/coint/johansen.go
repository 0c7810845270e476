package coint

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDegenerateInput marks singular or otherwise untestable price
	// matrices: too little history, collinear columns, rank-deficient
	// covariances. Callers skip the candidate and move on.
	ErrDegenerateInput = errors.New("degenerate input matrix")

	ErrDimensionTooLarge = errors.New("system dimension exceeds critical-value tables")
)

// JohansenResult holds the outcome of the Johansen cointegration procedure.
// Eigenvalues are sorted in descending order; column j of Eigenvectors is
// the cointegrating vector paired with Eigenvalues[j].
type JohansenResult struct {
	Eigenvalues  []float64
	Eigenvectors *mat.Dense
	TraceStats   []float64
	MaxEigStats  []float64
}

// TraceCritical returns the trace-statistic critical value for rank r at the
// given confidence.
func (r *JohansenResult) TraceCritical(rank int, c Confidence) float64 {
	return traceCriticalValues[len(r.Eigenvalues)-rank-1][c]
}

// MaxEigCritical returns the maximum-eigenvalue critical value for rank r at
// the given confidence.
func (r *JohansenResult) MaxEigCritical(rank int, c Confidence) float64 {
	return maxEigCriticalValues[len(r.Eigenvalues)-rank-1][c]
}

// Johansen runs the Johansen cointegration procedure on a T x k matrix of
// level prices (rows are timestamps, columns are instruments) with the given
// number of lagged differences, model with an unrestricted constant.
func Johansen(prices *mat.Dense, lags int) (*JohansenResult, error) {
	rows, k := prices.Dims()
	if k < 2 {
		return nil, fmt.Errorf("need at least two series, got %d: %w", k, ErrDegenerateInput)
	}
	if k > MaxDimension {
		return nil, fmt.Errorf("dimension %d: %w", k, ErrDimensionTooLarge)
	}
	if lags < 1 {
		lags = 1
	}

	// Effective observation t covers dX rows lags..rows-2.
	n := rows - 1 - lags
	regressors := k*lags + 1
	if n <= regressors+k {
		return nil, fmt.Errorf("%d observations for %d regressors: %w", n, regressors, ErrDegenerateInput)
	}

	dx := mat.NewDense(rows-1, k, nil)
	for t := 0; t < rows-1; t++ {
		for j := 0; j < k; j++ {
			dx.Set(t, j, prices.At(t+1, j)-prices.At(t, j))
		}
	}

	// Z0: current differences; Z1: lagged levels; Z2: constant plus lagged
	// differences.
	z0 := mat.NewDense(n, k, nil)
	z1 := mat.NewDense(n, k, nil)
	z2 := mat.NewDense(n, regressors, nil)
	for i := 0; i < n; i++ {
		t := i + lags
		for j := 0; j < k; j++ {
			z0.Set(i, j, dx.At(t, j))
			z1.Set(i, j, prices.At(t, j))
		}
		z2.Set(i, 0, 1)
		for l := 1; l <= lags; l++ {
			for j := 0; j < k; j++ {
				z2.Set(i, 1+(l-1)*k+j, dx.At(t-l, j))
			}
		}
	}

	r0, err := residuals(z0, z2)
	if err != nil {
		return nil, err
	}
	r1, err := residuals(z1, z2)
	if err != nil {
		return nil, err
	}

	s00 := crossProduct(r0, r0, n)
	s01 := crossProduct(r0, r1, n)
	s10 := crossProduct(r1, r0, n)
	s11 := crossProduct(r1, r1, n)

	// M = S11^-1 S10 S00^-1 S01, eigenvalues are the squared canonical
	// correlations between the residual sets.
	var s00InvS01 mat.Dense
	if err := s00InvS01.Solve(s00, s01); err != nil {
		return nil, fmt.Errorf("S00 solve: %w", ErrDegenerateInput)
	}
	var rhs mat.Dense
	rhs.Mul(s10, &s00InvS01)
	var m mat.Dense
	if err := m.Solve(s11, &rhs); err != nil {
		return nil, fmt.Errorf("S11 solve: %w", ErrDegenerateInput)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(&m, mat.EigenRight); !ok {
		return nil, fmt.Errorf("eigen factorization failed: %w", ErrDegenerateInput)
	}

	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return real(values[order[a]]) > real(values[order[b]])
	})

	eigenvalues := make([]float64, k)
	eigenvectors := mat.NewDense(k, k, nil)
	for col, idx := range order {
		eigenvalues[col] = real(values[idx])
		for row := 0; row < k; row++ {
			eigenvectors.Set(row, col, real(vectors.At(row, idx)))
		}
	}
	normalizeColumns(eigenvectors, s11)

	traceStats := make([]float64, k)
	maxEigStats := make([]float64, k)
	for r := 0; r < k; r++ {
		sum := 0.0
		for i := r; i < k; i++ {
			sum += math.Log(1 - clampEigenvalue(eigenvalues[i]))
		}
		traceStats[r] = -float64(n) * sum
		maxEigStats[r] = -float64(n) * math.Log(1-clampEigenvalue(eigenvalues[r]))
	}

	return &JohansenResult{
		Eigenvalues:  eigenvalues,
		Eigenvectors: eigenvectors,
		TraceStats:   traceStats,
		MaxEigStats:  maxEigStats,
	}, nil
}

// residuals regresses each column of y on x and returns y minus the fit.
func residuals(y, x *mat.Dense) (*mat.Dense, error) {
	var beta mat.Dense
	if err := beta.Solve(x, y); err != nil {
		return nil, fmt.Errorf("least squares: %w", ErrDegenerateInput)
	}

	rows, cols := y.Dims()
	res := mat.NewDense(rows, cols, nil)
	res.Mul(x, &beta)
	res.Sub(y, res)
	return res, nil
}

func crossProduct(a, b *mat.Dense, n int) *mat.Dense {
	_, ca := a.Dims()
	_, cb := b.Dims()
	out := mat.NewDense(ca, cb, nil)
	out.Mul(a.T(), b)
	out.Scale(1/float64(n), out)
	return out
}

// normalizeColumns rescales each eigenvector v so that v' S11 v = 1, the
// conventional Johansen normalization.
func normalizeColumns(vectors *mat.Dense, s11 *mat.Dense) {
	k, _ := vectors.Dims()
	for col := 0; col < k; col++ {
		v := mat.NewVecDense(k, nil)
		for row := 0; row < k; row++ {
			v.SetVec(row, vectors.At(row, col))
		}
		var sv mat.VecDense
		sv.MulVec(s11, v)
		norm := mat.Dot(v, &sv)
		if norm <= 0 {
			continue
		}
		scale := 1 / math.Sqrt(norm)
		for row := 0; row < k; row++ {
			vectors.Set(row, col, vectors.At(row, col)*scale)
		}
	}
}

// clampEigenvalue keeps log(1-lambda) finite under numerical noise.
func clampEigenvalue(lambda float64) float64 {
	if lambda < 0 {
		return 0
	}
	if lambda > 1-1e-12 {
		return 1 - 1e-12
	}
	return lambda
}

// JohansenOracle is the cointegration oracle backed by the Johansen
// procedure.
type JohansenOracle struct {
	Lags int
}

func NewJohansenOracle(lags int) *JohansenOracle {
	return &JohansenOracle{
		Lags: lags,
	}
}

func (o *JohansenOracle) Test(prices *mat.Dense) (*JohansenResult, error) {
	return Johansen(prices, o.Lags)
}
