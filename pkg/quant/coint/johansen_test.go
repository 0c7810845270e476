package coint

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// cointegratedPair builds a random-walk driver and a second series tied to
// it by a stationary spread.
func cointegratedPair(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := mat.NewDense(n, 2, nil)

	x := 100.0
	for t := 0; t < n; t++ {
		x += rng.NormFloat64()
		y := 2*x + rng.NormFloat64()*0.5
		data.Set(t, 0, x)
		data.Set(t, 1, y)
	}
	return data
}

func TestCointJohansen_CointegratedPair(t *testing.T) {
	res, err := Johansen(cointegratedPair(400, 7), 1)
	if err != nil {
		t.Fatalf("Johansen: %v", err)
	}

	if len(res.Eigenvalues) != 2 || len(res.TraceStats) != 2 || len(res.MaxEigStats) != 2 {
		t.Fatalf("Unexpected result shape: %+v", res)
	}

	if res.Eigenvalues[0] < res.Eigenvalues[1] {
		t.Error("Eigenvalues not sorted descending")
	}

	if res.TraceStats[0] < res.TraceCritical(0, Confidence95) {
		t.Errorf("Expected trace stat %.2f to exceed critical %.2f",
			res.TraceStats[0], res.TraceCritical(0, Confidence95))
	}
	if res.MaxEigStats[0] < res.MaxEigCritical(0, Confidence95) {
		t.Errorf("Expected max-eig stat %.2f to exceed critical %.2f",
			res.MaxEigStats[0], res.MaxEigCritical(0, Confidence95))
	}

	// The dominant cointegrating vector must weigh the two series with
	// opposite signs in roughly a -2:1 ratio.
	v0 := res.Eigenvectors.At(0, 0)
	v1 := res.Eigenvectors.At(1, 0)
	if v0*v1 >= 0 {
		t.Errorf("Expected opposite-sign weights, got [%.4f %.4f]", v0, v1)
	}
	ratio := v0 / v1
	if ratio > -1.5 || ratio < -2.5 {
		t.Errorf("Expected weight ratio near -2, got %.4f", ratio)
	}
}

func TestCointJohansen_CollinearInput(t *testing.T) {
	n := 200
	rng := rand.New(rand.NewSource(11))
	data := mat.NewDense(n, 2, nil)
	x := 50.0
	for t := 0; t < n; t++ {
		x += rng.NormFloat64()
		data.Set(t, 0, x)
		data.Set(t, 1, x) // identical column
	}

	_, err := Johansen(data, 1)
	if !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected ErrDegenerateInput, got %v", err)
	}
}

func TestCointJohansen_InsufficientHistory(t *testing.T) {
	data := mat.NewDense(6, 3, nil)
	for t := 0; t < 6; t++ {
		for j := 0; j < 3; j++ {
			data.Set(t, j, float64(t*j+t+j))
		}
	}

	_, err := Johansen(data, 1)
	if !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected ErrDegenerateInput, got %v", err)
	}
}

func TestCointJohansen_DimensionTooLarge(t *testing.T) {
	data := mat.NewDense(100, MaxDimension+1, nil)

	_, err := Johansen(data, 1)
	if !errors.Is(err, ErrDimensionTooLarge) {
		t.Errorf("Expected ErrDimensionTooLarge, got %v", err)
	}
}

func TestCointJohansen_CriticalTables(t *testing.T) {
	res := &JohansenResult{Eigenvalues: make([]float64, 12)}

	if got := res.TraceCritical(0, Confidence99); got != 343.53 {
		t.Errorf("Expected 343.53, got %.2f", got)
	}
	if got := res.TraceCritical(11, Confidence90); got != 2.69 {
		t.Errorf("Expected 2.69, got %.2f", got)
	}
	if got := res.MaxEigCritical(0, Confidence95); got != 74.62 {
		t.Errorf("Expected 74.62, got %.2f", got)
	}
}
