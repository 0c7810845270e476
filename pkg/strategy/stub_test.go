package strategy

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/quant/coint"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

// stubProvider is a scripted BarProvider for strategy tests.
type stubProvider struct {
	universe      []string
	bars          map[string][]common.Bar
	trainingRows  int
	trainingErr   error
	trainingCalls [][]string
	active        []string
}

func newStubProvider(universe ...string) *stubProvider {
	return &stubProvider{
		universe:     universe,
		bars:         make(map[string][]common.Bar),
		trainingRows: 40,
	}
}

func (p *stubProvider) push(symbol string, ts time.Time, close, dividend, split float64) {
	p.bars[symbol] = append(p.bars[symbol], common.Bar{
		Symbol:    symbol,
		TimeStamp: ts,
		Close:     fixed.FromFloat64(close),
		Dividend:  fixed.FromFloat64(dividend),
		Split:     fixed.FromFloat64(split),
	})
}

func (p *stubProvider) LatestBars(symbol string, n int) []common.Bar {
	bars := p.bars[symbol]
	if len(bars) == 0 || n <= 0 {
		return nil
	}
	if n > len(bars) {
		n = len(bars)
	}
	return bars[len(bars)-n:]
}

func (p *stubProvider) OrderedByOldestHistory() []string {
	return p.universe
}

func (p *stubProvider) TrainingMatrix(field common.PriceField, symbols []string) (*mat.Dense, error) {
	p.trainingCalls = append(p.trainingCalls, append([]string(nil), symbols...))
	if p.trainingErr != nil {
		return nil, p.trainingErr
	}
	out := mat.NewDense(p.trainingRows, len(symbols), nil)
	for t := 0; t < p.trainingRows; t++ {
		for j := range symbols {
			out.Set(t, j, 100+float64(t%7)+float64(j))
		}
	}
	return out, nil
}

func (p *stubProvider) SetActiveBasket(symbols []string) {
	p.active = append([]string(nil), symbols...)
}

func (p *stubProvider) ActiveSymbols() []string {
	return p.active
}

// stubCointOracle scripts the Johansen outcome per candidate.
type stubCointOracle struct {
	fn    func(call int, prices *mat.Dense) (*coint.JohansenResult, error)
	calls int
}

func (o *stubCointOracle) Test(prices *mat.Dense) (*coint.JohansenResult, error) {
	o.calls++
	return o.fn(o.calls, prices)
}

// stubStatOracle scripts the stationarity outcome.
type stubStatOracle struct {
	fn    func(series []float64) bool
	calls int
}

func (o *stubStatOracle) IsStationary(series []float64) bool {
	o.calls++
	return o.fn(series)
}

func alwaysStationary() *stubStatOracle {
	return &stubStatOracle{fn: func([]float64) bool { return true }}
}

// acceptingResult clears both critical values at every confidence with the
// given leading cointegrating vector.
func acceptingResult(weights []float64) *coint.JohansenResult {
	k := len(weights)
	vectors := mat.NewDense(k, k, nil)
	for i, w := range weights {
		vectors.Set(i, 0, w)
	}
	stats := make([]float64, k)
	stats[0] = 1e6
	return &coint.JohansenResult{
		Eigenvalues:  make([]float64, k),
		Eigenvectors: vectors,
		TraceStats:   append([]float64(nil), stats...),
		MaxEigStats:  append([]float64(nil), stats...),
	}
}

func rejectingResult(k int) *coint.JohansenResult {
	return &coint.JohansenResult{
		Eigenvalues:  make([]float64, k),
		Eigenvectors: mat.NewDense(k, k, nil),
		TraceStats:   make([]float64, k),
		MaxEigStats:  make([]float64, k),
	}
}

var errDrained = errors.New("drained")

// drainSignals runs the router loop until the queue is empty and returns
// the dispatched signals in emission order.
func drainSignals(t *testing.T, router *bus.Router) []common.Signal {
	t.Helper()

	var out []common.Signal
	router.OnSignal = func(ctx context.Context, sig common.Signal) {
		out = append(out, sig)
	}

	errChan := router.ExecLoop(context.Background(), func() error { return errDrained })
	if err := <-errChan; !errors.Is(err, errDrained) {
		t.Fatalf("unexpected drain error: %v", err)
	}
	return out
}

func update(n int) common.MarketUpdate {
	return common.MarketUpdate{
		TimeStamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n),
	}
}

func fmtSymbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("S%02d", i)
	}
	return out
}
