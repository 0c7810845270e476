package strategy

import (
	"context"
	"log/slog"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/utility"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

const buyAndHoldComponentName = "strategy.buyandhold"

// BuyAndHold goes long every symbol on its first available bar and never
// exits. It exists as a benchmark against which other strategies are
// compared.
type BuyAndHold struct {
	router   *bus.Router
	provider BarProvider

	symbols []string
	bought  map[string]bool
}

func NewBuyAndHold(router *bus.Router, provider BarProvider, symbols []string) *BuyAndHold {
	bought := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		bought[symbol] = false
	}
	return &BuyAndHold{
		router:   router,
		provider: provider,
		symbols:  symbols,
		bought:   bought,
	}
}

func (s *BuyAndHold) CalculateSignals(ctx context.Context, update common.MarketUpdate) {
	for _, symbol := range s.symbols {
		if s.bought[symbol] {
			continue
		}

		bars := s.provider.LatestBars(symbol, 1)
		if len(bars) == 0 {
			continue
		}
		bar := bars[len(bars)-1]

		if err := s.router.Post(bus.SignalEvent, common.Signal{
			Source:      buyAndHoldComponentName,
			Symbol:      bar.Symbol,
			ExecutionId: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			TimeStamp:   bar.TimeStamp,
			Direction:   common.DirectionLong,
			Strength:    fixed.One,
		}); err != nil {
			slog.Warn("unable to post signal", "error", err, "symbol", symbol)
			continue
		}
		s.bought[symbol] = true
	}
}
