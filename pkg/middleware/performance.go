package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
)

type Performance struct {
	totalMarketHandlerDur time.Duration
	totalBarHandlerDur    time.Duration
	totalSignalHandlerDur time.Duration
}

func NewPerformance() *Performance {
	return &Performance{}
}

func (p *Performance) WithMarket(handler bus.MarketEventHandler) bus.MarketEventHandler {
	return func(ctx context.Context, update common.MarketUpdate) {
		startTime := time.Now()
		handler(ctx, update)
		p.totalMarketHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		startTime := time.Now()
		handler(ctx, bar)
		p.totalBarHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		startTime := time.Now()
		handler(ctx, signal)
		p.totalSignalHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) PrintStatistics() {
	slog.Info("handler durations",
		"market_total", p.totalMarketHandlerDur,
		"bar_total", p.totalBarHandlerDur,
		"signal_total", p.totalSignalHandlerDur)
}
