package middleware

import (
	"context"
	"log/slog"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
)

type Telemetry struct {
	marketEventCounter int64
	barEventCounter    int64
	signalEventCounter int64
}

func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

func (t *Telemetry) WithMarket(handler bus.MarketEventHandler) bus.MarketEventHandler {
	return func(ctx context.Context, update common.MarketUpdate) {
		t.marketEventCounter++
		handler(ctx, update)
	}
}

func (t *Telemetry) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		t.barEventCounter++
		handler(ctx, bar)
	}
}

func (t *Telemetry) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		t.signalEventCounter++
		handler(ctx, signal)
	}
}

func (t *Telemetry) PrintStatistics() {
	slog.Info("event statistics",
		"market_events", t.marketEventCounter,
		"bar_events", t.barEventCounter,
		"signal_events", t.signalEventCounter)
}
