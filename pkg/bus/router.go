package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dkalas/aphelion/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router dispatches posted events to their handlers on a single goroutine.
// Handlers run to completion before the next event is considered, so
// strategies never see overlapping updates.
type Router struct {
	events chan event

	OnMarket MarketEventHandler
	OnBar    BarEventHandler
	OnSignal SignalEventHandler

	runTimeNs     atomic.Int64
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(eventCapacity int) *Router {
	return &Router{
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return errors.New("event capacity reached")
	}
}

func (r *Router) Exec(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		err := r.run(ctx, nil)
		// Run time must be recorded before the terminal send so a caller
		// reading Statistics after the receive sees it.
		r.runTimeNs.Add(int64(time.Since(start)))
		done <- err
	}()

	return done
}

// ExecLoop drains pending events and invokes doOnceCb whenever the queue is
// empty. Backtest feeds use the callback to push the next slice of data,
// which keeps event production and consumption strictly interleaved.
func (r *Router) ExecLoop(ctx context.Context, doOnceCb func() error) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		err := r.run(ctx, doOnceCb)
		r.runTimeNs.Add(int64(time.Since(start)))
		done <- err
	}()

	return done
}

// run drains events until the context ends or, when doOnceCb is set, the
// callback returns an error on an empty queue. Without a callback the
// select blocks instead of spinning.
func (r *Router) run(ctx context.Context, doOnceCb func() error) error {
	for {
		if doOnceCb == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev := <-r.events:
				r.consume(ctx, ev)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			r.consume(ctx, ev)
		default:
			if err := doOnceCb(); err != nil {
				return err
			}
		}
	}
}

func (r *Router) consume(ctx context.Context, ev event) {
	r.dispatchCount.Add(1)
	if err := r.dispatch(ctx, ev); err != nil {
		r.dispatchFails.Add(1)
		slog.Warn("dispatch failed", "error", err, "event_id", ev.id)
	}
}

func (r *Router) Statistics() Statistics {
	return Statistics{
		RunTime:       time.Duration(r.runTimeNs.Load()),
		PostCount:     r.postCount.Load(),
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case MarketEvent:
		update, ok := ev.data.(common.MarketUpdate)
		if !ok {
			return errors.New("invalid type assertion for market event")
		}
		if r.OnMarket != nil {
			r.OnMarket(ctx, update)
		} else {
			slog.Debug("market handler is nil")
		}
	case BarEvent:
		bar, ok := ev.data.(common.Bar)
		if !ok {
			return errors.New("invalid type assertion for bar event")
		}
		if r.OnBar != nil {
			r.OnBar(ctx, bar)
		} else {
			slog.Debug("bar handler is nil")
		}
	case SignalEvent:
		sig, ok := ev.data.(common.Signal)
		if !ok {
			return errors.New("invalid type assertion for signal event")
		}
		if r.OnSignal != nil {
			r.OnSignal(ctx, sig)
		} else {
			slog.Debug("signal handler is nil")
		}
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
	return nil
}
