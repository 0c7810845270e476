package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkalas/aphelion/pkg/common"
)

func TestBusRouter_Post(t *testing.T) {
	r := NewRouter(10)

	err := r.Post(MarketEvent, common.MarketUpdate{})
	if err != nil {
		t.Errorf("Post failed: %v", err)
	}

	if r.postCount.Load() != 1 {
		t.Errorf("Expected postCount=1, got %d", r.postCount.Load())
	}
}

func TestBusRouter_PostCapacityReached(t *testing.T) {
	r := NewRouter(1)

	err := r.Post(MarketEvent, common.MarketUpdate{})
	if err != nil {
		t.Errorf("First Post failed: %v", err)
	}

	err = r.Post(MarketEvent, common.MarketUpdate{})
	if err == nil {
		t.Error("Expected error when capacity reached")
	}

	if r.postFails.Load() != 1 {
		t.Errorf("Expected postFails=1, got %d", r.postFails.Load())
	}
}

func TestBusRouter_Exec(t *testing.T) {
	r := NewRouter(10)

	var marketHandled bool
	r.OnMarket = func(ctx context.Context, update common.MarketUpdate) {
		marketHandled = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := r.Exec(ctx)

	if err := r.Post(MarketEvent, common.MarketUpdate{}); err != nil {
		t.Errorf("Post failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-errChan
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if !marketHandled {
		t.Error("Market handler not called")
	}

	if r.dispatchCount.Load() != 1 {
		t.Errorf("Expected dispatchCount=1, got %d", r.dispatchCount.Load())
	}
}

func TestBusRouter_ExecLoop(t *testing.T) {
	r := NewRouter(10)

	var barHandled bool
	r.OnBar = func(ctx context.Context, bar common.Bar) {
		barHandled = true
	}

	doOnceCount := 0
	doOnceCb := func() error {
		doOnceCount++
		if doOnceCount > 5 {
			return errors.New("done")
		}
		return nil
	}

	if err := r.Post(BarEvent, common.Bar{}); err != nil {
		t.Errorf("Post failed: %v", err)
	}

	ctx := context.Background()
	errChan := r.ExecLoop(ctx, doOnceCb)

	err := <-errChan
	if err == nil || err.Error() != "done" {
		t.Errorf("Expected 'done' error, got %v", err)
	}

	if !barHandled {
		t.Error("Bar handler not called")
	}

	if doOnceCount <= 5 {
		t.Errorf("Expected doOnceCount>5, got %d", doOnceCount)
	}
}

func TestBusRouter_AllEventTypes(t *testing.T) {
	r := NewRouter(20)

	handled := map[EventId]bool{
		MarketEvent: false,
		BarEvent:    false,
		SignalEvent: false,
	}

	r.OnMarket = func(ctx context.Context, update common.MarketUpdate) {
		handled[MarketEvent] = true
	}
	r.OnBar = func(ctx context.Context, bar common.Bar) {
		handled[BarEvent] = true
	}
	r.OnSignal = func(ctx context.Context, sig common.Signal) {
		handled[SignalEvent] = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := r.Exec(ctx)

	if err := r.Post(MarketEvent, common.MarketUpdate{}); err != nil {
		t.Errorf("Post failed: %v", err)
	}
	if err := r.Post(BarEvent, common.Bar{}); err != nil {
		t.Errorf("Post failed: %v", err)
	}
	if err := r.Post(SignalEvent, common.Signal{}); err != nil {
		t.Errorf("Post failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	cancel()
	<-errChan

	for id, ok := range handled {
		if !ok {
			t.Errorf("Handler for event id %v not called", id)
		}
	}
}

func TestBusRouter_DispatchInvalidPayload(t *testing.T) {
	r := NewRouter(10)

	r.OnBar = func(ctx context.Context, bar common.Bar) {
		t.Error("handler must not run for a mistyped payload")
	}

	if err := r.Post(BarEvent, "not a bar"); err != nil {
		t.Errorf("Post failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := r.Exec(ctx)

	time.Sleep(10 * time.Millisecond)
	cancel()
	<-errChan

	if r.dispatchFails.Load() != 1 {
		t.Errorf("Expected dispatchFails=1, got %d", r.dispatchFails.Load())
	}
}

func TestBusRouter_StatisticsAfterRun(t *testing.T) {
	r := NewRouter(10)
	r.OnMarket = func(ctx context.Context, update common.MarketUpdate) {}

	if err := r.Post(MarketEvent, common.MarketUpdate{}); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	stop := errors.New("stop")
	errChan := r.ExecLoop(context.Background(), func() error {
		time.Sleep(time.Millisecond)
		return stop
	})
	if err := <-errChan; !errors.Is(err, stop) {
		t.Fatalf("Expected stop, got %v", err)
	}

	// The run time written by the router goroutine must be visible to a
	// reader that saw the terminal error.
	stats := r.Statistics()
	if stats.RunTime <= 0 {
		t.Errorf("Expected positive run time, got %v", stats.RunTime)
	}
	if stats.DispatchCount != 1 {
		t.Errorf("Expected dispatchCount=1, got %d", stats.DispatchCount)
	}
	if stats.Throughput() <= 0 {
		t.Errorf("Expected positive throughput, got %v", stats.Throughput())
	}
}

func TestBusRouter_StatisticsBeforeRun(t *testing.T) {
	r := NewRouter(10)

	if err := r.Post(MarketEvent, common.MarketUpdate{}); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	stats := r.Statistics()
	if stats.RunTime != 0 {
		t.Errorf("Expected zero run time, got %v", stats.RunTime)
	}
	if got := stats.Throughput(); got != 0 {
		t.Errorf("Expected zero throughput before any run, got %v", got)
	}
}

func TestBusRouter_MergeHandlers(t *testing.T) {
	calls := 0
	h := MergeHandlers(
		func(ctx context.Context, sig common.Signal) { calls++ },
		func(ctx context.Context, sig common.Signal) { calls++ },
	)

	h(context.Background(), common.Signal{})

	if calls != 2 {
		t.Errorf("Expected both handlers called, got %d", calls)
	}
}
