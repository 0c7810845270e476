package bus

import (
	"context"

	"github.com/dkalas/aphelion/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type MarketEventHandler EventHandler[common.MarketUpdate]
type BarEventHandler EventHandler[common.Bar]
type SignalEventHandler EventHandler[common.Signal]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}
