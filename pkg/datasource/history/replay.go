package history

import (
	"errors"
	"sort"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/utility"
)

const replayComponentName = "datasource.history.replay"

// ErrEof is returned by Feed once every loaded bar has been replayed.
var ErrEof = errors.New("end of data")

// Replay pushes loaded bars into the store in chronological order and posts
// one MarketUpdate per distinct timestamp. Designed to drive
// Router.ExecLoop.
type Replay struct {
	router *bus.Router
	store  *Store
	bars   []common.Bar
	idx    int
}

func NewReplay(router *bus.Router, store *Store, bars []common.Bar) *Replay {
	sorted := make([]common.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].TimeStamp.Before(sorted[b].TimeStamp)
	})
	return &Replay{
		router: router,
		store:  store,
		bars:   sorted,
	}
}

// Feed appends every bar sharing the next timestamp to the store, posts the
// bars and a single market update, and advances. Returns ErrEof when the
// timeline is exhausted.
func (r *Replay) Feed() error {
	if r.idx >= len(r.bars) {
		return ErrEof
	}

	ts := r.bars[r.idx].TimeStamp
	for r.idx < len(r.bars) && r.bars[r.idx].TimeStamp.Equal(ts) {
		bar := r.bars[r.idx]
		r.store.Append(bar)
		if err := r.router.Post(bus.BarEvent, bar); err != nil {
			return err
		}
		r.idx++
	}

	return r.router.Post(bus.MarketEvent, common.MarketUpdate{
		Source:      replayComponentName,
		ExecutionId: utility.GetExecutionID(),
		TraceID:     utility.CreateTraceID(),
		TimeStamp:   ts,
	})
}
