package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/dkalas/aphelion/pkg/common"
)

var (
	ErrUnknownSymbol   = errors.New("symbol has no bars")
	ErrNoAlignedWindow = errors.New("no timestamps shared by all symbols")
)

// Store is the in-memory bar history serving strategies. Bars are append
// only and kept in arrival order, which the replay keeps chronological.
type Store struct {
	bars     map[string][]common.Bar
	universe []string
	active   []string
}

func NewStore() *Store {
	return &Store{
		bars: make(map[string][]common.Bar),
	}
}

func (s *Store) Append(bar common.Bar) {
	if _, ok := s.bars[bar.Symbol]; !ok {
		s.universe = append(s.universe, bar.Symbol)
	}
	s.bars[bar.Symbol] = append(s.bars[bar.Symbol], bar)
}

func (s *Store) Symbols() []string {
	out := make([]string, len(s.universe))
	copy(out, s.universe)
	return out
}

// LatestBars returns up to n most recent bars for the symbol, oldest first.
// An empty slice means no data yet and is not an error.
func (s *Store) LatestBars(symbol string, n int) []common.Bar {
	bars := s.bars[symbol]
	if len(bars) == 0 || n <= 0 {
		return nil
	}
	if n > len(bars) {
		n = len(bars)
	}
	out := make([]common.Bar, n)
	copy(out, bars[len(bars)-n:])
	return out
}

// OrderedByOldestHistory lists all known symbols sorted by their earliest
// bar timestamp, symbols with the longest history first. Ties break on the
// symbol name so the ordering is reproducible.
func (s *Store) OrderedByOldestHistory() []string {
	out := s.Symbols()
	sort.SliceStable(out, func(a, b int) bool {
		ta := s.bars[out[a]][0].TimeStamp
		tb := s.bars[out[b]][0].TimeStamp
		if ta.Equal(tb) {
			return out[a] < out[b]
		}
		return ta.Before(tb)
	})
	return out
}

// SetActiveBasket reconfigures which symbols strategies iterate on
// subsequent updates.
func (s *Store) SetActiveBasket(symbols []string) {
	s.active = make([]string, len(symbols))
	copy(s.active, symbols)
}

func (s *Store) ActiveSymbols() []string {
	out := make([]string, len(s.active))
	copy(out, s.active)
	return out
}

// TrainingMatrix builds an aligned price matrix for the given symbols: rows
// are the timestamps present for every symbol in ascending order, columns
// follow the symbol order given.
func (s *Store) TrainingMatrix(field common.PriceField, symbols []string) (*mat.Dense, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("empty symbol list: %w", ErrNoAlignedWindow)
	}

	indexed := make([]map[time.Time]common.Bar, len(symbols))
	for i, symbol := range symbols {
		bars := s.bars[symbol]
		if len(bars) == 0 {
			return nil, fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
		}
		index := make(map[time.Time]common.Bar, len(bars))
		for _, bar := range bars {
			index[bar.TimeStamp] = bar
		}
		indexed[i] = index
	}

	var shared []time.Time
	for ts := range indexed[0] {
		present := true
		for _, index := range indexed[1:] {
			if _, ok := index[ts]; !ok {
				present = false
				break
			}
		}
		if present {
			shared = append(shared, ts)
		}
	}
	if len(shared) == 0 {
		return nil, ErrNoAlignedWindow
	}
	sort.Slice(shared, func(a, b int) bool { return shared[a].Before(shared[b]) })

	out := mat.NewDense(len(shared), len(symbols), nil)
	for row, ts := range shared {
		for col := range symbols {
			price, ok := indexed[col][ts].Price(field).Float64()
			if !ok {
				return nil, fmt.Errorf("price overflows float64 at %s: %w", ts, ErrNoAlignedWindow)
			}
			out.Set(row, col, price)
		}
	}
	return out, nil
}
