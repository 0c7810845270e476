package historical

import (
	"time"

	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

// BinaryBar is the packed on-disk representation of one daily bar. Field
// order and types are part of the file format, do not reorder.
type BinaryBar struct {
	TimeStamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Dividend  float64
	Split     float64
}

func (b BinaryBar) ToModelBar(symbol string, bar *common.Bar) {
	bar.Symbol = symbol
	bar.TimeStamp = time.Unix(0, b.TimeStamp).UTC()
	bar.Period = 24 * time.Hour
	bar.Open = fixed.FromFloat64(b.Open)
	bar.High = fixed.FromFloat64(b.High)
	bar.Low = fixed.FromFloat64(b.Low)
	bar.Close = fixed.FromFloat64(b.Close)
	bar.Volume = fixed.FromFloat64(b.Volume)
	bar.Dividend = fixed.FromFloat64(b.Dividend)
	bar.Split = fixed.FromFloat64(b.Split)
}
