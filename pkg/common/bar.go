package common

import (
	"time"

	"github.com/dkalas/aphelion/pkg/utility"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

type PriceField string

const (
	FieldOpen  PriceField = "open"
	FieldHigh  PriceField = "high"
	FieldLow   PriceField = "low"
	FieldClose PriceField = "close"
)

// Bar is one instrument's observation for one period. Dividend and Split
// carry corporate actions effective on the bar; Split is 1 and Dividend 0
// when no action occurred.
type Bar struct {
	Source      string              `json:"src,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
	Period      time.Duration       `json:"period"`
	Open        fixed.Point         `json:"open"`
	High        fixed.Point         `json:"high"`
	Low         fixed.Point         `json:"low"`
	Close       fixed.Point         `json:"close"`
	Volume      fixed.Point         `json:"volume"`
	Dividend    fixed.Point         `json:"dividend,omitempty"`
	Split       fixed.Point         `json:"split,omitempty"`
}

func (b Bar) Price(field PriceField) fixed.Point {
	switch field {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	default:
		return b.Close
	}
}
