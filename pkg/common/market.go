package common

import (
	"time"

	"github.com/dkalas/aphelion/pkg/utility"
)

// MarketUpdate notifies strategies that new market data is available in the
// bar store. Exactly one is delivered per processing cycle.
type MarketUpdate struct {
	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
