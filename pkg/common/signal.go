package common

import (
	"time"

	"github.com/dkalas/aphelion/pkg/utility"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

type Direction int

const (
	DirectionLong Direction = iota
	DirectionShort
	DirectionExit
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "LONG"
	case DirectionShort:
		return "SHORT"
	case DirectionExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// Signal is an outbound trading directive for a single instrument. Strength
// is the hedge-ratio weight for basket trades and one for outright trades.
type Signal struct {
	Source      string              `json:"source,omitempty"`
	Symbol      string              `json:"symbol,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
	Direction   Direction           `json:"direction"`
	Strength    fixed.Point         `json:"strength"`
	Comment     string              `json:"comment,omitempty"`
}
