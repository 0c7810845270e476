package bus

type EventId uint8

const (
	MarketEvent EventId = iota
	BarEvent
	SignalEvent
)
