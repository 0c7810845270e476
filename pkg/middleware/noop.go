package middleware

import (
	"context"

	"github.com/dkalas/aphelion/pkg/common"
)

//goland:noinspection ALL
var (
	NoopMarketHdl = func(context.Context, common.MarketUpdate) {}
	NoopBarHdl    = func(context.Context, common.Bar) {}
	NoopSignalHdl = func(context.Context, common.Signal) {}
)
