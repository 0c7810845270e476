package middleware

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dkalas/aphelion/pkg/bus"
	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/data/duckdb"
)

// Journal persists every emitted signal into a duckdb table so that runs can
// be compared after the fact.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{
		db: db,
	}
}

func (j *Journal) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		if err := duckdb.InsertSignal(ctx, j.db, signal); err != nil {
			slog.Warn("unable to journal signal", "error", err, "symbol", signal.Symbol)
		}
		handler(ctx, signal)
	}
}
