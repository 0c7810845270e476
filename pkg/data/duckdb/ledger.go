package duckdb

import (
	"context"
	"database/sql"

	"github.com/dkalas/aphelion/pkg/common"
)

// CreateSignalTable prepares the signal ledger. Safe to call on every run.
func CreateSignalTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS signals (
		execution_id VARCHAR,
		trace_id     UBIGINT,
		ts           TIMESTAMP,
		symbol       VARCHAR,
		direction    VARCHAR,
		strength     DOUBLE,
		source       VARCHAR,
		comment      VARCHAR
	);`
	_, err := db.ExecContext(ctx, query)
	return err
}

func InsertSignal(ctx context.Context, db *sql.DB, signal common.Signal) error {
	query := `
	INSERT INTO signals (
		execution_id,
		trace_id,
		ts,
		symbol,
		direction,
		strength,
		source,
		comment
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	strength, _ := signal.Strength.Float64()

	_, err := db.ExecContext(ctx, query,
		signal.ExecutionId.String(),
		signal.TraceID,
		signal.TimeStamp,
		signal.Symbol,
		signal.Direction.String(),
		strength,
		signal.Source,
		signal.Comment)
	return err
}
