package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/dkalas/aphelion/pkg/common"
	"github.com/dkalas/aphelion/pkg/utility/fixed"
)

type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

func (r *Reader) DB() *sql.DB {
	return r.db
}

// LoadBars streams daily bars for one symbol in ascending timestamp order.
// Missing dividend and split columns default to 0 and 1 respectively.
func (r *Reader) LoadBars(ctx context.Context, symbol string, from, to time.Time, handler func(bar common.Bar) error) error {

	query := `SELECT ts, open, high, low, close, volume,
	coalesce(dividend, 0) AS dividend, coalesce(split, 1) AS split
	FROM daily_bars WHERE symbol = ? AND ts BETWEEN ? AND ? ORDER BY ts`

	rows, err := r.db.QueryContext(ctx, query, symbol, from, to)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		var ts time.Time
		var open, high, low, closePx, vol, dividend, spl float64
		if err := rows.Scan(&ts, &open, &high, &low, &closePx, &vol, &dividend, &spl); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}

		bar := common.Bar{
			Symbol:    symbol,
			TimeStamp: ts,
			Period:    24 * time.Hour,
			Open:      fixed.FromFloat64(open),
			High:      fixed.FromFloat64(high),
			Low:       fixed.FromFloat64(low),
			Close:     fixed.FromFloat64(closePx),
			Volume:    fixed.FromFloat64(vol),
			Dividend:  fixed.FromFloat64(dividend),
			Split:     fixed.FromFloat64(spl),
		}
		if err := handler(bar); err != nil {
			return fmt.Errorf("error processing bar: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}

	return nil
}
