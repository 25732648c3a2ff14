package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DefaultStatsInterval is how often pool stats are published by WrapWithDefault.
const DefaultStatsInterval = 15 * time.Second

// Collector receives query timings and pool stats. A nil Collector disables reporting.
type Collector interface {
	ObserveDBQuery(database, operation string, duration time.Duration, err error)
	SetDBPoolStats(database string, stats sql.DBStats)
}

// DB wraps *sql.DB and reports every statement to a Collector.
type DB struct {
	db        *sql.DB
	name      string
	collector Collector
}

// Wrap wraps db without starting the pool stats reporter.
func Wrap(db *sql.DB, collector Collector, name string) *DB {
	return &DB{db: db, name: name, collector: collector}
}

// WrapWithDefault wraps db and publishes pool stats every DefaultStatsInterval until stopCh is closed.
func WrapWithDefault(db *sql.DB, collector Collector, name string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, collector, name)
	if collector != nil {
		go wrapped.reportStats(DefaultStatsInterval, stopCh)
	}
	return wrapped
}

func (d *DB) reportStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.collector.SetDBPoolStats(d.name, d.db.Stats())
		case <-stopCh:
			return
		}
	}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start, row.Err())
	return row
}

// BeginTx opens a transaction whose statements are reported under the same database name.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &SqlTxWrapper{Tx: tx, name: d.name, collector: d.collector}, nil
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Name() string {
	return d.name
}

func (d *DB) observe(query string, start time.Time, err error) {
	if d.collector == nil {
		return
	}
	d.collector.ObserveDBQuery(d.name, operation(query), time.Since(start), err)
}

// SqlTxWrapper adapts *sql.Tx to TxExecutor with timing.
type SqlTxWrapper struct {
	Tx        *sql.Tx
	name      string
	collector Collector
}

func (w *SqlTxWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := w.Tx.ExecContext(ctx, query, args...)
	w.observe(query, start, err)
	return res, err
}

func (w *SqlTxWrapper) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := w.Tx.QueryContext(ctx, query, args...)
	w.observe(query, start, err)
	return rows, err
}

func (w *SqlTxWrapper) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := w.Tx.QueryRowContext(ctx, query, args...)
	w.observe(query, start, row.Err())
	return row
}

func (w *SqlTxWrapper) Commit() error {
	return w.Tx.Commit()
}

func (w *SqlTxWrapper) Rollback() error {
	return w.Tx.Rollback()
}

func (w *SqlTxWrapper) observe(query string, start time.Time, err error) {
	if w.collector == nil {
		return
	}
	w.collector.ObserveDBQuery(w.name, operation(query), time.Since(start), err)
}

// operation extracts the leading SQL verb for the metric label.
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
