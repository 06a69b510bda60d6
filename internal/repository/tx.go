package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// TxRunner executes a function inside a database transaction. Services
// depend on this interface so unit tests can substitute a pass-through.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) error
}

// QueryMetrics observes database timings.
type QueryMetrics interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SQLTxRunner is the sqlx-backed TxRunner.
type SQLTxRunner struct {
	db      *sqlx.DB
	metrics QueryMetrics
}

// NewTxRunner builds the runner. Metrics may be nil.
func NewTxRunner(db *sqlx.DB, metrics QueryMetrics) *SQLTxRunner {
	return &SQLTxRunner{db: db, metrics: metrics}
}

// RunInTx opens a transaction, runs fn, and commits. Any error from fn rolls
// the transaction back and is returned unchanged.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) error {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveDBQuery("transaction", time.Since(start))
		}
	}()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
