package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// TxOptions controls the bounded retry loop around a sale transaction
type TxOptions struct {
	Timeout    time.Duration // per-attempt deadline; expiry counts as transient
	MaxRetries int           // retries after the first attempt
	Backoff    time.Duration // initial backoff, doubled per retry
}

// DefaultTxOptions returns the retry policy used when none is configured
func DefaultTxOptions() TxOptions {
	return TxOptions{
		Timeout:    15 * time.Second,
		MaxRetries: 3,
		Backoff:    50 * time.Millisecond,
	}
}

// IsTransientError reports whether err is a store-level concurrency failure
// eligible for retry. Business errors carried as *models.AppError are never
// transient. Postgres signals serialization loss with class 40 codes; a
// transaction that exceeded its deadline is also retried.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if models.IsBusinessError(err) {
		return false
	}
	if models.IsKind(err, models.ErrKindTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03": // lock_not_available
			return true
		}
	}
	return false
}

// WithinTx runs fn inside a serializable transaction, retrying transient
// failures with exponential backoff. The overlap check and the occupation
// inserts run under the same snapshot, so the store aborts one of two racing
// writers on the same seat and overlapping leg; the loser lands here as a
// transient error and gets a fresh attempt.
//
// Business errors returned by fn abort immediately and are never retried.
// When the retry budget is spent the last transient failure is surfaced as
// models.ErrKindUnavailable.
func WithinTx(ctx context.Context, db *sqlx.DB, opts TxOptions, logger *logrus.Logger, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	backoff := opts.Backoff
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff.String(),
			}).Warn("Retrying transaction after transient failure")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return models.NewUnavailable("transaction cancelled while waiting to retry", ctx.Err())
			}
			backoff *= 2
		}

		err := runAttempt(ctx, db, opts.Timeout, fn)
		if err == nil {
			return nil
		}
		if !IsTransientError(err) {
			return err
		}
		lastErr = err
	}

	return models.NewUnavailable(
		fmt.Sprintf("transaction failed after %d attempts", opts.MaxRetries+1), lastErr)
}

func runAttempt(ctx context.Context, db *sqlx.DB, timeout time.Duration, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := db.BeginTxx(attemptCtx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.NewTransient("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(attemptCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsTransientError(err) {
			return models.NewTransient("commit aborted by concurrency control", err)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
