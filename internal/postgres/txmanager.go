package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxOptions names a transaction for logging and selects its isolation
// level. The zero value requests READ COMMITTED.
type TxOptions struct {
	Name      string
	Isolation pgx.TxIsoLevel
}

// TxManager runs a unit of work inside one database transaction.
// Commit on success, rollback on any error; the connection is released
// on every exit path.
type TxManager interface {
	RunInTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, q Querier) error) error
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ TxBeginner = (*pgxpool.Pool)(nil)

type PoolTxManager struct {
	db     TxBeginner
	logger *slog.Logger
}

func NewTxManager(db TxBeginner) *PoolTxManager {
	return &PoolTxManager{
		db:     db,
		logger: slog.Default().With("component", "postgres.TxManager"),
	}
}

func (m *PoolTxManager) RunInTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, q Querier) error) error {
	if opts.Isolation == "" {
		opts.Isolation = pgx.ReadCommitted
	}

	start := time.Now()
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: opts.Isolation})
	if err != nil {
		return TranslateError(err)
	}
	m.logger.Debug("transaction begin", "name", opts.Name, "isolation", string(opts.Isolation))

	// The connection is released on every exit path, including a panic
	// inside fn. After a successful commit the rollback is a no-op. The
	// rollback failure is logged only; the caller gets the original
	// cause.
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Error("transaction rollback failed", "name", opts.Name, "error", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		m.logger.Warn("transaction rolled back",
			"name", opts.Name,
			"isolation", string(opts.Isolation),
			"duration", time.Since(start),
			"error", err)
		return TranslateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		m.logger.Error("transaction commit failed",
			"name", opts.Name,
			"duration", time.Since(start),
			"error", err)
		return TranslateError(err)
	}

	m.logger.Info("transaction committed",
		"name", opts.Name,
		"isolation", string(opts.Isolation),
		"duration", time.Since(start))
	return nil
}

var _ TxManager = (*PoolTxManager)(nil)
