package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/travelbooking/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// fakeTx implements the pgx.Tx methods RunInTx touches; the embedded
// interface covers the rest.
type fakeTx struct {
	pgx.Tx
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return t.rollbackErr
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	gotOpts  pgx.TxOptions
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.gotOpts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestRunInTx_DefaultsToReadCommitted(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(beginner)

	err := m.RunInTx(context.Background(), TxOptions{Name: "create_booking"}, func(ctx context.Context, q Querier) error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, pgx.ReadCommitted, beginner.gotOpts.IsoLevel)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
}

func TestRunInTx_HonorsRequestedIsolation(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(beginner)

	err := m.RunInTx(context.Background(), TxOptions{Name: "sweep", Isolation: pgx.Serializable}, func(ctx context.Context, q Querier) error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, pgx.Serializable, beginner.gotOpts.IsoLevel)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(beginner)

	expectedErr := errors.New("insert failed")
	err := m.RunInTx(context.Background(), TxOptions{Name: "decide_booking"}, func(ctx context.Context, q Querier) error {
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestRunInTx_TranslatesConstraintViolation(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(beginner)

	err := m.RunInTx(context.Background(), TxOptions{Name: "create_booking"}, func(ctx context.Context, q Querier) error {
		return &pgconn.PgError{Code: "23505"}
	})

	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.True(t, beginner.tx.rolledBack)
}

func TestRunInTx_RollbackFailureSurfacesOriginalError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{rollbackErr: errors.New("connection gone")}}
	m := NewTxManager(beginner)

	expectedErr := errors.New("insert failed")
	err := m.RunInTx(context.Background(), TxOptions{Name: "decide_booking"}, func(ctx context.Context, q Querier) error {
		return expectedErr
	})

	// The rollback failure is only logged.
	assert.Equal(t, expectedErr, err)
	assert.True(t, beginner.tx.rolledBack)
}

func TestRunInTx_CommitError(t *testing.T) {
	commitErr := errors.New("connection reset")
	beginner := &fakeBeginner{tx: &fakeTx{commitErr: commitErr}}
	m := NewTxManager(beginner)

	err := m.RunInTx(context.Background(), TxOptions{Name: "create_booking"}, func(ctx context.Context, q Querier) error {
		return nil
	})

	assert.Equal(t, commitErr, err)
	assert.False(t, beginner.tx.committed)
}

func TestRunInTx_BeginError(t *testing.T) {
	beginErr := errors.New("pool exhausted")
	beginner := &fakeBeginner{beginErr: beginErr}
	m := NewTxManager(beginner)

	called := false
	err := m.RunInTx(context.Background(), TxOptions{Name: "create_booking"}, func(ctx context.Context, q Querier) error {
		called = true
		return nil
	})

	assert.Equal(t, beginErr, err)
	assert.False(t, called)
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(beginner)

	assert.Panics(t, func() {
		_ = m.RunInTx(context.Background(), TxOptions{Name: "create_booking"}, func(ctx context.Context, q Querier) error {
			panic("handler bug")
		})
	})

	// The transaction is still released when the unit of work panics.
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}
