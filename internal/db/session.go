package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Querier is the subset shared by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner is a Querier that can open a transaction. *sql.DB and
// *sql.Conn satisfy it.
type TxBeginner interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// PanicError wraps a value recovered while a transaction was open.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in transaction: %v", e.Value)
}

// Session acquires one connection from the pool, hands it to fn and releases
// it on return, whatever fn did.
func Session(ctx context.Context, pool *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := pool.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			slog.Error("release connection", "error", err)
		}
	}()
	return fn(conn)
}

// WithTx runs fn inside a transaction on b. The transaction is committed when
// fn returns nil and rolled back otherwise. A panic in fn is recovered, the
// transaction rolled back and a *PanicError returned.
func WithTx(ctx context.Context, b TxBeginner, fn func(tx *sql.Tx) error) (err error) {
	tx, err := b.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("rollback failed", "error", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
