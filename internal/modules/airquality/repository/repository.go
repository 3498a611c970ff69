package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Sriverasc/AireAPI/internal/db"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality/types"
	"github.com/Sriverasc/AireAPI/internal/temporal"
)

const keyColumn = "date_time"

// ReadingRepository stores one reading type. The storage handle is passed to
// every call so the caller controls the connection scope.
type ReadingRepository[T any] interface {
	ListAll(ctx context.Context, q db.Querier) ([]T, error)
	Find(ctx context.Context, q db.Querier, p temporal.Predicate) ([]T, error)
	Insert(ctx context.Context, q db.TxBeginner, rec *T) (*T, error)
	Replace(ctx context.Context, q db.TxBeginner, key time.Time, rec *T) (*T, error)
	Delete(ctx context.Context, q db.TxBeginner, key time.Time) error
}

type repositoryImpl[T any, PT types.Reading[T]] struct {
	dialect db.Dialect
	table   string
	columns []string
}

func NewRepository[T any, PT types.Reading[T]](dialect db.Dialect) ReadingRepository[T] {
	var zero T
	p := PT(&zero)
	return &repositoryImpl[T, PT]{
		dialect: dialect,
		table:   p.Table(),
		columns: p.Columns(),
	}
}

func (r *repositoryImpl[T, PT]) selectSQL() string {
	return "SELECT " + keyColumn + ", " + strings.Join(r.columns, ", ") + " FROM " + r.table
}

func (r *repositoryImpl[T, PT]) ListAll(ctx context.Context, q db.Querier) ([]T, error) {
	out, err := r.query(ctx, q, r.selectSQL()+" ORDER BY "+keyColumn)
	if err != nil {
		return nil, &UnexpectedStorageError{Op: "list " + r.table, Err: err}
	}
	return out, nil
}

func (r *repositoryImpl[T, PT]) Find(ctx context.Context, q db.Querier, p temporal.Predicate) ([]T, error) {
	where, args := whereClause(r.dialect, p)
	out, err := r.query(ctx, q, r.selectSQL()+" WHERE "+where+" ORDER BY "+keyColumn, args...)
	if err != nil {
		return nil, &UnexpectedStorageError{Op: "find " + r.table, Err: err}
	}
	return out, nil
}

func (r *repositoryImpl[T, PT]) Insert(ctx context.Context, q db.TxBeginner, rec *T) (*T, error) {
	key := PT(rec).Key().UTC()
	var stored *T
	err := db.WithTx(ctx, q, func(tx *sql.Tx) error {
		exists, err := r.exists(ctx, tx, key)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateKeyError{Key: key}
		}

		cols := append([]string{keyColumn}, r.columns...)
		args := append([]any{r.dialect.EncodeTime(key)}, PT(rec).Values()...)
		marks := make([]string, len(args))
		for i := range args {
			marks[i] = r.dialect.Placeholder(i + 1)
		}
		query := "INSERT INTO " + r.table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		stored, err = r.get(ctx, tx, key)
		return err
	})
	if err != nil {
		return nil, r.storageError("insert into "+r.table, key, err)
	}
	return stored, nil
}

func (r *repositoryImpl[T, PT]) Replace(ctx context.Context, q db.TxBeginner, key time.Time, rec *T) (*T, error) {
	key = key.UTC()
	newKey := PT(rec).Key().UTC()
	var stored *T
	err := db.WithTx(ctx, q, func(tx *sql.Tx) error {
		sets := make([]string, 0, len(r.columns)+1)
		args := make([]any, 0, len(r.columns)+2)
		sets = append(sets, keyColumn+" = "+r.dialect.Placeholder(1))
		args = append(args, r.dialect.EncodeTime(newKey))
		for i, c := range r.columns {
			sets = append(sets, c+" = "+r.dialect.Placeholder(i+2))
		}
		args = append(args, PT(rec).Values()...)
		args = append(args, r.dialect.EncodeTime(key))
		query := "UPDATE " + r.table + " SET " + strings.Join(sets, ", ") +
			" WHERE " + keyColumn + " = " + r.dialect.Placeholder(len(args))

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if r.dialect.Classify(err) == db.ClassUniqueViolation {
				return &DuplicateKeyError{Key: newKey}
			}
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &NotFoundError{Key: key}
		}

		stored, err = r.get(ctx, tx, newKey)
		return err
	})
	if err != nil {
		return nil, r.storageError("replace in "+r.table, newKey, err)
	}
	return stored, nil
}

func (r *repositoryImpl[T, PT]) Delete(ctx context.Context, q db.TxBeginner, key time.Time) error {
	key = key.UTC()
	err := db.WithTx(ctx, q, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM "+r.table+" WHERE "+keyColumn+" = "+r.dialect.Placeholder(1),
			r.dialect.EncodeTime(key))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &NotFoundError{Key: key}
		}
		return nil
	})
	if err != nil {
		return r.storageError("delete from "+r.table, key, err)
	}
	return nil
}

func (r *repositoryImpl[T, PT]) exists(ctx context.Context, q db.Querier, key time.Time) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM "+r.table+" WHERE "+keyColumn+" = "+r.dialect.Placeholder(1),
		r.dialect.EncodeTime(key)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *repositoryImpl[T, PT]) get(ctx context.Context, q db.Querier, key time.Time) (*T, error) {
	out, err := r.query(ctx, q,
		r.selectSQL()+" WHERE "+keyColumn+" = "+r.dialect.Placeholder(1),
		r.dialect.EncodeTime(key))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &NotFoundError{Key: key}
	}
	return &out[0], nil
}

func (r *repositoryImpl[T, PT]) query(ctx context.Context, q db.Querier, query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "table", r.table, "error", err)
		}
	}()
	return scanReadings[T, PT](rows)
}

func scanReadings[T any, PT types.Reading[T]](rows *sql.Rows) ([]T, error) {
	out := make([]T, 0)
	for rows.Next() {
		var rec T
		var rawKey any
		targets := append([]any{&rawKey}, PT(&rec).Targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		key, err := db.DecodeTime(rawKey)
		if err != nil {
			return nil, err
		}
		PT(&rec).SetKey(key)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// storageError keeps domain errors as they are and classifies the rest.
func (r *repositoryImpl[T, PT]) storageError(op string, key time.Time, err error) error {
	var (
		dup *DuplicateKeyError
		nf  *NotFoundError
	)
	if errors.As(err, &dup) || errors.As(err, &nf) {
		return err
	}
	switch r.dialect.Classify(err) {
	case db.ClassUniqueViolation:
		return &DuplicateKeyError{Key: key}
	case db.ClassConstraint:
		return &IntegrityError{Op: op, Err: err}
	}
	return &UnexpectedStorageError{Op: op, Err: err}
}

// whereClause renders a temporal predicate over the key column.
func whereClause(d db.Dialect, p temporal.Predicate) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	conds = append(conds, keyColumn+" >= "+bind(d.EncodeTime(p.Start)))
	if p.EndExclusive {
		conds = append(conds, keyColumn+" < "+bind(d.EncodeTime(p.End)))
	} else {
		conds = append(conds, keyColumn+" <= "+bind(d.EncodeTime(p.End)))
	}

	if w := p.Window; w != nil {
		minute := d.MinuteOfDay(keyColumn)
		switch {
		case w.From == w.To:
			conds = append(conds, minute+" = "+bind(w.From))
		case w.Wraps:
			conds = append(conds, "("+minute+" >= "+bind(w.From)+" OR "+minute+" <= "+bind(w.To)+")")
		default:
			conds = append(conds, minute+" >= "+bind(w.From), minute+" <= "+bind(w.To))
		}
	}

	return strings.Join(conds, " AND "), args
}
