package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// sqliteTimeLayout is fixed width so that text comparison orders timestamps.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrorClass groups driver errors the repository reacts to.
type ErrorClass int

const (
	ClassOther ErrorClass = iota
	ClassUniqueViolation
	ClassConstraint
)

// Dialect hides the SQL differences between the supported engines.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	// MinuteOfDay returns an integer expression hour*60+minute of column.
	MinuteOfDay(column string) string
	// EncodeTime converts a key into the value bound for the timestamp column.
	EncodeTime(t time.Time) any
	// Classify maps a driver error to an ErrorClass.
	Classify(err error) ErrorClass
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect{}, nil
	case DriverPostgres:
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: %s, %s)", driver, DriverSQLite, DriverPostgres)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) MinuteOfDay(column string) string {
	return fmt.Sprintf("(CAST(strftime('%%H', %[1]s) AS INTEGER) * 60 + CAST(strftime('%%M', %[1]s) AS INTEGER))", column)
}

func (sqliteDialect) EncodeTime(t time.Time) any {
	return t.UTC().Format(sqliteTimeLayout)
}

func (sqliteDialect) Classify(err error) ErrorClass {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return ClassOther
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ClassUniqueViolation
	default:
		return ClassConstraint
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresDialect) MinuteOfDay(column string) string {
	return fmt.Sprintf("(CAST(EXTRACT(HOUR FROM %[1]s) AS INTEGER) * 60 + CAST(EXTRACT(MINUTE FROM %[1]s) AS INTEGER))", column)
}

func (postgresDialect) EncodeTime(t time.Time) any {
	return t.UTC()
}

func (postgresDialect) Classify(err error) ErrorClass {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return ClassOther
	}
	switch {
	case pe.Code == "23505":
		return ClassUniqueViolation
	case strings.HasPrefix(pe.Code, "23"):
		return ClassConstraint
	default:
		return ClassOther
	}
}

// DecodeTime converts a scanned timestamp column value to UTC.
func DecodeTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseStoredTime(t)
	case []byte:
		return parseStoredTime(string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		var err2 error
		t, err2 = time.Parse("2006-01-02 15:04:05.999999999Z07:00", s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: RFC3339Nano: %w; sqlite: %w", s, err, err2)
		}
	}
	return t.UTC(), nil
}
