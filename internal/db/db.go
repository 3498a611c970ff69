package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/Sriverasc/AireAPI/internal/config"
)

// Open opens the configured database, applies pool settings and pings it.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, nil, err
	}

	var conn *sql.DB
	if cfg.LogSQL {
		connector, err := NewLoggingConnector(driverFor(cfg.Driver), dsn, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("db connector: %w", err)
		}
		conn = sql.OpenDB(connector)
	} else {
		conn, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.Driver == DriverSQLite && isMemoryDSN(dsn) {
		// every connection to an unshared in-memory database gets its own empty schema
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}

	return conn, dialect, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func isMemoryDSN(dsn string) bool {
	if strings.Contains(dsn, "cache=shared") {
		return false
	}
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func driverFor(name string) driver.Driver {
	if name == DriverPostgres {
		return stdlib.GetDefaultDriver()
	}
	return &sqlite3.SQLiteDriver{}
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Driver == DriverPostgres {
		return "", fmt.Errorf("DB_DSN or DB_HOST/DB_NAME required for driver %q", cfg.Driver)
	}

	path := cfg.SQLitePath
	if path == ":memory:" {
		return path, nil
	}
	if !strings.HasPrefix(path, "file:") {
		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	// busy_timeout softens "database is locked" when requests overlap;
	// WAL lets readers proceed during a write transaction.
	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
