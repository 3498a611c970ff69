// Package migrate runs schema migrations using a versioned migration table.
// Migration files live under sql/<driver>/ and are named with a 4-digit
// prefix for order: 0001_name.sql, 0002_other.sql.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Sriverasc/AireAPI/internal/db"
)

//go:embed sql/*/*.sql
var sqlFS embed.FS

const (
	migrationsDir = "sql"
	tableName     = "schema_migrations"
)

var migrationFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type migration struct {
	version string
	name    string
	body    string
}

// Run ensures the schema_migrations table exists, then applies every
// embedded migration for the dialect that has not been applied yet, in
// version order. Each migration runs in its own transaction.
func Run(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if err := ensureMigrationsTable(ctx, conn); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}

	pending, err := pendingMigrations(dialect.Name(), applied)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if err := apply(ctx, conn, dialect, m); err != nil {
			return fmt.Errorf("apply %s: %w", m.version+"_"+m.name+".sql", err)
		}
		slog.Info("migration applied", "version", m.version, "name", m.name)
	}

	return nil
}

func pendingMigrations(dir string, applied map[string]bool) ([]migration, error) {
	root := migrationsDir + "/" + dir
	entries, err := fs.ReadDir(sqlFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", root, err)
	}

	var pending []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, ok := parseMigrationFilename(e.Name())
		if !ok || applied[version] {
			continue
		}
		body, err := fs.ReadFile(sqlFS, root+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		pending = append(pending, migration{version: version, name: name, body: string(body)})
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}

func ensureMigrationsTable(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+tableName+` (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func appliedVersions(ctx context.Context, conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, "SELECT version FROM "+tableName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close migration rows", "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

func parseMigrationFilename(filename string) (version, name string, ok bool) {
	m := migrationFileRe.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// statements splits a migration body on semicolons. Migration files must not
// use semicolons inside literals or comments.
func statements(body string) []string {
	var out []string
	for _, s := range strings.Split(body, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func apply(ctx context.Context, conn *sql.DB, dialect db.Dialect, m migration) error {
	return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		for _, stmt := range statements(m.body) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO "+tableName+" (version, name, applied_at) VALUES ("+
				dialect.Placeholder(1)+", "+dialect.Placeholder(2)+", "+dialect.Placeholder(3)+")",
			m.version, m.name, time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
}
