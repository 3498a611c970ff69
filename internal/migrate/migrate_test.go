package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriverasc/AireAPI/internal/db"
)

func openMemory(t *testing.T) (*sql.DB, db.Dialect) {
	t.Helper()
	conn, err := sql.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	dialect, err := db.DialectFor(db.DriverSQLite)
	require.NoError(t, err)
	return conn, dialect
}

func TestRun_CreatesTables(t *testing.T) {
	ctx := context.Background()
	conn, dialect := openMemory(t)

	require.NoError(t, Run(ctx, conn, dialect))

	for _, table := range []string{"outside_readings", "inside_readings", tableName} {
		var name string
		err := conn.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, dialect := openMemory(t)

	require.NoError(t, Run(ctx, conn, dialect))
	require.NoError(t, Run(ctx, conn, dialect))

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPendingMigrations_EveryDialectHasSchema(t *testing.T) {
	for _, dir := range []string{db.DriverSQLite, db.DriverPostgres} {
		t.Run(dir, func(t *testing.T) {
			pending, err := pendingMigrations(dir, map[string]bool{})
			require.NoError(t, err)
			require.NotEmpty(t, pending)
			assert.Equal(t, "0001", pending[0].version)
			assert.Equal(t, "air_quality", pending[0].name)
			assert.Len(t, statements(pending[0].body), 2)
		})
	}
}

func TestPendingMigrations_SkipsApplied(t *testing.T) {
	pending, err := pendingMigrations(db.DriverSQLite, map[string]bool{"0001": true})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		in          string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{in: "0001_air_quality.sql", wantVersion: "0001", wantName: "air_quality", wantOK: true},
		{in: "0012_add_index.sql", wantVersion: "0012", wantName: "add_index", wantOK: true},
		{in: "1_short.sql", wantOK: false},
		{in: "0001_air_quality.txt", wantOK: false},
		{in: "README.md", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, n, ok := parseMigrationFilename(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantVersion, v)
			assert.Equal(t, tt.wantName, n)
		})
	}
}

func TestStatements(t *testing.T) {
	got := statements("CREATE TABLE a (x INT);\n\n  CREATE TABLE b (y INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, got)
	assert.Empty(t, statements(" \n ; ;"))
}
