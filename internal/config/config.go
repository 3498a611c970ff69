package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sriverasc/AireAPI/internal/temporal"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	// Driver is a database/sql driver name: sqlite3 or pgx.
	Driver          string
	DSN             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	// WindowPolicy handles multi-day period queries whose start_hour is
	// after end_hour.
	WindowPolicy temporal.WindowPolicy
}

// LoadEnvFile loads variables from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	httpAddr := envOr("HTTP_ADDR", ":8080")

	shutdownTimeout, err := envDuration("HTTP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	driver := envOr("DB_DRIVER", "sqlite3")
	switch driver {
	case "sqlite3", "pgx":
	case "postgres", "postgresql":
		driver = "pgx"
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: sqlite3, pgx)", driver)
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" && driver == "pgx" {
		dsn, err = postgresURLFromEnv()
		if err != nil {
			return Config{}, err
		}
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}

	logSQLStr := envOr("DB_LOG_SQL", "false")
	logSQL, err := strconv.ParseBool(logSQLStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_LOG_SQL %q: %w", logSQLStr, err)
	}

	policy, err := temporal.ParseWindowPolicy(envOr("PERIOD_WINDOW_POLICY", string(temporal.WindowReject)))
	if err != nil {
		return Config{}, fmt.Errorf("PERIOD_WINDOW_POLICY: %w", err)
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        httpAddr,
		ShutdownTimeout: shutdownTimeout,
		Driver:          driver,
		DSN:             dsn,
		SQLitePath:      envOr("SQLITE_PATH", "data/aire.db"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		LogSQL:          logSQL,
		WindowPolicy:    policy,
	}, nil
}

// postgresURLFromEnv builds a connection URL naming the server and the
// database from DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD and
// DB_SSLMODE. It returns "" when DB_HOST is unset.
func postgresURLFromEnv() (string, error) {
	host := strings.TrimSpace(os.Getenv("DB_HOST"))
	if host == "" {
		return "", nil
	}
	name := strings.TrimSpace(os.Getenv("DB_NAME"))
	if name == "" {
		return "", errors.New("DB_NAME is required when DB_HOST is set")
	}
	port := envOr("DB_PORT", "5432")
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid DB_PORT %q: %w", port, err)
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	if user := strings.TrimSpace(os.Getenv("DB_USER")); user != "" {
		if pw, ok := os.LookupEnv("DB_PASSWORD"); ok {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}
	q := url.Values{}
	q.Set("sslmode", envOr("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key, def string) (int, error) {
	s := envOr(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key, def string) (time.Duration, error) {
	s := envOr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
