package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sriverasc/AireAPI/internal/config"
	"github.com/Sriverasc/AireAPI/internal/db"
	"github.com/Sriverasc/AireAPI/internal/httpapi"
	"github.com/Sriverasc/AireAPI/internal/migrate"
	"github.com/Sriverasc/AireAPI/internal/modules/airquality"
)

func logConfig(cfg config.Config) {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"shutdownTimeout", cfg.ShutdownTimeout,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.SQLitePath,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
		"periodWindowPolicy", cfg.WindowPolicy,
	)
}

// openDatabase opens the pool and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	dbConn, dialect, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Run(ctx, dbConn, dialect); err != nil {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
		return nil, nil, err
	}
	slog.Info("database ready", "driver", dialect.Name())
	return dbConn, dialect, nil
}

// Migrate applies pending migrations and exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	logConfig(cfg)
	dbConn, _, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	return db.Close(dbConn)
}

// Run serves the HTTP API until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config) error {
	logConfig(cfg)

	dbConn, dialect, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	mux := httpapi.NewMux(dbConn)
	airquality.RegisterFeature(mux, dbConn, dialect, cfg.WindowPolicy)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
