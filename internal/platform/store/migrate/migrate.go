// Package migrate applies the embedded postgres schema with goose
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"ipclaim/internal/platform/logger"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dir = "migrations"

// seams for tests
var (
	openDB  = func(url string) (*sql.DB, error) { return sql.Open("pgx", url) }
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseVersion = func(ctx context.Context, db *sql.DB) (int64, error) {
		return goose.GetDBVersionContext(ctx, db)
	}
)

// Up applies all pending migrations against the database at url
func Up(ctx context.Context, url string) error {
	if url == "" {
		return errors.New("migrate: empty database url")
	}
	db, err := openDB(url)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer func() { _ = db.Close() }()
	return UpDB(ctx, db)
}

// UpDB applies all pending migrations on an already open *sql.DB
func UpDB(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("migrate: nil db")
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migrate: dialect: %w", err)
	}
	if err := gooseUp(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	v, err := gooseVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: version: %w", err)
	}
	logger.Named("migrate").Info().Int64("version", v).Msg("schema up to date")
	return nil
}

// Files lists the embedded migration file names in apply order
func Files() ([]string, error) {
	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

// gooseLogger routes goose output through zerolog
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Named("migrate").Fatal().Msgf(format, v...)
}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Named("migrate").Info().Msgf(format, v...)
}
