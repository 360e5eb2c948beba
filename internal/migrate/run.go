// Package migrate applies the embedded schema for the configured SQL dialect.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

const table = "schema_migrations"

// Run applies every embedded migration for d that is not yet recorded. Safe to call repeatedly.
func Run(ctx context.Context, db *sql.DB, d string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "migrations", "dialect", d)

	dir, ddl, err := layout(d)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", table, err)
	}

	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, f := range files {
		ok, err := apply(ctx, db, d, dir, f, logger)
		if err != nil {
			return err
		}
		if ok {
			applied++
		}
	}
	logger.Info("migrations up to date", "applied", applied, "total", len(files))
	return nil
}

func layout(d string) (dir, ddl string, err error) {
	switch d {
	case dialect.Postgres:
		return "migrations/postgres", `CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, nil
	case dialect.SQLite:
		return "migrations/sqlite", `CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, nil
	}
	return "", "", fmt.Errorf("unsupported dialect %q", d)
}

func apply(ctx context.Context, db *sql.DB, d, dir, file string, logger *slog.Logger) (bool, error) {
	version := strings.TrimSuffix(file, ".sql")
	b := entsql.Dialect(d)

	q, args := b.Select("version").From(b.Table(table)).Where(entsql.EQ("version", version)).Query()
	var existing string
	switch err := db.QueryRowContext(ctx, q, args...).Scan(&existing); {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("check migration %s: %w", file, err)
	}

	body, err := migrationsFS.ReadFile(dir + "/" + file)
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", file, err)
	}
	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rbErr, "migration_file", file)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return false, fmt.Errorf("exec migration %s: %w", file, err)
	}
	q, args = b.Insert(table).Columns("version").Values(version).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return false, fmt.Errorf("record migration %s: %w", file, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration %s: %w", file, err)
	}
	return true, nil
}
