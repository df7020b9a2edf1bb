// Copyright (c) 2026 FoDBot. All rights reserved.

// Package sqlite opens a local SQLite ledger through the pure-Go
// 'modernc.org/sqlite' driver, so the bot runs without a PostgreSQL server
// during development.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// modernc registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// pragmas applied to every new database handle.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// Open opens (creating if needed) the SQLite file at path.
//
// The handle is limited to a single connection: SQLite allows one writer at
// a time and the ledger never needs more.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to connect: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	logger.Info("sqlite_ledger_opened", slog.String("path", path))
	return db, nil
}
