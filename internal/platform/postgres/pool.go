// Copyright (c) 2026 FoDBot. All rights reserved.

// Package postgres opens the connection pool behind the production ledger.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
)

// A republish issues one transaction per topic and a rebuild one read, so the
// pool stays small.
const (
	maxConns        = 4
	minConns        = 1
	maxConnIdleTime = 10 * time.Minute
	connectTimeout  = 5 * time.Second
)

// Open connects to dsn and checks the server answers before returning.
// Every session carries the bot's application_name, and statements give up
// after constants.EventTimeout so a stuck query cannot outlive the event that
// issued it.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := configure(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	logger.Info("postgres_ledger_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

func configure(dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = constants.AppName
	}
	params["statement_timeout"] = strconv.FormatInt(constants.EventTimeout.Milliseconds(), 10)

	return poolConfig, nil
}
