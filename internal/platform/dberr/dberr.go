// Copyright (c) 2026 FoDBot. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
)

// Wrap inspects a database error from either ledger backend and wraps it into
// an [apperr.AppError]. The action names the failing statement for the logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFoundCause("Ledger row", err)
	}

	// 2. Everything else is an unclassified storage failure
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
