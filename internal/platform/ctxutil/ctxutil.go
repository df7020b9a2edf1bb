// Copyright (c) 2026 FoDBot. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Event Tracing

// NewCorrelationID returns a time-sortable UUID v7, falling back to v4.
func NewCorrelationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// WithEventID returns a new context with the provided gateway event ID attached.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyEventID, id)
}

// GetEventID retrieves the gateway event ID from the context.
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyEventID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
