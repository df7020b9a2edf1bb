// Copyright (c) 2026 FoDBot. All rights reserved.

// Package ctxkey defines typed context keys used by the gateway router and
// the ops HTTP middleware.
//
// # Safety
//
// Using a private, unexported type for keys prevents collisions with
// third-party packages (discordgo, chi) that also store values in a context.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID of an ops request.
	KeyRequestID key = "request_id"

	// KeyEventID is the context key for the correlation ID of a gateway event.
	KeyEventID key = "event_id"

	// KeyLogger is the context key for the per-request or per-event [*log/slog.Logger].
	KeyLogger key = "logger"
)
