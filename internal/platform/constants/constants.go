// Copyright (c) 2026 FoDBot. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire bot.

It defines timeouts, Discord presentation values, and the fixed replies that
the administrative command sends back to the operator.

Categories:

  - Timing: Gateway event deadlines and ops server timeouts.
  - Rate Limiting: Burst capacities for the ops HTTP surface.
  - Presentation: Embed colour, audit reasons, canned replies.

Using this package keeps magic strings and magic numbers out of the
reaction-role engine.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "fodbot"
	AppVersion = "0.1.0-dev"
)

// # Timing

const (
	// EventTimeout bounds the Discord REST calls made while handling one gateway event.
	EventTimeout = 15 * time.Second

	// RepublishTimeout bounds a full run of the administrative republish workflow.
	RepublishTimeout = 5 * time.Minute

	// StartupTimeout bounds database connection and migration at boot.
	StartupTimeout = 30 * time.Second

	// DefaultReadTimeout is the maximum duration for reading an ops request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out ops response writes.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next ops request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for an ops request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight work during shutdown.
	ShutdownTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP on the ops server.
	DefaultRateLimitRPS = 10.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 20

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Discord Presentation

const (
	// EmbedColor is the brand orange used on every role message embed.
	EmbedColor = 0xFB7005

	// EmbedBlankFieldName is a braille blank so the reaction list field renders without a title.
	EmbedBlankFieldName = "⠀"

	// AuditReasonReactionRole is attached to every role grant and revoke.
	AuditReasonReactionRole = "ReactionRole"

	// HeaderSuffix is appended to a topic name to form its header ledger row name.
	HeaderSuffix = "_header"

	// CommandRepublish is the administrative command name, without prefix.
	CommandRepublish = "q_update_role_messages"
)

// # Operator Replies

const (
	// ReplyPermissionDenied is sent when a non-administrator runs the republish command.
	ReplyPermissionDenied = "You think you're clever!"

	// ReplyGenericFailure is sent when the republish workflow fails for any other reason.
	ReplyGenericFailure = "Sensors indicate some kind of ...*error* has occurred!"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)
