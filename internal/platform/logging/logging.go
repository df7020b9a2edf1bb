// Copyright (c) 2026 FoDBot. All rights reserved.

// Package logging builds the process-wide [*slog.Logger].
//
// Production runs emit JSON lines. Development runs use the coloured
// 'lmittmann/tint' handler so gateway traffic is readable in a terminal.
// When a log file is configured, JSON lines are additionally written to a
// size-rotated file managed by 'natefinch/lumberjack'.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/natefinch/lumberjack"
)

// Rotation policy for LOG_FILE.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 14
)

// Options selects the handler chain.
type Options struct {
	// Development switches the console handler to tint.
	Development bool
	// Debug lowers the level to slog.LevelDebug.
	Debug bool
	// File, when set, receives JSON lines with rotation.
	File string
	// Console overrides os.Stdout. Used by tests.
	Console io.Writer
}

// New returns a logger tagged with the application name, plus a closer for
// the rotated file (a no-op when no file is configured).
func New(app string, options Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if options.Debug {
		level = slog.LevelDebug
	}

	console := options.Console
	if console == nil {
		console = os.Stdout
	}

	var handler slog.Handler
	var closer io.Closer = nopCloser{}

	switch {
	case options.File != "":
		rotated := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		closer = rotated
		handler = slog.NewJSONHandler(io.MultiWriter(console, rotated), &slog.HandlerOptions{Level: level})
	case options.Development:
		handler = tint.NewHandler(console, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	default:
		handler = slog.NewJSONHandler(console, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(slog.String("app", app)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
