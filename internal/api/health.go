// Copyright (c) 2026 FoDBot. All rights reserved.

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/constants"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the ledger database.
	CheckDatabase func(ctx context.Context) error

	// CheckGateway reports whether the Discord gateway session is ready.
	CheckGateway func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)

	if handler.dependencies.CheckDatabase != nil {
		results = append(results, handler.check("ledger", func() error {
			return handler.dependencies.CheckDatabase(request.Context())
		}))
	}
	if handler.dependencies.CheckGateway != nil {
		results = append(results, handler.check("discord_gateway", handler.dependencies.CheckGateway))
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	for _, result := range results {
		if !result.IsOK {
			responseStatus = "degraded"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	respond.Status(writer, httpStatus, map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	})
}

func (handler *healthHandler) check(name string, run func() error) checkResult {
	result := checkResult{Name: name, IsOK: true}
	if err := run(); err != nil {
		result.IsOK = false
		result.Error = err.Error()
		handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
	}
	return result
}
