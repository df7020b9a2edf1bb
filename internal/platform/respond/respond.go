// Copyright (c) 2026 FoDBot. All rights reserved.

// Package respond provides the JSON response helpers of the ops server.
//
// Every response, success or error, uses the same envelope so health checks and
// operators can parse it without guessing.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/zmattingly/FoDBot-SQL/internal/platform/apperr"
	"github.com/zmattingly/FoDBot-SQL/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Status writes data in the success envelope with an explicit status code.
func Status(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

// Error converts any error into the error envelope. Causes stay in the logs.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed", slog.Any("error", err))
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
