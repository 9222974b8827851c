// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes JSON replies in the admin backend's wire format.
//
// # Architecture
//
// It is used by the in-memory fake backend. Errors are written as
// {"message": "..."}, the only field the API client reads from a failed reply.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
)

// ErrorEnvelope is the JSON body of a failed reply.
type ErrorEnvelope struct {
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK reply with payload as the body, unwrapped.
func OK(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusOK, payload)
}

// Created writes a 201 Created reply.
func Created(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusCreated, payload)
}

// Message writes {"message": message} with the given status code.
func Message(writer http.ResponseWriter, statusCode int, message string) {
	JSON(writer, statusCode, ErrorEnvelope{Message: message})
}

// Error converts err into a failed reply.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.New(apperr.KindServer, "Internal server error")
	}

	status := appError.HTTPStatus
	if status == 0 {
		status = StatusFor(appError.Kind)
	}

	JSON(writer, status, ErrorEnvelope{Message: appError.Message, Details: appError.Details})
}

// StatusFor maps an error kind back to a representative HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
