// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and body decoding for the
fake admin backend, reporting bad input as validation errors.
*/
package request

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/eduadmin/internal/platform/apperr"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: A validation AppError if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.FromStatus(http.StatusBadRequest, "Invalid JSON body")
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryInt parses a positive integer query parameter.

Parameters:
  - request: *http.Request
  - name: string
  - fallback: int (returned when the parameter is absent)

Returns:
  - int: The parsed value
  - error: A validation AppError if the value is not a positive integer
*/
func QueryInt(request *http.Request, name string, fallback int) (int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, apperr.FromStatus(http.StatusBadRequest, "Invalid "+name)
	}
	return value, nil
}
