// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used across the admin client.
//
// # Safety
//
// An unexported key type prevents collisions with third-party packages that
// also store values in a [context.Context].
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the outgoing X-Request-ID value.
	KeyRequestID key = "request_id"

	// KeyLogger is the context key for the per-operation [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyPrincipal is the context key for the caller authenticated by the fake backend.
	KeyPrincipal key = "principal"
)
