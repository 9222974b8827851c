// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the admin client.

Categories:

  - Metadata: application name and version reported in User-Agent.
  - Transport: header names, default backend URL, generic error message.
  - Session: persisted entry names and storage key prefixes.
  - Mock server: timeouts of the local fake backend.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "eduadmin"
	AppVersion = "0.1.0-dev"
)

// # Transport

const (
	// DefaultAPIURL is the backend base URL used for local development.
	DefaultAPIURL = "http://localhost:3000/api"

	// GenericRequestError replaces the backend message when the error body is unusable.
	GenericRequestError = "request failed"

	// StartupTimeout bounds connecting to session backends at process start.
	StartupTimeout = 10 * time.Second
)

// # Mock Server

const (
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	ShutdownTimeout          = 10 * time.Second
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"

	ContentTypeJSON = "application/json"
	BearerPrefix    = "Bearer "
)

// # Session Persistence

const (
	// EntryToken is the persisted entry holding the raw bearer token.
	EntryToken = "token"

	// EntryUser is the persisted entry holding the JSON user profile.
	EntryUser = "user"

	// DefaultSessionProfile names the session when several operators share a store.
	DefaultSessionProfile = "default"

	// SessionFileName is the file used by the file store inside the config dir.
	SessionFileName = "session.json"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "eduadmin:session:"
)

// # Database Schemas

const (
	SchemaAdmin = "admin"
)

// # JSON Field Identifiers

const (
	FieldMessage = "message"
	FieldToken   = "token"
	FieldUser    = "user"
)
