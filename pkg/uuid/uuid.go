// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the correlation identifiers attached to outgoing requests.

Version 7 values are used so that request IDs sort by creation time in the
backend's logs.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// If the OS entropy source fails it falls back to a random v4 value.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
