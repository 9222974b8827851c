// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the client-side security primitives: role gating and
// bearer token inspection.
//
// # Trust
//
// The client never holds the backend's signing key. Token inspection here is
// advisory (reading the "exp" claim to warn about stale sessions); the backend
// remains the only authority on token validity.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the token is a JWT without an "exp" claim.
var ErrNoExpiry = errors.New("sec: token has no expiry claim")

// TokenExpiry reads the "exp" claim of a JWT bearer token without verifying its signature.
//
// Opaque (non-JWT) tokens return an error; callers treat that as "unknown".
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("sec: token is not a readable JWT: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}

	return claims.ExpiresAt.Time, nil
}

// TokenExpired reports whether the JWT's "exp" claim lies before now.
// Tokens whose expiry cannot be read are reported as not expired.
func TokenExpired(token string, now time.Time) bool {
	expiresAt, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return !now.Before(expiresAt)
}
