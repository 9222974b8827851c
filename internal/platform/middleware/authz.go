// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/constants"
	"github.com/taibuivan/eduadmin/internal/platform/ctxkey"
	"github.com/taibuivan/eduadmin/internal/platform/respond"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
)

// Principal is the caller a bearer token resolved to.
type Principal struct {
	UserID string
	Role   sec.UserRole
}

// TokenVerifier resolves a bearer token to its [Principal].
type TokenVerifier interface {
	VerifyToken(token string) (*Principal, bool)
}

// Authenticate resolves the Authorization header into a [Principal].
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Malformed header or unknown token: 401 with a message.
//  3. Otherwise the principal is stored in the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.FromStatus(http.StatusUnauthorized, "Invalid authorization format"))
				return
			}

			principal, ok := verifier.VerifyToken(token)
			if !ok {
				respond.Error(writer, request, apperr.FromStatus(http.StatusUnauthorized, "Invalid or expired token"))
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyPrincipal, principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests whose principal is missing (401) or below role (403).
//
// Must be registered after [Authenticate].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := GetPrincipal(request.Context())

			if principal == nil {
				respond.Error(writer, request, apperr.FromStatus(http.StatusUnauthorized, "Authentication required"))
				return
			}

			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.FromStatus(http.StatusForbidden, "Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *Principal {
	principal, _ := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	return principal
}
