// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/internal/platform/validate"
)

// LoginPath is the backend route credentials are posted to.
const LoginPath = "/auth/login"

// ErrNotAdmin is the message returned when a non-admin logs into the admin panel.
const ErrNotAdmin = "only administrators can access this panel"

// # Contracts

// Poster is the slice of the API client the manager needs to log in.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// # Manager

// Manager implements login, logout and role queries over a [Store].
type Manager struct {
	store Store
	api   Poster
	now   func() time.Time
}

// NewManager constructs a [Manager].
func NewManager(store Store, api Poster) *Manager {
	return &Manager{store: store, api: api, now: time.Now}
}

// # Login Flow

/*
Login posts the credentials and persists token and profile together.

Description: When the reply carries no token nothing is persisted and the
reply is still returned, so the caller can inspect it.

Parameters:
  - ctx: context.Context
  - credentials: Credentials

Returns:
  - *LoginResponse: Full reply including the user's role
  - error: Validation, transport or backend errors
*/
func (manager *Manager) Login(ctx context.Context, credentials Credentials) (*LoginResponse, error) {
	if err := new(validate.Validator).
		Required("username", credentials.Username).
		Required("password", credentials.Password).
		Err(); err != nil {
		return nil, err
	}

	var response LoginResponse
	if err := manager.api.Post(ctx, LoginPath, credentials, &response); err != nil {
		return nil, err
	}

	if response.Token == "" {
		return &response, nil
	}

	rawProfile, err := encodeProfile(response.User)
	if err != nil {
		return nil, err
	}

	if err := manager.store.Write(ctx, Entries{Token: response.Token, User: rawProfile}); err != nil {
		return nil, fmt.Errorf("session: persist login: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_login",
		slog.String("user_id", response.User.ID),
		slog.String("role", string(response.User.Role)),
	)

	return &response, nil
}

// LoginAdmin logs in and immediately logs out again unless the user is an admin.
func (manager *Manager) LoginAdmin(ctx context.Context, credentials Credentials) (*LoginResponse, error) {
	response, err := manager.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}

	if response.User.Role != sec.RoleAdmin {
		if err := manager.Logout(ctx); err != nil {
			return nil, err
		}
		return nil, apperr.Unauthorized(ErrNotAdmin)
	}

	if response.Token == "" {
		return nil, apperr.Unauthorized("login reply carried no token")
	}

	return response, nil
}

// Logout clears token and profile. It is idempotent.
func (manager *Manager) Logout(ctx context.Context) error {
	if err := manager.store.Clear(ctx); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// # Queries

// Load reads and classifies the persisted session.
func (manager *Manager) Load(ctx context.Context) Result {
	entries, err := manager.store.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return Result{State: StateCorrupt, Reason: err}
		}
		return Result{State: StateUnavailable, Reason: err}
	}
	return decodeEntries(entries)
}

// IsAuthenticated reports whether a token is persisted. Expiry is not checked.
func (manager *Manager) IsAuthenticated(ctx context.Context) bool {
	_, ok := manager.Token(ctx)
	return ok
}

// IsAdmin reports whether a complete session is persisted with the admin role.
func (manager *Manager) IsAdmin(ctx context.Context) bool {
	result := manager.Load(ctx)
	return result.OK() && result.Profile.IsAdmin()
}

// Token returns the persisted bearer token. It implements apiclient.TokenSource.
func (manager *Manager) Token(ctx context.Context) (string, bool) {
	entries, err := manager.store.Read(ctx)
	if err != nil || entries.Token == "" {
		return "", false
	}
	return entries.Token, true
}

// User returns the cached profile, or false unless a complete session is persisted.
func (manager *Manager) User(ctx context.Context) (*Profile, bool) {
	result := manager.Load(ctx)
	if !result.OK() {
		return nil, false
	}
	return result.Profile, true
}

// ExpiresAt returns the token's "exp" claim when the token is a JWT that carries one.
func (manager *Manager) ExpiresAt(ctx context.Context) (time.Time, bool) {
	token, ok := manager.Token(ctx)
	if !ok {
		return time.Time{}, false
	}

	expiresAt, err := sec.TokenExpiry(token)
	if err != nil {
		return time.Time{}, false
	}
	return expiresAt, true
}

// Expired reports whether the persisted token is a JWT past its expiry.
// Opaque tokens are never reported as expired.
func (manager *Manager) Expired(ctx context.Context) bool {
	token, ok := manager.Token(ctx)
	return ok && sec.TokenExpired(token, manager.now())
}
