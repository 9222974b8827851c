// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/eduadmin/internal/apiclient"
	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/internal/session"
)

// fakePoster answers the login POST with a canned reply.
type fakePoster struct {
	reply    session.LoginResponse
	err      error
	calls    int
	lastPath string
	lastBody any
}

func (f *fakePoster) Post(_ context.Context, path string, body, out any) error {
	f.calls++
	f.lastPath = path
	f.lastBody = body
	if f.err != nil {
		return f.err
	}
	*(out.(*session.LoginResponse)) = f.reply
	return nil
}

func adminReply() session.LoginResponse {
	return session.LoginResponse{
		Message: "ok",
		Token:   "abc",
		User:    session.Profile{ID: "1", Username: "admin1", Role: sec.RoleAdmin},
	}
}

/*
TestManager_Login_PersistsTogether checks the (absent, absent) -> (token, profile) transition.
*/
func TestManager_Login_PersistsTogether(t *testing.T) {
	ctx := context.Background()
	poster := &fakePoster{reply: adminReply()}
	manager := session.NewManager(session.NewMemoryStore(), poster)

	assert.False(t, manager.IsAuthenticated(ctx))
	assert.False(t, manager.IsAdmin(ctx))
	assert.Equal(t, session.StateAbsent, manager.Load(ctx).State)

	response, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleAdmin, response.User.Role)
	assert.Equal(t, session.LoginPath, poster.lastPath)
	assert.Equal(t, session.Credentials{Username: "admin1", Password: "x"}, poster.lastBody)

	assert.True(t, manager.IsAuthenticated(ctx))
	assert.True(t, manager.IsAdmin(ctx))

	token, ok := manager.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	result := manager.Load(ctx)
	require.True(t, result.OK())
	assert.Equal(t, "abc", result.Token)
	assert.Equal(t, adminReply().User, *result.Profile)
}

/*
TestManager_Login_NonAdminRole leaves IsAdmin false for every other role.
*/
func TestManager_Login_NonAdminRole(t *testing.T) {
	for _, role := range []sec.UserRole{sec.RoleStudent, sec.RoleTeacher, sec.UserRole("")} {
		t.Run(string(role), func(t *testing.T) {
			ctx := context.Background()
			reply := adminReply()
			reply.User.Role = role
			manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: reply})

			_, err := manager.Login(ctx, session.Credentials{Username: "u", Password: "p"})
			require.NoError(t, err)

			assert.True(t, manager.IsAuthenticated(ctx))
			assert.False(t, manager.IsAdmin(ctx))
		})
	}
}

/*
TestManager_Login_NoToken persists nothing when the reply lacks a token.
*/
func TestManager_Login_NoToken(t *testing.T) {
	ctx := context.Background()
	reply := adminReply()
	reply.Token = ""
	manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: reply})

	response, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "admin1", response.User.Username)
	assert.False(t, manager.IsAuthenticated(ctx))
	assert.Equal(t, session.StateAbsent, manager.Load(ctx).State)
}

/*
TestManager_Login_Failures covers validation and backend errors.
*/
func TestManager_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_password_sends_nothing", func(t *testing.T) {
		poster := &fakePoster{reply: adminReply()}
		manager := session.NewManager(session.NewMemoryStore(), poster)

		_, err := manager.Login(ctx, session.Credentials{Username: "admin1"})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Zero(t, poster.calls)
	})

	t.Run("backend_error_propagates", func(t *testing.T) {
		poster := &fakePoster{err: apperr.FromStatus(http.StatusUnauthorized, "Credenciales inválidas")}
		manager := session.NewManager(session.NewMemoryStore(), poster)

		_, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "bad"})
		assert.Equal(t, "Credenciales inválidas", err.Error())
		assert.False(t, manager.IsAuthenticated(ctx))
	})
}

/*
TestManager_LoginAdmin rejects non-admins and leaves the session empty.
*/
func TestManager_LoginAdmin(t *testing.T) {
	ctx := context.Background()

	reply := adminReply()
	reply.User.Role = sec.RoleTeacher
	manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: reply})

	_, err := manager.LoginAdmin(ctx, session.Credentials{Username: "t", Password: "p"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, session.ErrNotAdmin, err.Error())
	assert.False(t, manager.IsAuthenticated(ctx))
	assert.Equal(t, session.StateAbsent, manager.Load(ctx).State)

	admin := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: adminReply()})
	response, err := admin.LoginAdmin(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "abc", response.Token)
	assert.True(t, admin.IsAdmin(ctx))
}

/*
TestManager_Logout_Idempotent verifies repeated logouts end in (absent, absent).
*/
func TestManager_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: adminReply()})

	require.NoError(t, manager.Logout(ctx))

	_, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, manager.Logout(ctx))
	require.NoError(t, manager.Logout(ctx))

	_, hasToken := manager.Token(ctx)
	_, hasUser := manager.User(ctx)
	assert.False(t, hasToken)
	assert.False(t, hasUser)
	assert.False(t, manager.IsAdmin(ctx))
}

/*
TestManager_CorruptProfile reads as absent but is reported by Load.
*/
func TestManager_CorruptProfile(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	manager := session.NewManager(store, &fakePoster{})

	require.NoError(t, store.Write(ctx, session.Entries{Token: "abc", User: "{not json"}))

	assert.True(t, manager.IsAuthenticated(ctx))
	assert.False(t, manager.IsAdmin(ctx))

	profile, ok := manager.User(ctx)
	assert.False(t, ok)
	assert.Nil(t, profile)

	result := manager.Load(ctx)
	assert.Equal(t, session.StateCorrupt, result.State)
	assert.ErrorIs(t, result.Reason, session.ErrCorrupt)
}

/*
TestManager_PartialEntries classifies half-written sessions as corrupt.
*/
func TestManager_PartialEntries(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	manager := session.NewManager(store, &fakePoster{})

	require.NoError(t, store.Write(ctx, session.Entries{Token: "abc"}))
	assert.Equal(t, session.StateCorrupt, manager.Load(ctx).State)

	require.NoError(t, store.Write(ctx, session.Entries{User: `{"id":"1","username":"a","role":"admin"}`}))
	assert.Equal(t, session.StateCorrupt, manager.Load(ctx).State)
	assert.False(t, manager.IsAuthenticated(ctx))
	assert.False(t, manager.IsAdmin(ctx))

	profile, ok := manager.User(ctx)
	assert.False(t, ok)
	assert.Nil(t, profile)
}

// failingStore fails every operation.
type failingStore struct{}

var errRefused = errors.New("connection refused")

func (failingStore) Read(context.Context) (session.Entries, error) { return session.Entries{}, errRefused }
func (failingStore) Write(context.Context, session.Entries) error { return errRefused }
func (failingStore) Clear(context.Context) error { return errRefused }

/*
TestManager_StoreUnavailable never panics and reports unavailability.
*/
func TestManager_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(&failingStore{}, &fakePoster{})

	assert.False(t, manager.IsAuthenticated(ctx))
	assert.False(t, manager.IsAdmin(ctx))
	assert.Equal(t, session.StateUnavailable, manager.Load(ctx).State)
	assert.Equal(t, "unavailable", manager.Load(ctx).State.String())
	assert.ErrorIs(t, manager.Logout(ctx), errRefused)
}

/*
TestManager_ProfileRoundTrip persists a profile and reads back an equal value.
*/
func TestManager_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	reply := adminReply()
	reply.User.Email = "admin1@school.edu"
	reply.User.FullName = "Ada Admin"
	manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: reply})

	_, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)

	profile, ok := manager.User(ctx)
	require.True(t, ok)
	assert.Equal(t, reply.User, *profile)
	assert.Equal(t, "Ada Admin", profile.DisplayName())
}

/*
TestManager_Expiry reads the exp claim from a JWT token.
*/
func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Now().Add(-time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	reply := adminReply()
	reply.Token = token
	manager := session.NewManager(session.NewMemoryStore(), &fakePoster{reply: reply})

	_, ok := manager.ExpiresAt(ctx)
	assert.False(t, ok)
	assert.False(t, manager.Expired(ctx))

	_, err = manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)

	got, ok := manager.ExpiresAt(ctx)
	require.True(t, ok)
	assert.True(t, expiresAt.Equal(got))
	assert.True(t, manager.Expired(ctx))

	// Expired tokens still count as authenticated: existence only.
	assert.True(t, manager.IsAuthenticated(ctx))
}

/*
TestManager_EndToEnd logs in through the real client and authorizes the next call.
*/
func TestManager_EndToEnd(t *testing.T) {
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": "Login exitoso",
				"token":   "abc",
				"user":    map[string]string{"id": "1", "username": "admin1", "role": "admin"},
			})
		default:
			lastAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := apiclient.New(server.URL + "/api")
	manager := session.NewManager(session.NewMemoryStore(), client)
	client.SetTokenSource(manager)

	_, err := manager.Login(ctx, session.Credentials{Username: "admin1", Password: "x"})
	require.NoError(t, err)

	assert.True(t, manager.IsAdmin(ctx))
	token, _ := manager.Token(ctx)
	assert.Equal(t, "abc", token)

	require.NoError(t, client.Get(ctx, "/admin/dashboard", nil))
	assert.Equal(t, "Bearer abc", lastAuth)
}
