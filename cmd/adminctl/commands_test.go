// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/admin/admintest"
	"github.com/taibuivan/eduadmin/internal/apiclient"
	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/session"
)

type fixture struct {
	app     *app
	out     *bytes.Buffer
	prompts *bytes.Buffer
	backend *admintest.Backend
}

func newFixture(t *testing.T, stdin string) *fixture {
	t.Helper()

	server, backend := admintest.NewServer(t)
	client := apiclient.New(server.URL + admintest.Prefix)
	manager := session.NewManager(session.NewMemoryStore(), client)
	client.SetTokenSource(manager)

	out := &bytes.Buffer{}
	prompts := &bytes.Buffer{}
	return &fixture{
		app: &app{
			manager: manager,
			service: admin.NewService(client),
			out:     out,
			in:      strings.NewReader(stdin),
			prompts: prompts,
			printer: newPrinter(language.English),
		},
		out:     out,
		prompts: prompts,
		backend: backend,
	}
}

func (f *fixture) exec(t *testing.T, args ...string) error {
	t.Helper()
	f.out.Reset()
	f.app.asJSON = false
	return f.app.run(context.Background(), args)
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.exec(t, "login", "-u", admintest.AdminUsername, "-p", admintest.AdminPassword))
}

func TestLoginWhoamiLogout(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.exec(t, "whoami"))
	assert.Equal(t, "Not logged in\n", f.out.String())

	f.login(t)
	assert.Equal(t, "Logged in as Ada Admin (admin)\n", f.out.String())

	require.NoError(t, f.exec(t, "whoami"))
	assert.Equal(t, "Ada Admin (admin, id u-admin1)\n", f.out.String())

	require.NoError(t, f.exec(t, "logout"))
	require.NoError(t, f.exec(t, "whoami"))
	assert.Equal(t, "Not logged in\n", f.out.String())
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	f := newFixture(t, admintest.AdminPassword+"\n")

	require.NoError(t, f.exec(t, "login", "-u", admintest.AdminUsername))
	assert.True(t, f.app.manager.IsAdmin(context.Background()))
}

func TestLogin_TeacherRejected(t *testing.T) {
	f := newFixture(t, "")

	err := f.exec(t, "login", "-u", admintest.TeacherUsername, "-p", admintest.TeacherPassword)
	require.Error(t, err)
	assert.Equal(t, session.ErrNotAdmin, err.Error())
}

func TestAdminCommandsRequireSession(t *testing.T) {
	f := newFixture(t, "")

	err := f.exec(t, "dashboard")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Empty(t, f.backend.Requests())
}

func TestUsersList(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "users", "list", "-page", "1", "-limit", "10", "-role", "student"))

	last, _ := f.backend.LastRequest()
	assert.Equal(t, "/admin/users?page=1&limit=10&role=student", last.URI)

	output := f.out.String()
	assert.Contains(t, output, "USERNAME")
	assert.Contains(t, output, "student1")
	assert.NotContains(t, output, "admin1")
	assert.Contains(t, output, "page 1 of 1, 2 users\n")
}

func TestUsersList_PageHints(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "users", "list", "-limit", "1"))
	assert.Contains(t, f.out.String(), "page 1 of 4, 4 users; next: -page 2\n")

	require.NoError(t, f.exec(t, "users", "list", "-page", "2", "-limit", "1"))
	assert.Contains(t, f.out.String(), "page 2 of 4, 4 users; prev: -page 1; next: -page 3\n")

	require.NoError(t, f.exec(t, "users", "list", "-page", "4", "-limit", "1"))
	assert.Contains(t, f.out.String(), "page 4 of 4, 4 users; prev: -page 3\n")
}

func TestUsersDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		wantDeleted bool
	}{
		{"confirmed", "y\n", true},
		{"confirmed_word", "YES\n", true},
		{"declined", "n\n", false},
		{"empty_answer", "\n", false},
		{"end_of_input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			f.login(t)
			f.app.in = strings.NewReader(tt.stdin)
			before := len(f.backend.Requests())

			require.NoError(t, f.exec(t, "users", "delete", "u-student2"))
			assert.Contains(t, f.prompts.String(), "Delete user u-student2?")

			if tt.wantDeleted {
				last, _ := f.backend.LastRequest()
				assert.Equal(t, http.MethodDelete, last.Method)
				assert.Contains(t, f.out.String(), "Usuario eliminado")
				return
			}
			assert.Len(t, f.backend.Requests(), before)
			assert.Contains(t, f.prompts.String(), "Cancelled")
			assert.Empty(t, f.out.String())
		})
	}
}

func TestUsersCRUD(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "users", "create", "-u", "student9", "-p", "pw", "-role", "student"))
	var created admin.User
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &created))
	assert.Equal(t, "student9", created.Username)

	require.NoError(t, f.exec(t, "users", "update", created.ID, "-name", "Nueve"))
	last, _ := f.backend.LastRequest()
	assert.JSONEq(t, `{"fullName":"Nueve"}`, last.Body)

	require.NoError(t, f.exec(t, "users", "get", created.ID))
	assert.Contains(t, f.out.String(), "Nueve")

	require.NoError(t, f.exec(t, "users", "delete", created.ID, "-yes"))
	assert.Contains(t, f.out.String(), "Usuario eliminado")

	err := f.exec(t, "users", "get", created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMembershipsUpdate(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "memberships", "update", "m-2", "-status", "cancelled", "-auto-renew", "false"))
	last, _ := f.backend.LastRequest()
	assert.JSONEq(t, `{"status":"cancelled","autoRenew":false}`, last.Body)
	assert.Contains(t, f.out.String(), "cancelled")

	err := f.exec(t, "memberships", "update", "missing", "-status", "expired")
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())

	err = f.exec(t, "memberships", "update", "m-1", "-end", "next week")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAIUsage(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "ai-usage"))
	output := f.out.String()
	assert.Contains(t, output, "128,400")
	assert.Contains(t, output, "Exercises")
	assert.Contains(t, output, "unknown")

	f.out.Reset()
	require.NoError(t, f.app.run(context.Background(), []string{"-json", "ai-usage", "-period", "7"}))

	var stats admin.AIUsageStats
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &stats))
	assert.Equal(t, 7, stats.Period)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, "")
	f.login(t)

	require.NoError(t, f.exec(t, "dashboard"))
	output := f.out.String()
	assert.Contains(t, output, "Active memberships")
	assert.Contains(t, output, "monthly")
	assert.Contains(t, output, "student1")

	var revenue string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "Revenue") {
			revenue = strings.TrimSpace(strings.TrimPrefix(line, "Revenue"))
		}
	}
	assert.Equal(t, f.app.money(12.98, "USD"), revenue)
	assert.Contains(t, revenue, "12.98")
}

func TestUsage(t *testing.T) {
	f := newFixture(t, "")

	assert.ErrorIs(t, f.exec(t), errUsage)
	assert.ErrorIs(t, f.exec(t, "bogus"), errUsage)
	assert.ErrorIs(t, f.exec(t, "login", "-x"), errUsage)
}

func TestMembershipUpdateFlags(t *testing.T) {
	input, err := membershipUpdate("", "", "")
	require.NoError(t, err)
	assert.Nil(t, input.Status)
	assert.Nil(t, input.EndDate)
	assert.Nil(t, input.AutoRenew)

	input, err = membershipUpdate("active", "2026-12-31", "true")
	require.NoError(t, err)
	assert.Equal(t, admin.StatusActive, *input.Status)
	assert.Equal(t, "2026-12-31", input.EndDate.Format(dateLayout))
	assert.True(t, *input.AutoRenew)

	_, err = membershipUpdate("", "", "maybe")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
