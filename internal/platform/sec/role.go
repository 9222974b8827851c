// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "github.com/taibuivan/eduadmin/pkg/slice"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full access to the admin panel
	RoleAdmin UserRole = "admin"

	// Manages courses and their enrolled students
	RoleTeacher UserRole = "teacher"

	// Default role for learners
	RoleStudent UserRole = "student"
)

// Roles lists every role the backend accepts, lowest level first.
var Roles = []UserRole{RoleStudent, RoleTeacher, RoleAdmin}

// RoleNames returns [Roles] as plain strings, for validation messages.
func RoleNames() []string {
	return slice.Map(Roles, func(role UserRole) string { return string(role) })
}

// # Role Hierarchy

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// IsAdmin reports whether r grants access to the admin panel.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleTeacher:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}
