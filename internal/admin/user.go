// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"time"

	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/pkg/pagination"
)

// User is an account as the admin backend reports it.
type User struct {
	ID                  string       `json:"_id"`
	Username            string       `json:"username"`
	Email               string       `json:"email,omitempty"`
	FullName            string       `json:"fullName,omitempty"`
	Role                sec.UserRole `json:"role"`
	EnrolledCourses     []string     `json:"enrolledCourses,omitempty"`
	CurrentMembership   string       `json:"currentMembership,omitempty"`
	HasActiveMembership bool         `json:"hasActiveMembership"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// UsersPage is one page of the user listing.
type UsersPage struct {
	Users      []User          `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}

// UserDetail is a user together with their membership history.
type UserDetail struct {
	User        User         `json:"user"`
	Memberships []Membership `json:"memberships"`
}

// ListUsersParams filters the user listing. Zero values are not sent.
type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
	Role   sec.UserRole
}

// CreateUserInput is the body of a user creation.
type CreateUserInput struct {
	Username string       `json:"username"`
	Password string       `json:"password"`
	Email    string       `json:"email,omitempty"`
	FullName string       `json:"fullName,omitempty"`
	Role     sec.UserRole `json:"role,omitempty"`
}

// UpdateUserInput is a partial user update. Empty fields are left unchanged.
type UpdateUserInput struct {
	Email    string       `json:"email,omitempty"`
	FullName string       `json:"fullName,omitempty"`
	Role     sec.UserRole `json:"role,omitempty"`
	Password string       `json:"password,omitempty"`
}

// Length limits checked before a user is created or updated, in characters.
const (
	MaxUsernameLength = 50
	MaxFullNameLength = 100
)

// Field names reported in validation details.
const (
	FieldID       = "id"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldEmail    = "email"
	FieldFullName = "fullName"
	FieldRole     = "role"
	FieldPage     = "page"
	FieldLimit    = "limit"
	FieldSearch   = "search"
)
