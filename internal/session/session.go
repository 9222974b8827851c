// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the operator's authentication state.

It is the only reader and writer of the persisted bearer token and cached user
profile. The [Manager] is built once at startup and passed by reference to the
API client (as its token source) and to the command layer.

# Invariants

  - Token and profile are written together in one [Store.Write] and cleared
    together in one [Store.Clear]; a successful login or logout never leaves
    one without the other.
  - Malformed persisted data reads as "absent" through the boolean and optional
    accessors. [Manager.Load] reports it as [StateCorrupt] for callers that
    want to tell the two apart.
*/
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taibuivan/eduadmin/internal/platform/sec"
)

// # Domain Entities

// Credentials is the body posted to the login route.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is the cached snapshot of the logged-in user.
// It is stale until the next login.
type Profile struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email,omitempty"`
	FullName string       `json:"fullName,omitempty"`
	Role     sec.UserRole `json:"role"`
}

// IsAdmin reports whether the profile's role grants admin access.
func (p Profile) IsAdmin() bool {
	return p.Role.IsAdmin()
}

// DisplayName returns the full name when known, otherwise the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// LoginResponse is the backend's reply to a successful login.
type LoginResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    Profile `json:"user"`
}

// # Persisted State

// Entries are the two raw persisted strings. An empty string means absent.
type Entries struct {
	// Token is the raw bearer token.
	Token string
	// User is the JSON-serialized [Profile].
	User string
}

// IsEmpty reports whether nothing is persisted.
func (e Entries) IsEmpty() bool {
	return e.Token == "" && e.User == ""
}

// ErrCorrupt marks persisted bytes that could not be decoded.
// Stores wrap it so the manager can tell corruption from I/O failure.
var ErrCorrupt = errors.New("session: persisted data is corrupt")

// # Load Result

// State classifies what [Manager.Load] found.
type State int

const (
	// StateAbsent means nothing is persisted.
	StateAbsent State = iota
	// StatePresent means token and profile were both read and decoded.
	StatePresent
	// StateCorrupt means something is persisted but cannot be used.
	StateCorrupt
	// StateUnavailable means the store itself could not be read.
	StateUnavailable
)

// String returns a lowercase name for logs and CLI output.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	case StateCorrupt:
		return "corrupt"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is the outcome of reading the persisted session.
type Result struct {
	State   State
	Token   string
	Profile *Profile
	// Reason explains StateCorrupt and StateUnavailable.
	Reason error
}

// OK reports whether a usable session was found.
func (r Result) OK() bool {
	return r.State == StatePresent
}

// decodeEntries turns raw entries into a [Result].
func decodeEntries(entries Entries) Result {
	if entries.IsEmpty() {
		return Result{State: StateAbsent}
	}

	if entries.Token == "" {
		return Result{State: StateCorrupt, Reason: fmt.Errorf("%w: profile without token", ErrCorrupt)}
	}

	if entries.User == "" {
		return Result{State: StateCorrupt, Token: entries.Token, Reason: fmt.Errorf("%w: token without profile", ErrCorrupt)}
	}

	profile, err := decodeProfile(entries.User)
	if err != nil {
		return Result{State: StateCorrupt, Token: entries.Token, Reason: err}
	}

	return Result{State: StatePresent, Token: entries.Token, Profile: profile}
}

// decodeProfile parses the persisted JSON profile.
func decodeProfile(raw string) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%w: profile: %v", ErrCorrupt, err)
	}
	return &profile, nil
}

// encodeProfile serializes a profile for persistence.
func encodeProfile(profile Profile) (string, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("session: encode profile: %w", err)
	}
	return string(raw), nil
}
