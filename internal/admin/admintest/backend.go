// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admintest provides an in-memory admin backend for tests and local trials.

It serves the same routes, JSON shapes and {"message": ...} error bodies as the
real backend, under an /api prefix, and records every request it receives so
tests can assert on the exact path and query string sent.
*/
package admintest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/platform/constants"
	"github.com/taibuivan/eduadmin/internal/platform/middleware"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
)

// Prefix is the path every route is mounted under.
const Prefix = "/api"

// # Fixtures

// Account is a user the backend can authenticate. Password is plain text;
// the backend keeps only its bcrypt hash.
type Account struct {
	User     admin.User
	Password string
	Token    string

	passwordHash string
}

func newAccount(account Account) (*Account, error) {
	hash, err := sec.HashPassword(account.Password, sec.MinPasswordCost)
	if err != nil {
		return nil, err
	}
	account.Password = ""
	account.passwordHash = hash
	return &account, nil
}

// Request is a recorded call. URI is relative to [Prefix].
type Request struct {
	Method        string
	URI           string
	Authorization string
	Body          string
}

// # Backend

// Backend is the in-memory admin backend. It is safe for concurrent use.
type Backend struct {
	mu          sync.Mutex
	accounts    []*Account
	memberships []admin.Membership
	payments    []admin.Payment
	usage       admin.AIUsageStats
	requests    []Request
	logger      *slog.Logger
}

// New creates a backend seeded with [Seed]. A nil logger discards logs.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	seed := Seed()
	backend := &Backend{
		memberships: seed.Memberships,
		payments:    seed.Payments,
		usage:       seed.Usage,
		logger:      logger,
	}
	for _, account := range seed.Accounts {
		backend.AddAccount(account)
	}
	return backend
}

// NewServer starts a backend behind an httptest server closed on cleanup.
// The client base URL is server.URL + [Prefix].
func NewServer(tb testing.TB) (*httptest.Server, *Backend) {
	tb.Helper()

	backend := New(nil)
	server := httptest.NewServer(backend.Handler())
	tb.Cleanup(server.Close)

	return server, backend
}

// Handler returns the chi router serving every backend route.
func (backend *Backend) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(backend.logger))
	router.Use(middleware.PanicRecovery())
	router.Use(backend.record)
	router.Use(chimw.CleanPath)

	router.Route(Prefix, func(api chi.Router) {
		api.Post("/auth/login", backend.login)

		api.Route("/admin", func(protected chi.Router) {
			protected.Use(middleware.Authenticate(backend))
			protected.Use(middleware.RequireRole(sec.RoleAdmin))

			protected.Get("/dashboard", backend.dashboard)

			protected.Get("/users", backend.listUsers)
			protected.Post("/users", backend.createUser)
			protected.Get("/users/{id}", backend.getUser)
			protected.Put("/users/{id}", backend.updateUser)
			protected.Delete("/users/{id}", backend.deleteUser)

			protected.Get("/memberships", backend.listMemberships)
			protected.Put("/memberships/{id}", backend.updateMembership)

			protected.Get("/ai-usage", backend.aiUsage)
		})
	})

	return router
}

// # Inspection

// Requests returns a copy of every recorded request in arrival order.
func (backend *Backend) Requests() []Request {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	return append([]Request(nil), backend.requests...)
}

// LastRequest returns the most recent request.
func (backend *Backend) LastRequest() (Request, bool) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	if len(backend.requests) == 0 {
		return Request{}, false
	}
	return backend.requests[len(backend.requests)-1], true
}

// AddAccount registers another account. It panics if the password cannot
// be hashed, which only happens past bcrypt's 72-byte limit.
func (backend *Backend) AddAccount(account Account) {
	stored, err := newAccount(account)
	if err != nil {
		panic(err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	backend.accounts = append(backend.accounts, stored)
}

// VerifyToken implements [middleware.TokenVerifier].
func (backend *Backend) VerifyToken(token string) (*middleware.Principal, bool) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	for _, account := range backend.accounts {
		if account.Token != "" && account.Token == token {
			return &middleware.Principal{UserID: account.User.ID, Role: account.User.Role}, true
		}
	}
	return nil, false
}

// record stores method, URI, Authorization header and body of each request.
func (backend *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body []byte
		if request.Body != nil {
			body, _ = io.ReadAll(request.Body)
			request.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		backend.mu.Lock()
		backend.requests = append(backend.requests, Request{
			Method:        request.Method,
			URI:           strings.TrimPrefix(request.URL.RequestURI(), Prefix),
			Authorization: request.Header.Get(constants.HeaderAuthorization),
			Body:          string(body),
		})
		backend.mu.Unlock()

		next.ServeHTTP(writer, request)
	})
}
