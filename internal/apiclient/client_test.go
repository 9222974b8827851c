// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/eduadmin/internal/apiclient"
	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
)

// staticTokens is a fixed [apiclient.TokenSource].
type staticTokens string

func (s staticTokens) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// captured records what the test server received.
type captured struct {
	method      string
	path        string
	rawQuery    string
	auth        string
	contentType string
	requestID   string
	body        string
}

func newServer(t *testing.T, status int, reply string, got *captured) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = captured{
			method:      r.Method,
			path:        r.URL.Path,
			rawQuery:    r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
			body:        string(body),
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server
}

/*
TestClient_Get_DecodesAndAuthenticates covers the happy path with a token.
*/
func TestClient_Get_DecodesAndAuthenticates(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `{"stats":{"totalUsers":7}}`, &got)
	client := apiclient.New(server.URL+"/api/", apiclient.WithTokenSource(staticTokens("abc")))

	var out struct {
		Stats struct {
			TotalUsers int `json:"totalUsers"`
		} `json:"stats"`
	}
	require.NoError(t, client.Get(context.Background(), "/admin/dashboard?x=1", &out))

	assert.Equal(t, 7, out.Stats.TotalUsers)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/admin/dashboard", got.path)
	assert.Equal(t, "x=1", got.rawQuery)
	assert.Equal(t, "Bearer abc", got.auth)
	assert.Equal(t, "application/json", got.contentType)
	assert.NotEmpty(t, got.requestID)
	assert.Empty(t, got.body)
}

/*
TestClient_NoToken_OmitsAuthorization checks anonymous calls.
*/
func TestClient_NoToken_OmitsAuthorization(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `{}`, &got)

	for _, client := range []*apiclient.Client{
		apiclient.New(server.URL),
		apiclient.New(server.URL, apiclient.WithTokenSource(staticTokens(""))),
	} {
		require.NoError(t, client.Get(context.Background(), "/admin/dashboard", nil))
		assert.Empty(t, got.auth)
	}
}

/*
TestClient_Post_EncodesBody verifies JSON request bodies and nil bodies.
*/
func TestClient_Post_EncodesBody(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusCreated, `{"ok":true}`, &got)
	client := apiclient.New(server.URL)

	body := map[string]string{"username": "admin1", "password": "x"}
	require.NoError(t, client.Post(context.Background(), "/auth/login", body, nil))

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.body), &sent))
	assert.Equal(t, body, sent)
	assert.Equal(t, http.MethodPost, got.method)

	require.NoError(t, client.Put(context.Background(), "/admin/users/1", nil, nil))
	assert.Equal(t, http.MethodPut, got.method)
	assert.Empty(t, got.body)

	require.NoError(t, client.Delete(context.Background(), "/admin/users/1", nil))
	assert.Equal(t, http.MethodDelete, got.method)
}

/*
TestClient_ErrorNormalization covers message extraction and the generic fallback.
*/
func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		message string
		kind    apperr.Kind
	}{
		{"json_message", http.StatusNotFound, `{"message":"not found"}`, "not found", apperr.KindNotFound},
		{"html_body", http.StatusInternalServerError, `<html>oops</html>`, "request failed", apperr.KindServer},
		{"empty_message", http.StatusBadRequest, `{"message":""}`, "request failed", apperr.KindValidation},
		{"empty_body", http.StatusForbidden, ``, "request failed", apperr.KindUnauthorized},
		{"error_field_only", http.StatusConflict, `{"error":"dup"}`, "request failed", apperr.KindValidation},
		{"teapot", http.StatusTeapot, `{"message":"short and stout"}`, "short and stout", apperr.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got captured
			server := newServer(t, tt.status, tt.reply, &got)
			client := apiclient.New(server.URL)

			err := client.Put(context.Background(), "/admin/memberships/9", map[string]string{"status": "active"}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.kind, ae.Kind)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}
}

/*
TestClient_UndecodableSuccess reports an unknown-kind error.
*/
func TestClient_UndecodableSuccess(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `not json`, &got)
	client := apiclient.New(server.URL)

	var out map[string]any
	err := client.Get(context.Background(), "/admin/dashboard", &out)
	assert.True(t, apperr.Is(err, apperr.KindUnknown))

	// Discarding the reply never decodes it.
	assert.NoError(t, client.Get(context.Background(), "/admin/dashboard", nil))
}

/*
TestClient_TransportFailure covers an unreachable backend.
*/
func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	err := apiclient.New(baseURL).Get(context.Background(), "/admin/dashboard", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.Zero(t, apperr.As(err).HTTPStatus)
}

/*
TestClient_Timeout bounds a stalled round trip whatever the option order.
*/
func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	tests := []struct {
		name string
		opts []apiclient.Option
	}{
		{"timeout_first", []apiclient.Option{apiclient.WithTimeout(50 * time.Millisecond), apiclient.WithRateLimit(100, 1)}},
		{"timeout_last", []apiclient.Option{apiclient.WithRateLimit(100, 1), apiclient.WithTimeout(50 * time.Millisecond)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			started := time.Now()
			err := apiclient.New(server.URL, tc.opts...).Get(context.Background(), "/admin/dashboard", nil)

			require.Error(t, err)
			assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
			assert.Less(t, time.Since(started), 5*time.Second)
		})
	}
}

/*
TestClient_CancelledContext surfaces a transport error without a round trip.
*/
func TestClient_CancelledContext(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `{}`, &got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := apiclient.New(server.URL, apiclient.WithRateLimit(1, 1)).Get(ctx, "/admin/dashboard", nil)
	assert.True(t, apperr.Is(err, apperr.KindTransport))
	assert.Empty(t, got.method)
}

/*
TestClient_UnauthorizedHook fires only for 401 replies.
*/
func TestClient_UnauthorizedHook(t *testing.T) {
	var calls atomic.Int32
	hook := apiclient.WithUnauthorizedHook(func(context.Context) { calls.Add(1) })

	var got captured
	unauthorized := newServer(t, http.StatusUnauthorized, `{"message":"token expired"}`, &got)
	err := apiclient.New(unauthorized.URL, hook).Get(context.Background(), "/admin/users", nil)
	assert.Equal(t, "token expired", err.Error())
	assert.Equal(t, int32(1), calls.Load())

	forbidden := newServer(t, http.StatusForbidden, `{"message":"admins only"}`, &got)
	_ = apiclient.New(forbidden.URL, hook).Get(context.Background(), "/admin/users", nil)
	assert.Equal(t, int32(1), calls.Load())
}

/*
TestClient_RequestIDFromContext propagates a caller-supplied correlation ID.
*/
func TestClient_RequestIDFromContext(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `{}`, &got)

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	require.NoError(t, apiclient.New(server.URL).Get(ctx, "/admin/dashboard", nil))
	assert.Equal(t, "req-42", got.requestID)
}

/*
TestClient_SetTokenSource binds a provider after construction.
*/
func TestClient_SetTokenSource(t *testing.T) {
	var got captured
	server := newServer(t, http.StatusOK, `{}`, &got)

	client := apiclient.New(server.URL)
	client.SetTokenSource(staticTokens("late"))

	require.NoError(t, client.Get(context.Background(), "/admin/dashboard", nil))
	assert.Equal(t, "Bearer late", got.auth)
	assert.Equal(t, server.URL, client.BaseURL())
}
