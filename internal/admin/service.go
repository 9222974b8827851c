// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin is the typed facade over the admin backend routes.

Each method validates its input, composes the route and query string, and
delegates the round trip to the API client. Nothing is cached or retried.
*/
package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/internal/platform/validate"
	"github.com/taibuivan/eduadmin/pkg/query"
	"github.com/taibuivan/eduadmin/pkg/slice"
)

// Backend routes.
const (
	PathDashboard   = "/admin/dashboard"
	PathUsers       = "/admin/users"
	PathMemberships = "/admin/memberships"
	PathAIUsage     = "/admin/ai-usage"
)

// API is the subset of the HTTP client the facade delegates to.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Service exposes one method per admin route.
type Service struct {
	api API
}

// NewService constructs a [Service].
func NewService(api API) *Service {
	return &Service{api: api}
}

// # Dashboard

// DashboardStats fetches the aggregate counters and recent payments.
func (service *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := service.api.Get(ctx, PathDashboard, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// # Users

// ListUsers fetches one page of users. Empty filters are omitted from the query.
func (service *Service) ListUsers(ctx context.Context, params ListUsersParams) (*UsersPage, error) {
	validator := &validate.Validator{}
	validator.
		NonNegative(FieldPage, params.Page).
		NonNegative(FieldLimit, params.Limit).
		OptionalOneOf(FieldRole, string(params.Role), sec.RoleNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	path := query.New().
		Int("page", params.Page).
		Int("limit", params.Limit).
		String("search", params.Search).
		String("role", string(params.Role)).
		Path(PathUsers)

	var page UsersPage
	if err := service.api.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser fetches a user and their membership history.
func (service *Service) GetUser(ctx context.Context, id string) (*UserDetail, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var detail UserDetail
	if err := service.api.Get(ctx, userPath(id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

/*
CreateUser registers a new account.

Parameters:
  - ctx: context.Context
  - input: CreateUserInput (username and password required)

Returns:
  - json.RawMessage: The backend's representation of the created user
  - error: Validation or request errors
*/
func (service *Service) CreateUser(ctx context.Context, input CreateUserInput) (json.RawMessage, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldPassword, input.Password).
		MaxLen(FieldFullName, input.FullName, MaxFullNameLength).
		OptionalEmail(FieldEmail, input.Email).
		OptionalOneOf(FieldRole, string(input.Role), sec.RoleNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var created json.RawMessage
	if err := service.api.Post(ctx, PathUsers, input, &created); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "admin_user_created",
		slog.String("username", input.Username),
		slog.String("role", string(input.Role)),
	)
	return created, nil
}

// UpdateUser applies a partial update. An empty password leaves it unchanged.
func (service *Service) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (json.RawMessage, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldID, id).
		MaxLen(FieldFullName, input.FullName, MaxFullNameLength).
		OptionalEmail(FieldEmail, input.Email).
		OptionalOneOf(FieldRole, string(input.Role), sec.RoleNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var updated json.RawMessage
	if err := service.api.Put(ctx, userPath(id), input, &updated); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "admin_user_updated",
		slog.String("user_id", id),
		slog.Bool("password_changed", input.Password != ""),
	)
	return updated, nil
}

// DeleteUser removes an account.
func (service *Service) DeleteUser(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var deleted json.RawMessage
	if err := service.api.Delete(ctx, userPath(id), &deleted); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).WarnContext(ctx, "admin_user_deleted", slog.String("user_id", id))
	return deleted, nil
}

// # Memberships

// ListMemberships fetches one page of memberships. Empty filters are omitted.
func (service *Service) ListMemberships(ctx context.Context, params ListMembershipsParams) (*MembershipsPage, error) {
	validator := &validate.Validator{}
	validator.
		NonNegative(FieldPage, params.Page).
		NonNegative(FieldLimit, params.Limit).
		OptionalOneOf(FieldStatus, string(params.Status), statusNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	path := query.New().
		Int("page", params.Page).
		Int("limit", params.Limit).
		String("status", string(params.Status)).
		String("userId", params.UserID).
		Path(PathMemberships)

	var page MembershipsPage
	if err := service.api.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateMembership applies a partial update. Nil fields are not sent.
func (service *Service) UpdateMembership(ctx context.Context, id string, input UpdateMembershipInput) (*Membership, error) {
	validator := &validate.Validator{}
	validator.Required(FieldID, id)
	if input.Status != nil {
		validator.OneOf(FieldStatus, string(*input.Status), statusNames()...)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var membership Membership
	if err := service.api.Put(ctx, PathMemberships+"/"+url.PathEscape(id), input, &membership); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "admin_membership_updated", slog.String("membership_id", id))
	return &membership, nil
}

// # AI Usage

// AIUsageStats fetches usage and cost for the last period days.
// Zero sends no period and the backend applies [DefaultUsagePeriod].
func (service *Service) AIUsageStats(ctx context.Context, period int) (*AIUsageStats, error) {
	if err := new(validate.Validator).NonNegative(FieldPeriod, period).Err(); err != nil {
		return nil, err
	}

	var stats AIUsageStats
	if err := service.api.Get(ctx, query.New().Int("period", period).Path(PathAIUsage), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// # Helpers

func requireID(id string) error {
	return new(validate.Validator).Required(FieldID, id).Err()
}

func userPath(id string) string {
	return PathUsers + "/" + url.PathEscape(id)
}

func statusNames() []string {
	return slice.Map(MembershipStatuses, func(status MembershipStatus) string { return string(status) })
}
