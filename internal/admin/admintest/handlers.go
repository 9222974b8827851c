// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admintest

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/platform/request"
	"github.com/taibuivan/eduadmin/internal/platform/respond"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/internal/session"
	"github.com/taibuivan/eduadmin/pkg/pagination"
	"github.com/taibuivan/eduadmin/pkg/slice"
	"github.com/taibuivan/eduadmin/pkg/uuid"
)

// recentPaymentsLimit caps the payments listed on the dashboard.
const recentPaymentsLimit = 5

// # Authentication

func (backend *Backend) login(writer http.ResponseWriter, req *http.Request) {
	var credentials session.Credentials
	if err := request.DecodeJSON(req, &credentials); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if credentials.Username == "" || credentials.Password == "" {
		respond.Message(writer, http.StatusBadRequest, "Usuario y contraseña son requeridos")
		return
	}

	backend.mu.Lock()
	account := backend.findAccountByUsername(credentials.Username)
	backend.mu.Unlock()

	if account == nil || !sec.CheckPasswordHash(credentials.Password, account.passwordHash) {
		respond.Message(writer, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	respond.OK(writer, session.LoginResponse{
		Message: "Login exitoso",
		Token:   account.Token,
		User: session.Profile{
			ID:       account.User.ID,
			Username: account.User.Username,
			Email:    account.User.Email,
			FullName: account.User.FullName,
			Role:     account.User.Role,
		},
	})
}

// # Dashboard

func (backend *Backend) dashboard(writer http.ResponseWriter, _ *http.Request) {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	var stats admin.DashboardStats
	stats.Stats.TotalUsers = len(backend.accounts)
	for _, account := range backend.accounts {
		if account.User.Role == sec.RoleStudent {
			stats.Stats.TotalStudents++
		}
	}

	counts := map[admin.MembershipType]int{}
	for _, membership := range backend.memberships {
		if membership.Status == admin.StatusActive {
			stats.Stats.ActiveMemberships++
		}
		counts[membership.Type]++
	}
	for _, kind := range []admin.MembershipType{
		admin.MembershipWeekly, admin.MembershipMonthly, admin.MembershipQuarterly,
		admin.MembershipSemiannual, admin.MembershipAnnual,
	} {
		if counts[kind] > 0 {
			stats.MembershipsByType = append(stats.MembershipsByType, admin.TypeCount{Key: string(kind), Count: counts[kind]})
		}
	}

	completed := slice.Filter(backend.payments, func(payment admin.Payment) bool {
		return payment.Status == admin.PaymentCompleted
	})
	stats.Stats.TotalPayments = len(completed)
	stats.Stats.Revenue = slice.Reduce(completed, 0.0, func(total float64, payment admin.Payment) float64 {
		return total + payment.Amount
	})

	recent := backend.payments
	if len(recent) > recentPaymentsLimit {
		recent = recent[len(recent)-recentPaymentsLimit:]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		payment := recent[i]
		payment.User = backend.populateUser(payment.User)
		stats.RecentPayments = append(stats.RecentPayments, payment)
	}

	respond.OK(writer, stats)
}

// # Users

func (backend *Backend) listUsers(writer http.ResponseWriter, req *http.Request) {
	params, err := pageParams(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	search := strings.ToLower(req.URL.Query().Get("search"))
	role := sec.UserRole(req.URL.Query().Get("role"))

	backend.mu.Lock()
	users := slice.Map(backend.accounts, func(account *Account) admin.User { return account.User })
	backend.mu.Unlock()

	matched := slice.Filter(users, func(user admin.User) bool {
		if role != "" && user.Role != role {
			return false
		}
		return search == "" || containsFold(search, user.Username, user.Email, user.FullName)
	})

	respond.OK(writer, admin.UsersPage{
		Users:      pageOf(matched, params),
		Pagination: pagination.NewMeta(params.Page, params.Limit, len(matched)),
	})
}

func (backend *Backend) getUser(writer http.ResponseWriter, req *http.Request) {
	id := request.Param(req, "id")

	backend.mu.Lock()
	defer backend.mu.Unlock()

	account := backend.findAccount(id)
	if account == nil {
		respond.Message(writer, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	detail := admin.UserDetail{User: account.User, Memberships: []admin.Membership{}}
	for _, membership := range backend.memberships {
		if membership.User.ID == id {
			detail.Memberships = append(detail.Memberships, membership)
		}
	}

	respond.OK(writer, detail)
}

func (backend *Backend) createUser(writer http.ResponseWriter, req *http.Request) {
	var input admin.CreateUserInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if input.Username == "" || input.Password == "" {
		respond.Message(writer, http.StatusBadRequest, "Usuario y contraseña son requeridos")
		return
	}
	if input.Role == "" {
		input.Role = sec.RoleStudent
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	if backend.findAccountByUsername(input.Username) != nil {
		respond.Message(writer, http.StatusConflict, "El usuario ya existe")
		return
	}

	account, err := newAccount(Account{
		User: admin.User{
			ID:        uuid.New(),
			Username:  input.Username,
			Email:     input.Email,
			FullName:  input.FullName,
			Role:      input.Role,
			CreatedAt: time.Now().UTC(),
		},
		Password: input.Password,
		Token:    uuid.New(),
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	backend.accounts = append(backend.accounts, account)

	respond.Created(writer, account.User)
}

func (backend *Backend) updateUser(writer http.ResponseWriter, req *http.Request) {
	var input admin.UpdateUserInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	account := backend.findAccount(request.Param(req, "id"))
	if account == nil {
		respond.Message(writer, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	if input.Email != "" {
		account.User.Email = input.Email
	}
	if input.FullName != "" {
		account.User.FullName = input.FullName
	}
	if input.Role != "" {
		account.User.Role = input.Role
	}
	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password, sec.MinPasswordCost)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		account.passwordHash = hash
	}

	respond.OK(writer, account.User)
}

func (backend *Backend) deleteUser(writer http.ResponseWriter, req *http.Request) {
	id := request.Param(req, "id")

	backend.mu.Lock()
	defer backend.mu.Unlock()

	index := slices.IndexFunc(backend.accounts, func(account *Account) bool { return account.User.ID == id })
	if index < 0 {
		respond.Message(writer, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	backend.accounts = slices.Delete(backend.accounts, index, index+1)

	respond.Message(writer, http.StatusOK, "Usuario eliminado")
}

// # Memberships

func (backend *Backend) listMemberships(writer http.ResponseWriter, req *http.Request) {
	params, err := pageParams(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	status := admin.MembershipStatus(req.URL.Query().Get("status"))
	userID := req.URL.Query().Get("userId")

	backend.mu.Lock()
	var matched []admin.Membership
	for _, membership := range backend.memberships {
		if status != "" && membership.Status != status {
			continue
		}
		if userID != "" && membership.User.ID != userID {
			continue
		}
		membership.User = backend.populateUser(membership.User)
		matched = append(matched, membership)
	}
	backend.mu.Unlock()

	respond.OK(writer, admin.MembershipsPage{
		Memberships: pageOf(matched, params),
		Pagination:  pagination.NewMeta(params.Page, params.Limit, len(matched)),
	})
}

func (backend *Backend) updateMembership(writer http.ResponseWriter, req *http.Request) {
	var input admin.UpdateMembershipInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if input.Status != nil && !input.Status.Valid() {
		respond.Message(writer, http.StatusBadRequest, "Estado inválido")
		return
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()

	id := request.Param(req, "id")
	index := slices.IndexFunc(backend.memberships, func(membership admin.Membership) bool { return membership.ID == id })
	if index < 0 {
		respond.Message(writer, http.StatusNotFound, "not found")
		return
	}

	membership := &backend.memberships[index]
	if input.EndDate != nil && input.EndDate.Before(membership.StartDate) {
		respond.Message(writer, http.StatusBadRequest, "La fecha de fin debe ser posterior al inicio")
		return
	}

	if input.Status != nil {
		membership.Status = *input.Status
	}
	if input.EndDate != nil {
		membership.EndDate = *input.EndDate
	}
	if input.AutoRenew != nil {
		membership.AutoRenew = *input.AutoRenew
	}

	respond.OK(writer, membership)
}

// # AI Usage

func (backend *Backend) aiUsage(writer http.ResponseWriter, req *http.Request) {
	period, err := request.QueryInt(req, "period", admin.DefaultUsagePeriod)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	backend.mu.Lock()
	stats := backend.usage
	backend.mu.Unlock()

	stats.Period = period
	respond.OK(writer, stats)
}

// # Helpers

func (backend *Backend) findAccount(id string) *Account {
	for _, account := range backend.accounts {
		if account.User.ID == id {
			return account
		}
	}
	return nil
}

func (backend *Backend) findAccountByUsername(username string) *Account {
	for _, account := range backend.accounts {
		if account.User.Username == username {
			return account
		}
	}
	return nil
}

// populateUser embeds the referenced user, as the backend does for list views.
func (backend *Backend) populateUser(ref admin.Ref[admin.User]) admin.Ref[admin.User] {
	if account := backend.findAccount(ref.ID); account != nil {
		user := account.User
		return admin.Ref[admin.User]{ID: user.ID, Value: &user}
	}
	return ref
}

func pageParams(req *http.Request) (pagination.Params, error) {
	page, err := request.QueryInt(req, "page", pagination.DefaultPage)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := request.QueryInt(req, "limit", pagination.DefaultLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func pageOf[T any](items []T, params pagination.Params) []T {
	start := min(params.Offset(), len(items))
	end := min(start+params.Limit, len(items))
	return append(make([]T, 0, end-start), items[start:end]...)
}

func containsFold(needle string, haystacks ...string) bool {
	for _, haystack := range haystacks {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}
