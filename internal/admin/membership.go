// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"time"

	"github.com/taibuivan/eduadmin/pkg/pagination"
)

// MembershipType is the billing period of a subscription.
type MembershipType string

const (
	MembershipWeekly     MembershipType = "weekly"
	MembershipMonthly    MembershipType = "monthly"
	MembershipQuarterly  MembershipType = "quarterly"
	MembershipSemiannual MembershipType = "semiannual"
	MembershipAnnual     MembershipType = "annual"
)

// MembershipStatus is the lifecycle state of a subscription.
type MembershipStatus string

const (
	StatusActive    MembershipStatus = "active"
	StatusExpired   MembershipStatus = "expired"
	StatusCancelled MembershipStatus = "cancelled"
	StatusPending   MembershipStatus = "pending"
)

// MembershipStatuses lists every valid status.
var MembershipStatuses = []MembershipStatus{StatusActive, StatusExpired, StatusCancelled, StatusPending}

// Valid reports whether s is a known status.
func (s MembershipStatus) Valid() bool {
	for _, status := range MembershipStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Membership is a time-bounded subscription record.
type Membership struct {
	ID        string           `json:"_id"`
	User      Ref[User]        `json:"user"`
	Type      MembershipType   `json:"type"`
	Status    MembershipStatus `json:"status"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Price     float64          `json:"price"`
	Currency  string           `json:"currency"`
	PaymentID string           `json:"paymentId,omitempty"`
	AutoRenew bool             `json:"autoRenew"`
}

// MembershipsPage is one page of the membership listing.
type MembershipsPage struct {
	Memberships []Membership    `json:"memberships"`
	Pagination  pagination.Meta `json:"pagination"`
}

// ListMembershipsParams filters the membership listing. Zero values are not sent.
type ListMembershipsParams struct {
	Page   int
	Limit  int
	Status MembershipStatus
	UserID string
}

// UpdateMembershipInput is a partial membership update; nil fields are not sent.
type UpdateMembershipInput struct {
	Status    *MembershipStatus `json:"status,omitempty"`
	EndDate   *time.Time        `json:"endDate,omitempty"`
	AutoRenew *bool             `json:"autoRenew,omitempty"`
}

// Field names reported in validation details.
const (
	FieldStatus    = "status"
	FieldUserID    = "userId"
	FieldEndDate   = "endDate"
	FieldAutoRenew = "autoRenew"
)
