// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admintest

import (
	"time"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
)

// Fixture credentials.
const (
	AdminUsername = "admin1"
	AdminPassword = "secret"
	AdminToken    = "abc"
	AdminID       = "u-admin1"

	TeacherUsername = "teacher1"
	TeacherPassword = "secret"
	TeacherToken    = "tch"

	StudentID = "u-student1"
)

// Fixtures is the initial state of a [Backend].
type Fixtures struct {
	Accounts    []Account
	Memberships []admin.Membership
	Payments    []admin.Payment
	Usage       admin.AIUsageStats
}

func day(year int, month time.Month, date int) time.Time {
	return time.Date(year, month, date, 0, 0, 0, 0, time.UTC)
}

// Seed returns a fresh copy of the fixture data.
func Seed() Fixtures {
	paidAt := day(2026, time.September, 1)

	return Fixtures{
		Accounts: []Account{
			{
				User: admin.User{
					ID: AdminID, Username: AdminUsername, Email: "admin1@school.edu",
					FullName: "Ada Admin", Role: sec.RoleAdmin, CreatedAt: day(2025, time.January, 10),
				},
				Password: AdminPassword,
				Token:    AdminToken,
			},
			{
				User: admin.User{
					ID: "u-teacher1", Username: TeacherUsername, Email: "teacher1@school.edu",
					FullName: "Tomás Teacher", Role: sec.RoleTeacher, CreatedAt: day(2025, time.March, 2),
				},
				Password: TeacherPassword,
				Token:    TeacherToken,
			},
			{
				User: admin.User{
					ID: StudentID, Username: "student1", Email: "student1@school.edu",
					FullName: "Sofía Student", Role: sec.RoleStudent, CurrentMembership: "m-1",
					HasActiveMembership: true, EnrolledCourses: []string{"c-math"}, CreatedAt: day(2025, time.June, 15),
				},
				Password: "secret",
				Token:    "stu1",
			},
			{
				User: admin.User{
					ID: "u-student2", Username: "student2", Role: sec.RoleStudent, CreatedAt: day(2025, time.July, 20),
				},
				Password: "secret",
				Token:    "stu2",
			},
		},
		Memberships: []admin.Membership{
			{
				ID: "m-1", User: admin.Ref[admin.User]{ID: StudentID}, Type: admin.MembershipMonthly,
				Status: admin.StatusActive, StartDate: day(2026, time.September, 1), EndDate: day(2026, time.October, 1),
				Price: 9.99, Currency: "USD", PaymentID: "p-1", AutoRenew: true,
			},
			{
				ID: "m-2", User: admin.Ref[admin.User]{ID: "u-student2"}, Type: admin.MembershipWeekly,
				Status: admin.StatusExpired, StartDate: day(2026, time.August, 1), EndDate: day(2026, time.August, 8),
				Price: 2.99, Currency: "USD", PaymentID: "p-2",
			},
			{
				ID: "m-3", User: admin.Ref[admin.User]{ID: StudentID}, Type: admin.MembershipAnnual,
				Status: admin.StatusPending, StartDate: day(2026, time.October, 1), EndDate: day(2027, time.October, 1),
				Price: 89.99, Currency: "USD", PaymentID: "p-3",
			},
		},
		Payments: []admin.Payment{
			{
				ID: "p-1", User: admin.Ref[admin.User]{ID: StudentID}, Membership: admin.Ref[admin.Membership]{ID: "m-1"},
				Amount: 9.99, Currency: "USD", Status: admin.PaymentCompleted, PaymentMethod: "card",
				TransactionID: "txn-001", PaymentDate: &paidAt,
			},
			{
				ID: "p-2", User: admin.Ref[admin.User]{ID: "u-student2"}, Membership: admin.Ref[admin.Membership]{ID: "m-2"},
				Amount: 2.99, Currency: "USD", Status: admin.PaymentCompleted, PaymentMethod: "paypal",
				TransactionID: "txn-002", PaymentDate: &paidAt,
			},
			{
				ID: "p-3", User: admin.Ref[admin.User]{ID: StudentID}, Membership: admin.Ref[admin.Membership]{ID: "m-3"},
				Amount: 89.99, Currency: "USD", Status: admin.PaymentPending, PaymentMethod: "card",
			},
		},
		Usage: admin.AIUsageStats{
			Summary: admin.UsageSummary{
				TotalContentGenerated: 42, TotalRecommendations: 7, TotalTokens: 128400,
				TotalCacheHits: 18, EstimatedCostUSD: 0.77, CacheHitRate: "30.00%",
			},
			RealTimeStats: admin.RealTimeStats{
				CacheHits: 5, APICalls: 12, CacheHitRate: "29.41%", LastReset: "2026-10-14T00:00:00.000Z",
			},
			ByContentType: []admin.ContentTypeUsage{
				{ContentType: "exercise", Count: 20, TotalTokens: 64000, TotalUsage: 31, AvgTokens: 3200},
				{ContentType: "syllabus", Count: 12, TotalTokens: 48000, TotalUsage: 9, AvgTokens: 4000},
				{ContentType: "explanation", Count: 10, TotalTokens: 16400, TotalUsage: 4, AvgTokens: 1640},
			},
			ByModel: []admin.ModelUsage{
				{Model: "gpt-4o-mini", Count: 38, TotalTokens: 110000},
				{Model: "", Count: 4, TotalTokens: 18400},
			},
			DailyStats: []admin.DailyUsage{
				{Day: "2026-10-13", Count: 9, Tokens: 30100},
				{Day: "2026-10-14", Count: 14, Tokens: 41200},
			},
			CacheStats: admin.CacheStats{TotalGenerated: 42, TotalCacheHits: 18, AvgUsagePerItem: 1.05},
		},
	}
}
