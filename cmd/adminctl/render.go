// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"text/tabwriter"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/pkg/pagination"
)

// defaultCurrency is the backend's pricing currency.
const defaultCurrency = "USD"

// contentTypeLabels names the generated content kinds reported by the backend.
var contentTypeLabels = map[string]string{
	"syllabus":       "Syllabi",
	"topic":          "Topics",
	"exercise":       "Exercises",
	"explanation":    "Explanations",
	"recommendation": "Recommendations",
	"grading":        "Gradings",
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// money formats amount in the given ISO currency, falling back to "12.50 XYZ".
func (a *app) money(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return a.printer.Sprintf("%.2f %s", amount, code)
	}
	return a.printer.Sprint(currency.Symbol(unit.Amount(amount)))
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// revenueCurrency picks the currency revenue is reported in: that of the
// most recent payment, or USD when there is none.
func revenueCurrency(recent []admin.Payment) string {
	for _, payment := range recent {
		if payment.Currency != "" {
			return payment.Currency
		}
	}
	return defaultCurrency
}

// renderFooter prints the page position and the flags that reach its neighbours.
func (a *app) renderFooter(meta pagination.Meta, noun string) {
	a.printer.Fprintf(a.out, "page %d of %d, %d %s", meta.Page, meta.Pages, meta.Total, noun)
	if meta.HasPrev() {
		a.printer.Fprintf(a.out, "; prev: -page %d", meta.Page-1)
	}
	if meta.HasNext() {
		a.printer.Fprintf(a.out, "; next: -page %d", meta.Page+1)
	}
	a.printer.Fprintln(a.out)
}

func userLabel(ref admin.Ref[admin.User]) string {
	if ref.Populated() && ref.Value.Username != "" {
		return ref.Value.Username
	}
	if ref.ID == "" {
		return "-"
	}
	return ref.ID
}

// # Dashboard

func (a *app) renderDashboard(stats *admin.DashboardStats) error {
	writer := a.table()
	a.printer.Fprintf(writer, "Users\t%d\n", stats.Stats.TotalUsers)
	a.printer.Fprintf(writer, "Students\t%d\n", stats.Stats.TotalStudents)
	a.printer.Fprintf(writer, "Active memberships\t%d\n", stats.Stats.ActiveMemberships)
	a.printer.Fprintf(writer, "Completed payments\t%d\n", stats.Stats.TotalPayments)
	a.printer.Fprintf(writer, "Revenue\t%s\n", a.money(stats.Stats.Revenue, revenueCurrency(stats.RecentPayments)))

	if len(stats.MembershipsByType) > 0 {
		a.printer.Fprintf(writer, "\nTYPE\tMEMBERSHIPS\n")
		for _, bucket := range stats.MembershipsByType {
			a.printer.Fprintf(writer, "%s\t%d\n", bucket.Key, bucket.Count)
		}
	}

	if len(stats.RecentPayments) > 0 {
		a.printer.Fprintf(writer, "\nDATE\tUSER\tAMOUNT\tSTATUS\tMETHOD\n")
		for _, payment := range stats.RecentPayments {
			paidAt := "-"
			if payment.PaymentDate != nil {
				paidAt = date(*payment.PaymentDate)
			}
			a.printer.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
				paidAt, userLabel(payment.User), a.money(payment.Amount, payment.Currency),
				payment.Status, payment.PaymentMethod)
		}
	}

	return writer.Flush()
}

// # Users

func (a *app) renderUsers(page *admin.UsersPage) error {
	writer := a.table()
	a.printer.Fprintf(writer, "ID\tUSERNAME\tNAME\tROLE\tMEMBERSHIP\tCREATED\n")
	for _, user := range page.Users {
		a.printer.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			user.ID, user.Username, user.FullName, user.Role, yesNo(user.HasActiveMembership), date(user.CreatedAt))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	a.renderFooter(page.Pagination, "users")
	return nil
}

func (a *app) renderUserDetail(detail *admin.UserDetail) error {
	user := detail.User
	writer := a.table()
	a.printer.Fprintf(writer, "ID\t%s\n", user.ID)
	a.printer.Fprintf(writer, "Username\t%s\n", user.Username)
	a.printer.Fprintf(writer, "Name\t%s\n", user.FullName)
	a.printer.Fprintf(writer, "Email\t%s\n", user.Email)
	a.printer.Fprintf(writer, "Role\t%s\n", user.Role)
	a.printer.Fprintf(writer, "Active membership\t%s\n", yesNo(user.HasActiveMembership))
	a.printer.Fprintf(writer, "Created\t%s\n", date(user.CreatedAt))
	if err := writer.Flush(); err != nil {
		return err
	}

	if len(detail.Memberships) == 0 {
		return nil
	}
	a.printer.Fprintln(a.out)
	return a.renderMemberships(&admin.MembershipsPage{Memberships: detail.Memberships})
}

// # Memberships

func (a *app) renderMemberships(page *admin.MembershipsPage) error {
	writer := a.table()
	a.printer.Fprintf(writer, "ID\tUSER\tTYPE\tSTATUS\tSTART\tEND\tPRICE\tAUTO-RENEW\n")
	for _, membership := range page.Memberships {
		a.printer.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			membership.ID, userLabel(membership.User), membership.Type, membership.Status,
			date(membership.StartDate), date(membership.EndDate),
			a.money(membership.Price, membership.Currency), yesNo(membership.AutoRenew))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if page.Pagination.Pages > 0 {
		a.renderFooter(page.Pagination, "memberships")
	}
	return nil
}

// # AI Usage

func (a *app) renderAIUsage(stats *admin.AIUsageStats) error {
	summary := stats.Summary
	writer := a.table()
	a.printer.Fprintf(writer, "Period\t%d days\n", stats.Period)
	a.printer.Fprintf(writer, "Content generated\t%d\n", summary.TotalContentGenerated)
	a.printer.Fprintf(writer, "Recommendations\t%d\n", summary.TotalRecommendations)
	a.printer.Fprintf(writer, "Tokens\t%d\n", summary.TotalTokens)
	a.printer.Fprintf(writer, "Cache hits\t%d (%s)\n", summary.TotalCacheHits, summary.CacheHitRate)
	a.printer.Fprintf(writer, "Estimated cost\t%s\n", a.money(summary.EstimatedCostUSD, defaultCurrency))
	a.printer.Fprintf(writer, "Live API calls\t%d (cache hits %d, %s since %s)\n",
		stats.RealTimeStats.APICalls, stats.RealTimeStats.CacheHits,
		stats.RealTimeStats.CacheHitRate, stats.RealTimeStats.LastReset)

	if len(stats.ByContentType) > 0 {
		a.printer.Fprintf(writer, "\nCONTENT\tCOUNT\tTOKENS\tUSES\tAVG TOKENS\n")
		for _, row := range stats.ByContentType {
			label, ok := contentTypeLabels[row.ContentType]
			if !ok {
				label = row.ContentType
			}
			a.printer.Fprintf(writer, "%s\t%d\t%d\t%d\t%.0f\n", label, row.Count, row.TotalTokens, row.TotalUsage, row.AvgTokens)
		}
	}

	if len(stats.ByModel) > 0 {
		a.printer.Fprintf(writer, "\nMODEL\tCALLS\tTOKENS\n")
		for _, row := range stats.ByModel {
			model := row.Model
			if model == "" {
				model = "unknown"
			}
			a.printer.Fprintf(writer, "%s\t%d\t%d\n", model, row.Count, row.TotalTokens)
		}
	}

	if len(stats.DailyStats) > 0 {
		a.printer.Fprintf(writer, "\nDAY\tCOUNT\tTOKENS\n")
		for _, row := range stats.DailyStats {
			a.printer.Fprintf(writer, "%s\t%d\t%d\n", row.Day, row.Count, row.Tokens)
		}
	}

	return writer.Flush()
}
