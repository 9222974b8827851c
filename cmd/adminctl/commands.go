// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/taibuivan/eduadmin/internal/admin"
	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
	"github.com/taibuivan/eduadmin/internal/platform/sec"
	"github.com/taibuivan/eduadmin/internal/session"
	"github.com/taibuivan/eduadmin/pkg/pointer"
)

const usage = `usage: adminctl [-json] <command> [flags]

commands:
  login -u USER [-p PASS]        log in as an administrator (password read from stdin if omitted)
  logout                         clear the stored session
  whoami                         show the stored session
  dashboard                      aggregate counters and recent payments
  users list [-page -limit -search -role]
  users get ID
  users create -u USER -p PASS [-email -name -role]
  users update ID [-email -name -role -password]
  users delete ID [-yes]          asks for confirmation on stdin unless -yes is given
  memberships list [-page -limit -status -user]
  memberships update ID [-status -end YYYY-MM-DD -auto-renew true|false]
  ai-usage [-period DAYS]`

// errUsage is returned for unknown commands and bad arguments.
var errUsage = errors.New(usage)

// dateLayout is the format accepted by date flags.
const dateLayout = "2006-01-02"

// app holds the wired dependencies of one CLI invocation.
type app struct {
	manager *session.Manager
	service *admin.Service
	out     io.Writer
	in      io.Reader
	prompts io.Writer
	printer *message.Printer
	asJSON  bool
}

// run parses global flags and dispatches to the subcommand.
func (a *app) run(ctx context.Context, args []string) error {
	global := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	global.BoolVar(&a.asJSON, "json", false, "print raw JSON")
	if err := global.Parse(args); err != nil {
		return errUsage
	}

	args = global.Args()
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	}

	handlers := map[string]func(context.Context, []string) error{
		"dashboard":   func(ctx context.Context, _ []string) error { return a.dashboard(ctx) },
		"users":       a.users,
		"memberships": a.memberships,
		"ai-usage":    a.aiUsage,
	}

	handler, ok := handlers[command]
	if !ok {
		return errUsage
	}

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}
	return handler(ctx, rest)
}

// requireAdmin gates every admin route on the stored profile's role.
func (a *app) requireAdmin(ctx context.Context) error {
	if !a.manager.IsAdmin(ctx) {
		return apperr.Unauthorized("not logged in as an administrator; run: adminctl login")
	}

	if a.manager.Expired(ctx) {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "session_token_expired")
	}
	return nil
}

// # Session Commands

func (a *app) login(ctx context.Context, args []string) error {
	flags := newFlagSet("login")
	username := flags.String("u", "", "username")
	password := flags.String("p", "", "password")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	if *password == "" {
		line, err := a.readLine()
		if err != nil {
			return err
		}
		*password = line
	}

	response, err := a.manager.LoginAdmin(ctx, session.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}

	if a.asJSON {
		return a.writeJSON(response.User)
	}
	a.printer.Fprintf(a.out, "Logged in as %s (%s)\n", response.User.DisplayName(), response.User.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	if !a.asJSON {
		fmt.Fprintln(a.out, "Logged out")
	}
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	result := a.manager.Load(ctx)

	if a.asJSON {
		view := map[string]any{"state": result.State.String()}
		if result.Profile != nil {
			view["user"] = result.Profile
		}
		if expiresAt, ok := a.manager.ExpiresAt(ctx); ok {
			view["expiresAt"] = expiresAt
		}
		return a.writeJSON(view)
	}

	switch result.State {
	case session.StatePresent:
		a.printer.Fprintf(a.out, "%s (%s, id %s)\n", result.Profile.DisplayName(), result.Profile.Role, result.Profile.ID)
		if expiresAt, ok := a.manager.ExpiresAt(ctx); ok {
			state := "valid"
			if a.manager.Expired(ctx) {
				state = "expired"
			}
			fmt.Fprintf(a.out, "token %s until %s\n", state, expiresAt.Local().Format(time.RFC1123))
		}
	case session.StateAbsent:
		fmt.Fprintln(a.out, "Not logged in")
	case session.StateCorrupt:
		fmt.Fprintln(a.out, "Stored session is unreadable; run: adminctl logout")
	default:
		return fmt.Errorf("session store unavailable: %w", result.Reason)
	}
	return nil
}

// # Admin Commands

func (a *app) dashboard(ctx context.Context) error {
	stats, err := a.service.DashboardStats(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(stats)
	}
	return a.renderDashboard(stats)
}

func (a *app) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		flags := newFlagSet("users list")
		page := flags.Int("page", 0, "page number")
		limit := flags.Int("limit", 0, "page size")
		search := flags.String("search", "", "text search")
		role := flags.String("role", "", "role filter")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}

		result, err := a.service.ListUsers(ctx, admin.ListUsersParams{
			Page: *page, Limit: *limit, Search: *search, Role: sec.UserRole(*role),
		})
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.writeJSON(result)
		}
		return a.renderUsers(result)

	case "get":
		id, _ := splitID(rest)
		detail, err := a.service.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.writeJSON(detail)
		}
		return a.renderUserDetail(detail)

	case "create":
		flags := newFlagSet("users create")
		input := admin.CreateUserInput{}
		flags.StringVar(&input.Username, "u", "", "username")
		flags.StringVar(&input.Password, "p", "", "password")
		flags.StringVar(&input.Email, "email", "", "email")
		flags.StringVar(&input.FullName, "name", "", "full name")
		role := flags.String("role", "", "role")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}
		input.Role = sec.UserRole(*role)

		return a.writeRaw(a.service.CreateUser(ctx, input))

	case "update":
		id, rest := splitID(rest)
		flags := newFlagSet("users update")
		input := admin.UpdateUserInput{}
		flags.StringVar(&input.Email, "email", "", "email")
		flags.StringVar(&input.FullName, "name", "", "full name")
		flags.StringVar(&input.Password, "password", "", "new password")
		role := flags.String("role", "", "role")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}
		input.Role = sec.UserRole(*role)

		return a.writeRaw(a.service.UpdateUser(ctx, id, input))

	case "delete":
		id, rest := splitID(rest)
		flags := newFlagSet("users delete")
		yes := flags.Bool("yes", false, "skip the confirmation prompt")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}

		if !*yes {
			confirmed, err := a.confirm(fmt.Sprintf("Delete user %s? This cannot be undone [y/N]: ", id))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(a.prompts, "Cancelled")
				return nil
			}
		}
		return a.writeRaw(a.service.DeleteUser(ctx, id))

	default:
		return errUsage
	}
}

func (a *app) memberships(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		flags := newFlagSet("memberships list")
		page := flags.Int("page", 0, "page number")
		limit := flags.Int("limit", 0, "page size")
		status := flags.String("status", "", "status filter")
		userID := flags.String("user", "", "user id filter")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}

		result, err := a.service.ListMemberships(ctx, admin.ListMembershipsParams{
			Page: *page, Limit: *limit, Status: admin.MembershipStatus(*status), UserID: *userID,
		})
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.writeJSON(result)
		}
		return a.renderMemberships(result)

	case "update":
		id, rest := splitID(rest)
		flags := newFlagSet("memberships update")
		status := flags.String("status", "", "new status")
		end := flags.String("end", "", "new end date (YYYY-MM-DD)")
		autoRenew := flags.String("auto-renew", "", "true or false")
		if err := flags.Parse(rest); err != nil {
			return errUsage
		}

		input, err := membershipUpdate(*status, *end, *autoRenew)
		if err != nil {
			return err
		}

		membership, err := a.service.UpdateMembership(ctx, id, input)
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.writeJSON(membership)
		}
		return a.renderMemberships(&admin.MembershipsPage{Memberships: []admin.Membership{*membership}})

	default:
		return errUsage
	}
}

func (a *app) aiUsage(ctx context.Context, args []string) error {
	flags := newFlagSet("ai-usage")
	period := flags.Int("period", 0, "lookback window in days")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}

	stats, err := a.service.AIUsageStats(ctx, *period)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.writeJSON(stats)
	}
	return a.renderAIUsage(stats)
}

// # Helpers

func newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

// splitID takes a leading positional id off args.
// confirm prints question and reports whether the operator answered yes.
// End of input counts as no.
func (a *app) confirm(question string) (bool, error) {
	fmt.Fprint(a.prompts, question)

	line, err := a.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads one line from the input without its line ending.
func (a *app) readLine() (string, error) {
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func splitID(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

// membershipUpdate converts flag strings into a partial update; empty means unchanged.
func membershipUpdate(status, end, autoRenew string) (admin.UpdateMembershipInput, error) {
	var input admin.UpdateMembershipInput

	if status != "" {
		input.Status = pointer.To(admin.MembershipStatus(status))
	}

	if end != "" {
		endDate, err := time.Parse(dateLayout, end)
		if err != nil {
			return input, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field: admin.FieldEndDate, Message: "Must be a date formatted YYYY-MM-DD",
			})
		}
		input.EndDate = &endDate
	}

	if autoRenew != "" {
		value, err := strconv.ParseBool(autoRenew)
		if err != nil {
			return input, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field: admin.FieldAutoRenew, Message: "Must be true or false",
			})
		}
		input.AutoRenew = &value
	}

	return input, nil
}

func (a *app) writeJSON(value any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// writeRaw prints a backend reply that the facade passes through untyped.
func (a *app) writeRaw(raw json.RawMessage, err error) error {
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return a.writeJSON(raw)
}
