// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/eduadmin/internal/platform/constants"
)

// pgxQuerier is the subset of *pgxpool.Pool used by [PostgresStore].
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps named sessions in the admin.session table.
// The table is created by the embedded migrations.
type PostgresStore struct {
	db      pgxQuerier
	profile string
}

// NewPostgresStore creates a PostgreSQL-backed [Store] for the given profile.
func NewPostgresStore(db pgxQuerier, profile string) *PostgresStore {
	if profile == "" {
		profile = constants.DefaultSessionProfile
	}
	return &PostgresStore{db: db, profile: profile}
}

/*
Read returns the row for this profile.

Parameters:
  - ctx: context.Context

Returns:
  - Entries: Zero value when no row exists
  - error: Database retrieval failures
*/
func (store *PostgresStore) Read(ctx context.Context) (Entries, error) {
	const query = `
		SELECT token, user_profile
		FROM admin.session
		WHERE profile = $1`

	var entries Entries
	err := store.db.QueryRow(ctx, query, store.profile).Scan(&entries.Token, &entries.User)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entries{}, nil
		}
		return Entries{}, fmt.Errorf("postgres_session_get_failed: %w", err)
	}

	return entries, nil
}

/*
Write upserts both columns in one statement.

Parameters:
  - ctx: context.Context
  - entries: Entries

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) Write(ctx context.Context, entries Entries) error {
	const query = `
		INSERT INTO admin.session (profile, token, user_profile, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile) DO UPDATE
		SET token = EXCLUDED.token,
		    user_profile = EXCLUDED.user_profile,
		    updated_at = NOW()`

	if _, err := store.db.Exec(ctx, query, store.profile, entries.Token, entries.User); err != nil {
		return fmt.Errorf("postgres_session_set_failed: %w", err)
	}
	return nil
}

/*
Clear deletes the row for this profile.

Parameters:
  - ctx: context.Context

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) Clear(ctx context.Context) error {
	if _, err := store.db.Exec(ctx, `DELETE FROM admin.session WHERE profile = $1`, store.profile); err != nil {
		return fmt.Errorf("postgres_session_delete_failed: %w", err)
	}
	return nil
}
