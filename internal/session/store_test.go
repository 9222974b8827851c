// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/eduadmin/internal/platform/migration"
	"github.com/taibuivan/eduadmin/internal/session"
)

var sample = session.Entries{
	Token: "abc",
	User:  `{"id":"1","username":"admin1","role":"admin"}`,
}

// exerciseStore runs the contract every [session.Store] must satisfy.
func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))

	entries, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, entries.IsEmpty())

	require.NoError(t, store.Write(ctx, sample))
	entries, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, entries)

	replaced := session.Entries{Token: "def", User: sample.User}
	require.NoError(t, store.Write(ctx, replaced))
	entries, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, replaced, entries)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	entries, err = store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, entries.IsEmpty())
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, session.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		exerciseStore(t, session.NewFileStore(path, ""))
	})

	t.Run("sealed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		exerciseStore(t, session.NewFileStore(path, "s3cret"))
	})
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path, "")
	require.NoError(t, store.Write(context.Background(), sample))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, path, store.Path())
}

func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		secret string
		write  func(t *testing.T, path string)
	}{
		{
			name: "garbage_json",
			write: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
			},
		},
		{
			name:   "wrong_secret",
			secret: "two",
			write: func(t *testing.T, path string) {
				require.NoError(t, session.NewFileStore(path, "one").Write(ctx, sample))
			},
		},
		{
			name:   "unsealed_file_with_secret",
			secret: "two",
			write: func(t *testing.T, path string) {
				require.NoError(t, session.NewFileStore(path, "").Write(ctx, sample))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			tt.write(t, path)

			store := session.NewFileStore(path, tt.secret)

			_, err := store.Read(ctx)
			assert.ErrorIs(t, err, session.ErrCorrupt)

			manager := session.NewManager(store, nil)
			assert.Equal(t, session.StateCorrupt, manager.Load(ctx).State)
			assert.False(t, manager.IsAuthenticated(ctx))

			// Logout recovers from corruption.
			require.NoError(t, manager.Logout(ctx))
			assert.Equal(t, session.StateAbsent, manager.Load(ctx).State)
		})
	}
}

func TestDefaultFilePath(t *testing.T) {
	path, err := session.DefaultFilePath("")
	if err != nil {
		t.Skip("no user config dir on this machine")
	}
	assert.Equal(t, "session.json", filepath.Base(path))
	assert.Equal(t, "default", filepath.Base(filepath.Dir(path)))
}

// # Integration

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, session.NewRedisStore(client, "test-"+t.Name(), time.Minute))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, migration.RunUp(dsn, nil))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	exerciseStore(t, session.NewPostgresStore(pool, "test-"+t.Name()))
}
