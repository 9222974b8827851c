// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/eduadmin/internal/platform/constants"
)

// RedisStore keeps a named session in a Redis hash so several operator
// machines can share one login.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed [Store] for the given profile.
// A zero ttl keeps the session until logout.
func NewRedisStore(client *redis.Client, profile string, ttl time.Duration) *RedisStore {
	if profile == "" {
		profile = constants.DefaultSessionProfile
	}
	return &RedisStore{
		client: client,
		key:    constants.RedisPrefixSession + profile,
		ttl:    ttl,
	}
}

/*
Read returns both hash fields.

Parameters:
  - context: context.Context

Returns:
  - Entries: Zero value when the key is absent
  - error: Connectivity errors
*/
func (store *RedisStore) Read(context context.Context) (Entries, error) {
	fields, err := store.client.HGetAll(context, store.key).Result()
	if err != nil {
		return Entries{}, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	return Entries{
		Token: fields[constants.EntryToken],
		User:  fields[constants.EntryUser],
	}, nil
}

/*
Write replaces the hash inside a MULTI/EXEC transaction.

Parameters:
  - context: context.Context
  - entries: Entries

Returns:
  - error: Execution errors
*/
func (store *RedisStore) Write(context context.Context, entries Entries) error {
	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, store.key)
		pipe.HSet(context, store.key,
			constants.EntryToken, entries.Token,
			constants.EntryUser, entries.User,
		)
		if store.ttl > 0 {
			pipe.Expire(context, store.key, store.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Clear deletes the hash.

Parameters:
  - context: context.Context

Returns:
  - error: Deletion failures
*/
func (store *RedisStore) Clear(context context.Context) error {
	if err := store.client.Del(context, store.key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
