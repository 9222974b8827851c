// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// # Session Data Access

// Store defines the persistence contract for the two session entries.
type Store interface {

	/*
		Read returns the persisted entries.

		Parameters:
		  - context: context.Context

		Returns:
		  - Entries: Zero value when nothing is persisted
		  - error: ErrCorrupt (wrapped) for undecodable data, or I/O failures
	*/
	Read(context context.Context) (Entries, error)

	/*
		Write replaces both entries in a single operation.

		Parameters:
		  - context: context.Context
		  - entries: Entries

		Returns:
		  - error: Persistence failures
	*/
	Write(context context.Context, entries Entries) error

	/*
		Clear removes both entries. Clearing an empty store is not an error.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context) error
}

// # In-Memory Store

// MemoryStore keeps the session in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries Entries
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read implements [Store].
func (store *MemoryStore) Read(context.Context) (Entries, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.entries, nil
}

// Write implements [Store].
func (store *MemoryStore) Write(_ context.Context, entries Entries) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries = entries
	return nil
}

// Clear implements [Store].
func (store *MemoryStore) Clear(context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries = Entries{}
	return nil
}
