// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/taibuivan/eduadmin/internal/platform/constants"
)

// fileLayout is the on-disk JSON document.
type fileLayout struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// FileStore persists the session as a JSON file readable only by its owner.
//
// When built with a secret the file is sealed; a file sealed with another
// secret, or not sealed at all, reads as corrupt.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
}

// NewFileStore creates a [FileStore] at path. An empty secret disables sealing.
func NewFileStore(path, secret string) *FileStore {
	return &FileStore{path: path, sealer: newSealer(secret)}
}

// DefaultFilePath returns <user config dir>/eduadmin/<profile>/session.json.
func DefaultFilePath(profile string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: locate config dir: %w", err)
	}
	if profile == "" {
		profile = constants.DefaultSessionProfile
	}
	return filepath.Join(configDir, constants.AppName, profile, constants.SessionFileName), nil
}

// Path returns the file location.
func (store *FileStore) Path() string {
	return store.path
}

/*
Read loads and decodes the session file.

Parameters:
  - context: context.Context

Returns:
  - Entries: Zero value when the file does not exist
  - error: ErrCorrupt (wrapped) or filesystem errors
*/
func (store *FileStore) Read(_ context.Context) (Entries, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entries{}, nil
		}
		return Entries{}, fmt.Errorf("session_file_read_failed: %w", err)
	}

	if store.sealer != nil {
		if data, err = store.sealer.open(data); err != nil {
			return Entries{}, err
		}
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return Entries{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return Entries{Token: layout.Token, User: layout.User}, nil
}

/*
Write replaces the session file atomically (temp file + rename).

Parameters:
  - context: context.Context
  - entries: Entries

Returns:
  - error: Filesystem or sealing failures
*/
func (store *FileStore) Write(_ context.Context, entries Entries) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.Marshal(fileLayout{Token: entries.Token, User: entries.User})
	if err != nil {
		return fmt.Errorf("session_file_encode_failed: %w", err)
	}

	if store.sealer != nil {
		if data, err = store.sealer.seal(data); err != nil {
			return err
		}
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session_file_mkdir_failed: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session_file_create_failed: %w", err)
	}
	tempPath := temp.Name()

	// Remove the temp file on any failure below; after a successful rename it is gone.
	defer func() { _ = os.Remove(tempPath) }()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		return fmt.Errorf("session_file_write_failed: %w", err)
	}
	if err := temp.Chmod(0o600); err != nil {
		_ = temp.Close()
		return fmt.Errorf("session_file_chmod_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("session_file_close_failed: %w", err)
	}

	if err := os.Rename(tempPath, store.path); err != nil {
		return fmt.Errorf("session_file_rename_failed: %w", err)
	}

	return nil
}

/*
Clear deletes the session file. A missing file is not an error.

Parameters:
  - context: context.Context

Returns:
  - error: Filesystem failures
*/
func (store *FileStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session_file_remove_failed: %w", err)
	}
	return nil
}
