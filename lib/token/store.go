// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/dms/lib/failure"
)

// MaxSize is the largest token, in bytes, the store reads or writes.
const MaxSize = 255

// Token errors, testable with errors.Is.
var (
	ErrNotFound  = errors.New("token file not found")
	ErrTooLarge  = errors.New("token file too large")
	ErrTruncated = errors.New("could not read the whole token file")
	ErrEmpty     = errors.New("token file is empty")
)

// Store reads and writes the token file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store for the token file at path. The file need
// not exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the token file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the token. Exactly one trailing newline, if present, is
// removed; anything else is returned as written.
func (s *Store) Load() (string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return "", failure.Wrap(failure.CategoryToken, fmt.Errorf("%w: %w", ErrNotFound, err))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", failure.Token("stat %s: %w", s.path, err)
	}
	if !info.Mode().IsRegular() {
		return "", failure.Token("%w: %s is not a regular file", ErrNotFound, s.path)
	}
	size := info.Size()
	if size > MaxSize {
		return "", failure.Token("%w: %s is %d bytes, limit is %d", ErrTooLarge, s.path, size, MaxSize)
	}

	data := make([]byte, size)
	read, err := io.ReadFull(file, data)
	if int64(read) != size {
		return "", failure.Token("%w: read %d of %d bytes from %s: %v", ErrTruncated, read, size, s.path, err)
	}

	token := strings.TrimSuffix(string(data), "\n")
	if token == "" {
		return "", failure.Token("%w: %s", ErrEmpty, s.path)
	}
	return token, nil
}

// Save writes token with no trailing newline, replacing any existing
// file. The parent directory is created if missing. The write goes to a
// temporary file that is fsynced and renamed into place; on failure the
// previous token file, if any, is left unchanged.
func (s *Store) Save(token string) error {
	if len(token) > MaxSize {
		return failure.Token("%w: token is %d bytes, limit is %d", ErrTooLarge, len(token), MaxSize)
	}
	if token == "" {
		return failure.Token("%w: refusing to save an empty token", ErrEmpty)
	}

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return failure.Token("creating token directory: %w", err)
	}

	temporaryPath := s.path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return failure.Token("creating temporary token file: %w", err)
	}

	// Write, sync, close, in that order. Any failure removes the
	// temporary file and reports the first error.
	if _, err := file.Write([]byte(token)); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return failure.Token("writing temporary token file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return failure.Token("syncing temporary token file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return failure.Token("closing temporary token file: %w", err)
	}

	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return failure.Token("renaming token file into place: %w", err)
	}

	// Sync the parent directory so the rename survives a power loss.
	parentDirectory, err := os.Open(directory)
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Delete removes the token file. Unlike Save, it is not idempotent: a
// missing file is an error, because the caller expected a token.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil {
		return failure.Token("removing token file: %w", err)
	}
	return nil
}

// Exists reports whether the token file is a regular file that can be
// opened for reading, the same checks Load makes before reading. It
// does not validate the contents.
func (s *Store) Exists() bool {
	file, err := os.Open(s.path)
	if err != nil {
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	return err == nil && info.Mode().IsRegular()
}
