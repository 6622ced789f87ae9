// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/dms/lib/failure"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "token"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, value := range []string{"tok_xyz", "a", strings.Repeat("z", MaxSize), "with space\tand tab"} {
		t.Run(value[:1], func(t *testing.T) {
			store := newTestStore(t)
			if err := store.Save(value); err != nil {
				t.Fatalf("Save: %v", err)
			}

			raw, err := os.ReadFile(store.Path())
			if err != nil {
				t.Fatalf("reading token file: %v", err)
			}
			if string(raw) != value {
				t.Errorf("file content = %q, want %q", raw, value)
			}

			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != value {
				t.Errorf("Load = %q, want %q", got, value)
			}
		})
	}
}

func TestLoadStripsOneTrailingNewline(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"tok\n", "tok"},
		{"tok\n\n", "tok\n"},
		{"tok", "tok"},
		{"to\nk", "to\nk"},
	}
	for _, test := range tests {
		t.Run(test.content, func(t *testing.T) {
			store := newTestStore(t)
			if err := os.WriteFile(store.Path(), []byte(test.content), 0600); err != nil {
				t.Fatalf("writing token file: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != test.want {
				t.Errorf("Load = %q, want %q", got, test.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
	if failure.CategoryOf(err) != failure.CategoryToken {
		t.Errorf("category = %q, want token", failure.CategoryOf(err))
	}
}

func TestLoadTooLarge(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(strings.Repeat("x", MaxSize+1)), 0600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}
	got, err := store.Load()
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("error = %v, want ErrTooLarge", err)
	}
	if got != "" {
		t.Errorf("Load returned partial token %q", got)
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, content := range []string{"", "\n"} {
		store := newTestStore(t)
		if err := os.WriteFile(store.Path(), []byte(content), 0600); err != nil {
			t.Fatalf("writing token file: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, ErrEmpty) {
			t.Errorf("Load(%q) error = %v, want ErrEmpty", content, err)
		}
	}
}

func TestLoadDirectory(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsOversizedAndEmpty(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(strings.Repeat("x", MaxSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Save(oversized) error = %v, want ErrTooLarge", err)
	}
	if err := store.Save(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Save(empty) error = %v, want ErrEmpty", err)
	}
	if store.Exists() {
		t.Error("rejected save left a token file behind")
	}
}

func TestSaveReplacesAndCleansUp(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "second" {
		t.Errorf("Load = %q, want %q", got, "second")
	}
	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file still present: %v", err)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "var", "lib", "dms", "token"))
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists() {
		t.Error("token file missing after Save")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists() {
		t.Fatal("Exists = false after Save")
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Exists() {
		t.Error("Exists = true after Delete")
	}

	err := store.Delete()
	if err == nil {
		t.Fatal("second Delete succeeded, want error")
	}
	if failure.CategoryOf(err) != failure.CategoryToken {
		t.Errorf("category = %q, want token", failure.CategoryOf(err))
	}
}

func TestExistsRejectsDirectory(t *testing.T) {
	directory := t.TempDir()
	store := NewStore(directory)
	if store.Exists() {
		t.Error("Exists = true for a directory")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}
