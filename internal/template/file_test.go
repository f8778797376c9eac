package template

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestFileStore_LoadMissingIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "none", FileName))
	store, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", FileName)
	fs := NewFileStore(path)

	store := NewStore()
	if err := store.Add("go", []string{"go mod init app", "git init"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add("node", []string{"npm init -y"}); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(store); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "templates:") || !strings.Contains(string(data), "go mod init app") {
		t.Errorf("unexpected file content:\n%s", data)
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := loaded.Get("go")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Commands, []string{"go mod init app", "git init"}) {
		t.Errorf("commands = %v", got.Commands)
	}
	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, want 2", loaded.Len())
	}
}

func TestFileStore_LoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "templates:\n  broken:\n    commands: []\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Load(); !errors.Is(err, ErrEmptyCommands) {
		t.Errorf("Load() error = %v, want ErrEmptyCommands", err)
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("templates: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}
}

func TestFileStore_Update(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), FileName))

	if err := fs.Update(func(s *Store) error { return s.Add("a", []string{"true"}) }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A failing update writes nothing.
	err := fs.Update(func(s *Store) error {
		s.Clear()
		return s.Remove("missing")
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}

	store, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("a"); err != nil {
		t.Errorf("failed update changed the file: %v", err)
	}
}
