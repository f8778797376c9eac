package template

import (
	"errors"
	"slices"
	"testing"
)

func TestStore_Add(t *testing.T) {
	s := NewStore()

	if err := s.Add("go", []string{"go mod init app", "git init"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := s.Get("go")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "go" || !slices.Equal(got.Commands, []string{"go mod init app", "git init"}) {
		t.Errorf("Get() = %+v", got)
	}
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		commands []string
		wantErr  error
	}{
		{"duplicate", "go", []string{"true"}, ErrAlreadyExists},
		{"no commands", "empty", nil, ErrEmptyCommands},
		{"blank command", "blank", []string{"echo hi", "   "}, ErrEmptyCommands},
		{"empty command", "blank2", []string{""}, ErrEmptyCommands},
		{"blank name", " ", []string{"true"}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			if err := s.Add("go", []string{"go mod init app"}); err != nil {
				t.Fatal(err)
			}

			err := s.Add(tt.tmpl, tt.commands)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
			}

			// No mutation on failure.
			if s.Len() != 1 {
				t.Errorf("Len() = %d after failed Add, want 1", s.Len())
			}
			got, _ := s.Get("go")
			if !slices.Equal(got.Commands, []string{"go mod init app"}) {
				t.Errorf("existing template changed: %v", got.Commands)
			}
		})
	}
}

func TestStore_AddCopiesCommands(t *testing.T) {
	s := NewStore()
	cmds := []string{"a", "b"}
	if err := s.Add("t", cmds); err != nil {
		t.Fatal(err)
	}
	cmds[0] = "mutated"

	got, _ := s.Get("t")
	if got.Commands[0] != "a" {
		t.Error("store should not alias the caller's slice")
	}

	got.Commands[1] = "mutated"
	again, _ := s.Get("t")
	if again.Commands[1] != "b" {
		t.Error("Get should return a copy")
	}
}

func TestStore_RemoveClearList(t *testing.T) {
	s := NewStore()
	for _, name := range []string{"rust", "go", "python"} {
		if err := s.Add(name, []string{"true"}); err != nil {
			t.Fatal(err)
		}
	}

	var names []string
	for _, tmpl := range s.List() {
		names = append(names, tmpl.Name)
	}
	if !slices.Equal(names, []string{"go", "python", "rust"}) {
		t.Errorf("List() names = %v, want sorted", names)
	}

	if err := s.Remove("go"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove("go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get("go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(removed) error = %v, want ErrNotFound", err)
	}

	s.Clear()
	if s.Len() != 0 || len(s.List()) != 0 {
		t.Errorf("Clear() left %d templates", s.Len())
	}
}
