// pattern: Functional Core

// Package template stores named command lists and applies them to freshly
// created projects.
package template

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrAlreadyExists means a template with that name is already stored.
	ErrAlreadyExists = errors.New("template already exists")
	// ErrEmptyCommands means the command list is empty or has a blank entry.
	ErrEmptyCommands = errors.New("template needs at least one non-empty command")
	// ErrNotFound means no template with that name is stored.
	ErrNotFound = errors.New("template not found")
	// ErrInvalidName means the template name is blank.
	ErrInvalidName = errors.New("invalid template name")
)

// Template is an ordered list of shell commands. It always has at least one
// command and none of them are blank.
type Template struct {
	Name     string   `yaml:"-"`
	Commands []string `yaml:"commands"`
}

// Store maps template names to templates.
type Store struct {
	templates map[string]Template
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{templates: make(map[string]Template)}
}

// Add stores a new template. Nothing changes when it fails.
func (s *Store) Add(name string, commands []string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if _, ok := s.templates[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}
	if err := validateCommands(commands); err != nil {
		return fmt.Errorf("%q: %w", name, err)
	}

	s.templates[name] = Template{Name: name, Commands: slices.Clone(commands)}
	return nil
}

func validateCommands(commands []string) error {
	if len(commands) == 0 {
		return ErrEmptyCommands
	}
	for i, c := range commands {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: command %d is blank", ErrEmptyCommands, i+1)
		}
	}
	return nil
}

// Remove deletes the named template.
func (s *Store) Remove(name string) error {
	if _, ok := s.templates[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.templates, name)
	return nil
}

// Clear deletes every template.
func (s *Store) Clear() {
	clear(s.templates)
}

// Get returns the named template.
func (s *Store) Get(name string) (Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	t.Commands = slices.Clone(t.Commands)
	return t, nil
}

// List returns all templates sorted by name.
func (s *Store) List() []Template {
	out := make([]Template, 0, len(s.templates))
	for _, name := range slices.Sorted(maps.Keys(s.templates)) {
		t := s.templates[name]
		t.Commands = slices.Clone(t.Commands)
		out = append(out, t)
	}
	return out
}

// Len returns the number of stored templates.
func (s *Store) Len() int {
	return len(s.templates)
}
