// pattern: Imperative Shell

// Package state keeps the small amount of data projman remembers between
// invocations, and the lock that serialises changes to the project root.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

const (
	FileName     = "state.yaml"
	lockFileName = "projman.lock"
)

// ErrLocked is returned by Lock when another invocation holds the root lock.
var ErrLocked = errors.New("another projman command is modifying the library")

// State is the persisted document.
type State struct {
	Recent string `yaml:"recent,omitempty"`
}

// File is a State stored as YAML in the data directory.
type File struct {
	path string
}

// NewFile returns the state file inside dataDir.
func NewFile(dataDir string) *File {
	return &File{path: filepath.Join(dataDir, FileName)}
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

// Load reads the state. A missing file is an empty State.
func (f *File) Load() (State, error) {
	var st State
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("reading state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return st, nil
}

// Recent returns the most recently opened project name, or "" when none is
// recorded or the file cannot be read.
func (f *File) Recent() string {
	st, err := f.Load()
	if err != nil {
		return ""
	}
	return st.Recent
}

// SetRecent records name as the most recently opened project.
func (f *File) SetRecent(name string) error {
	return f.Update(func(st *State) { st.Recent = name })
}

// Renamed keeps the recent marker pointing at a project after it is renamed.
func (f *File) Renamed(oldName, newName string) error {
	return f.Update(func(st *State) {
		if st.Recent == oldName {
			st.Recent = newName
		}
	})
}

// Removed forgets name if it is the recent project.
func (f *File) Removed(name string) error {
	return f.Update(func(st *State) {
		if st.Recent == name {
			st.Recent = ""
		}
	})
}

// Update applies fn to the stored state under an exclusive flock.
func (f *File) Update(fn func(*State)) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fl := flock.New(f.path + ".lock")
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", f.path, err)
	}
	defer func() { _ = fl.Unlock() }()

	st, err := f.Load()
	if err != nil {
		return err
	}
	fn(&st)

	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

// Lock takes the exclusive root lock for commands that change the library.
// The caller must defer Cleanup.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return fl, nil
}

// Cleanup releases the root lock.
func Cleanup(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}
