// pattern: Imperative Shell

// Package library is the catalog of project directories under one root.
//
// A Library is a snapshot: it is scanned once by New and never refreshed.
// Create, Rename and Remove act on the filesystem directly and leave the
// snapshot untouched, so callers that need to observe their changes must
// build a new Library.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"projman/internal/logging"
	"projman/internal/process"
)

const defaultGitProgram = "git"

// Project is a directory directly under the library root.
type Project struct {
	Name string
	Path string
}

// CloneSpec parameterizes one clone invocation. Empty Branch or Name means
// the option is not passed.
type CloneSpec struct {
	Remote string
	Branch string
	Name   string
}

// Library is the last known state of the projects under Root.
type Library struct {
	root    string
	entries []Project

	runner process.Runner
	git    string
	logger *logging.ScopedLogger
}

// Option configures a Library.
type Option func(*Library)

// WithRunner sets the runner used for clone.
func WithRunner(r process.Runner) Option {
	return func(l *Library) { l.runner = r }
}

// WithGitProgram overrides the version control executable (default "git").
func WithGitProgram(program string) Option {
	return func(l *Library) { l.git = program }
}

// WithLogger sets the logger for filesystem mutations.
func WithLogger(logger *logging.ScopedLogger) Option {
	return func(l *Library) { l.logger = logger }
}

// New scans root and returns its catalog. Only directories qualify; names with
// the hidden prefix are kept only when displayHidden is set, and reserved names
// are always skipped. Entries keep directory listing order.
func New(root string, displayHidden bool, opts ...Option) (*Library, error) {
	l := &Library{
		git:    defaultGitProgram,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, root, err)
	}
	l.root = abs

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, abs)
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, abs, err)
	}

	for _, entry := range dirEntries {
		name := entry.Name()
		if IsReserved(name) {
			continue
		}
		if IsHidden(name) && !displayHidden {
			continue
		}
		path := filepath.Join(abs, name)
		if !isDir(entry, path) {
			continue
		}
		l.entries = append(l.entries, Project{Name: name, Path: path})
	}

	l.logger.Debug("library scanned", "root", abs, "projects", len(l.entries), "display_hidden", displayHidden)
	return l, nil
}

// isDir follows symlinks so a linked project directory still counts.
func isDir(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Root returns the absolute library root.
func (l *Library) Root() string {
	return l.root
}

// Projects returns a copy of the catalog in scan order.
func (l *Library) Projects() []Project {
	return slices.Clone(l.entries)
}

// Names returns the project names in scan order.
func (l *Library) Names() []string {
	names := make([]string, len(l.entries))
	for i, p := range l.entries {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether name is in the snapshot.
func (l *Library) Contains(name string) bool {
	_, ok := l.lookup(name)
	return ok
}

// Get returns the project called name from the snapshot.
func (l *Library) Get(name string) (Project, error) {
	p, ok := l.lookup(name)
	if !ok {
		return Project{}, nameErr(name, ErrNotFound)
	}
	return p, nil
}

// IsEmpty reports whether the snapshot has no projects.
func (l *Library) IsEmpty() bool {
	return len(l.entries) == 0
}

// Len returns the number of projects in the snapshot.
func (l *Library) Len() int {
	return len(l.entries)
}

func (l *Library) lookup(name string) (Project, bool) {
	for _, p := range l.entries {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// PathFor returns where a project called name lives, whether or not it exists.
func (l *Library) PathFor(name string) string {
	return filepath.Join(l.root, name)
}

// Create makes a new project directory. Existence is checked against the
// disk at call time, not against the snapshot.
func (l *Library) Create(name string) (Project, error) {
	if err := ValidateName(name); err != nil {
		return Project{}, err
	}

	path := l.PathFor(name)
	if exists, err := pathExists(path); err != nil {
		return Project{}, &FSError{Op: "stat", Path: path, Err: err}
	} else if exists {
		return Project{}, nameErr(name, ErrAlreadyExists)
	}

	if err := os.Mkdir(path, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return Project{}, nameErr(name, ErrAlreadyExists)
		}
		return Project{}, &FSError{Op: "mkdir", Path: path, Err: err}
	}

	l.logger.Info("project created", "name", name, "path", path)
	return Project{Name: name, Path: path}, nil
}

// Rename moves project oldName to newName with a single os.Rename.
func (l *Library) Rename(oldName, newName string) error {
	old, ok := l.lookup(oldName)
	if !ok {
		return nameErr(oldName, ErrNotFound)
	}
	if err := ValidateName(newName); err != nil {
		return err
	}

	target := l.PathFor(newName)
	if exists, err := pathExists(target); err != nil {
		return &FSError{Op: "stat", Path: target, Err: err}
	} else if exists {
		return nameErr(newName, ErrAlreadyExists)
	}

	if err := os.Rename(old.Path, target); err != nil {
		return &FSError{Op: "rename", Path: old.Path, Err: err}
	}

	l.logger.Info("project renamed", "from", oldName, "to", newName)
	return nil
}

// Remove deletes a project directory and everything in it. There is no
// confirmation and no undo.
func (l *Library) Remove(name string) error {
	p, ok := l.lookup(name)
	if !ok {
		return nameErr(name, ErrNotFound)
	}
	if err := os.RemoveAll(p.Path); err != nil {
		return &FSError{Op: "remove", Path: p.Path, Err: err}
	}
	l.logger.Info("project removed", "name", name, "path", p.Path)
	return nil
}

// RemovePath deletes a directory directly under the root by path. It is the
// removal capability handed to the template engine, which works with the
// path of a project created after the snapshot was taken.
func (l *Library) RemovePath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &FSError{Op: "remove", Path: path, Err: err}
	}
	if filepath.Dir(abs) != l.root || IsReserved(filepath.Base(abs)) {
		return &FSError{Op: "remove", Path: abs, Err: fmt.Errorf("%w: not a project under %s", ErrInvalidPath, l.root)}
	}
	if err := os.RemoveAll(abs); err != nil {
		return &FSError{Op: "remove", Path: abs, Err: err}
	}
	l.logger.Info("project directory removed", "path", abs)
	return nil
}

// ProjectIsEmpty reports whether the project directory has no entries.
func (l *Library) ProjectIsEmpty(p Project) (bool, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return false, &FSError{Op: "open", Path: p.Path, Err: err}
	}
	defer func() { _ = f.Close() }()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, &FSError{Op: "readdir", Path: p.Path, Err: err}
	}
	return false, nil
}

// Clone runs "git clone <remote> [name] [-b branch]" in the root. When
// spec.Name is empty the directory name is left to git.
func (l *Library) Clone(ctx context.Context, spec CloneSpec) error {
	remote := strings.TrimSpace(spec.Remote)
	if remote == "" {
		return &CloneError{Err: errors.New("remote is required")}
	}
	if spec.Name != "" {
		if err := ValidateName(spec.Name); err != nil {
			return &CloneError{Remote: remote, Err: err}
		}
	}
	if l.runner == nil {
		return &CloneError{Remote: remote, Err: errors.New("no program runner configured")}
	}

	err := l.runner.Run(ctx, process.Cmd{
		Program: l.git,
		Args:    CloneArgs(spec),
		Dir:     l.root,
		Inherit: true,
	})
	if err != nil {
		l.logger.Error("clone failed", "remote", remote, "error", err)
		return &CloneError{Remote: remote, Err: err}
	}

	l.logger.Info("project cloned", "remote", remote, "name", spec.Name, "branch", spec.Branch)
	return nil
}

// CloneArgs builds the argument list for a clone invocation.
func CloneArgs(spec CloneSpec) []string {
	args := []string{"clone", strings.TrimSpace(spec.Remote)}
	if spec.Name != "" {
		args = append(args, spec.Name)
	}
	if spec.Branch != "" {
		args = append(args, "-b", spec.Branch)
	}
	return args
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
