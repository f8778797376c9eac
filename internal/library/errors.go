// pattern: Functional Core

package library

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath means the library root is missing or not a readable directory.
	ErrInvalidPath = errors.New("invalid library root")
	// ErrNotFound means the project is not in the catalog snapshot.
	ErrNotFound = errors.New("project not found")
	// ErrAlreadyExists means the target path is already taken on disk.
	ErrAlreadyExists = errors.New("project already exists")
	// ErrInvalidName means the name is reserved or cannot be a single directory name.
	ErrInvalidName = errors.New("invalid project name")
	// ErrCloneFailed means the version control program did not complete the clone.
	ErrCloneFailed = errors.New("clone failed")
)

// NameError ties a lookup sentinel to the name that caused it.
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Name)
}

func (e *NameError) Unwrap() error {
	return e.Err
}

// FSError reports a filesystem failure with the operation and path involved.
type FSError struct {
	Op   string
	Path string
	Err  error
}

func (e *FSError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FSError) Unwrap() error {
	return e.Err
}

// CloneError wraps the runner failure of a clone invocation.
type CloneError struct {
	Remote string
	Err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone %s: %v", e.Remote, e.Err)
}

// Is lets errors.Is match ErrCloneFailed.
func (e *CloneError) Is(target error) bool {
	return target == ErrCloneFailed
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

func nameErr(name string, err error) error {
	return &NameError{Name: name, Err: err}
}
