// pattern: Imperative Shell

package template

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// FileName is the default name of the template file inside the config directory.
const FileName = "templates.yaml"

// fileFormat is the on-disk layout:
//
//	templates:
//	  go:
//	    commands:
//	      - go mod init example.com/app
//	      - git init
type fileFormat struct {
	Templates map[string]Template `yaml:"templates"`
}

// FileStore persists a Store as YAML. Writes hold an flock on a sibling
// lock file so concurrent invocations do not interleave.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) lock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return nil, fmt.Errorf("creating template directory: %w", err)
	}
	fl := flock.New(f.path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w", f.path, err)
	}
	return fl, nil
}

// Load reads the store. A missing file yields an empty store.
func (f *FileStore) Load() (*Store, error) {
	store := NewStore()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}

	for _, name := range slices.Sorted(maps.Keys(doc.Templates)) {
		if err := store.Add(name, doc.Templates[name].Commands); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f.path, err)
		}
	}
	return store, nil
}

// Save writes the store atomically: a temp file in the same directory is
// renamed over the target.
func (f *FileStore) Save(store *Store) error {
	fl, err := f.lock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	return f.write(store)
}

// Update loads the store, applies fn and saves the result while holding the
// lock for the whole read-modify-write. Nothing is written if fn fails.
func (f *FileStore) Update(fn func(*Store) error) error {
	fl, err := f.lock()
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	store, err := f.Load()
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	return f.write(store)
}

func (f *FileStore) write(store *Store) error {
	doc := fileFormat{Templates: make(map[string]Template, store.Len())}
	for _, t := range store.List() {
		doc.Templates[t.Name] = t
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".templates-*.yaml")
	if err != nil {
		return fmt.Errorf("writing templates: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing templates: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing templates: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
