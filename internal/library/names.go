// pattern: Functional Core

package library

import (
	"fmt"
	"strings"
)

// HiddenPrefix marks names that are left out of the catalog unless hidden
// entries are requested.
const HiddenPrefix = "."

// reservedNames are OS housekeeping and tool metadata directories that are
// never projects, whatever the hidden setting.
var reservedNames = map[string]struct{}{
	".":                         {},
	"..":                        {},
	"$RECYCLE.BIN":              {},
	"System Volume Information": {},
	"lost+found":                {},
	".Trash":                    {},
	".Trashes":                  {},
	".Spotlight-V100":           {},
	".fseventsd":                {},
	".DocumentRevisions-V100":   {},
	".TemporaryItems":           {},
	".git":                      {},
	".github":                   {},
	".hg":                       {},
	".svn":                      {},
	".vscode":                   {},
	".idea":                     {},
}

// IsReserved reports whether name is a system or metadata directory name.
// Per-user trash directories (".Trash-1000") are matched by prefix.
func IsReserved(name string) bool {
	if _, ok := reservedNames[name]; ok {
		return true
	}
	return strings.HasPrefix(name, ".Trash-")
}

// IsHidden reports whether name starts with the hidden marker.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, HiddenPrefix)
}

// ValidateName checks that name can be used as a project directory directly
// under the root.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	if IsReserved(name) {
		return fmt.Errorf("%w: %q is a reserved name", ErrInvalidName, name)
	}
	return nil
}

// DeriveCloneName predicts the directory name git derives from a remote:
// the last path segment with any trailing slash and ".git" suffix removed.
func DeriveCloneName(remote string) string {
	s := strings.TrimRight(strings.TrimSpace(remote), `/\`)
	if i := strings.LastIndexAny(s, `/\:`); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}
