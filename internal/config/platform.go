// pattern: Functional Core

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnsupportedPlatform is matched by the error Resolve returns for an
// operating system it has no defaults for.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// UnsupportedPlatformError names the platform Resolve did not recognise.
// The Config returned alongside it is still complete, filled with the
// unix-family defaults.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q: using unix defaults", e.Platform)
}

// Is lets errors.Is match ErrUnsupportedPlatform.
func (e *UnsupportedPlatformError) Is(target error) bool {
	return target == ErrUnsupportedPlatform
}

// Env carries the environment values Resolve depends on.
type Env struct {
	Home    string
	Visual  string
	Editor  string
	Shell   string
	ComSpec string
}

// EnvFromOS reads Env from the running process.
func EnvFromOS() Env {
	home, _ := os.UserHomeDir()
	return Env{
		Home:    home,
		Visual:  os.Getenv("VISUAL"),
		Editor:  os.Getenv("EDITOR"),
		Shell:   os.Getenv("SHELL"),
		ComSpec: os.Getenv("COMSPEC"),
	}
}

// CurrentPlatform returns the GOOS of the running binary.
func CurrentPlatform() string {
	return runtime.GOOS
}

type family int

const (
	familyUnix family = iota
	familyWindows
)

var unixPlatforms = map[string]bool{
	"linux": true, "darwin": true, "freebsd": true, "openbsd": true,
	"netbsd": true, "dragonfly": true, "solaris": true, "illumos": true,
	"aix": true, "android": true, "ios": true,
}

// editorCandidates are tried in order when neither VISUAL nor EDITOR is set.
var editorCandidates = map[family][]string{
	familyUnix:    {"nvim", "vim", "nano", "vi"},
	familyWindows: {"code", "notepad"},
}

// Resolve fills every unset program in cfg with the platform default and
// expands a leading "~" in Root. It reads nothing from the process: platform,
// env and lookPath are the only inputs. lookPath may be nil, in which case the
// last editor candidate is used without probing.
//
// For an unknown platform the unix defaults are applied and an
// *UnsupportedPlatformError is returned with the usable Config.
func Resolve(platform string, env Env, cfg Config, lookPath LookPathFunc) (Config, error) {
	var resolveErr error

	fam := familyUnix
	switch {
	case platform == "windows":
		fam = familyWindows
	case unixPlatforms[platform]:
	default:
		resolveErr = &UnsupportedPlatformError{Platform: platform}
	}

	cfg.Root = expandHome(cfg.Root, env.Home)

	if cfg.Editor.Program == "" {
		cfg.Editor.Program = defaultEditor(fam, env, lookPath)
	}

	if cfg.Shell.Program == "" {
		cfg.Shell.Program = defaultShell(fam, env)
	}

	if cfg.TemplateShell.Program == "" {
		switch fam {
		case familyWindows:
			cfg.TemplateShell = ProgramConfig{Program: "cmd", Args: []string{"/C"}}
		default:
			cfg.TemplateShell = ProgramConfig{Program: "sh", Args: []string{"-c"}}
		}
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}

	return cfg, resolveErr
}

func defaultEditor(fam family, env Env, lookPath LookPathFunc) string {
	if env.Visual != "" {
		return env.Visual
	}
	if env.Editor != "" {
		return env.Editor
	}

	candidates := editorCandidates[fam]
	if lookPath != nil {
		for _, c := range candidates {
			if _, err := lookPath(c); err == nil {
				return c
			}
		}
	}
	return candidates[len(candidates)-1]
}

func defaultShell(fam family, env Env) string {
	switch fam {
	case familyWindows:
		if env.ComSpec != "" {
			return env.ComSpec
		}
		return "cmd.exe"
	default:
		if env.Shell != "" {
			return env.Shell
		}
		return "sh"
	}
}

// expandHome replaces a leading "~" with home.
func expandHome(path, home string) string {
	if home == "" || path == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}
