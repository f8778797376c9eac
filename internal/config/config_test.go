package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadFullConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	configContent := `
root: ~/code
display_hidden: true
autocomplete: false
recent: false
editor:
  program: code
  args: ["--new-window"]
  fork: true
shell:
  program: zsh
template_shell:
  program: bash
  args: ["-lc"]
theme: latte
log_level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Root != "~/code" {
		t.Errorf("Root: got %q, want %q", cfg.Root, "~/code")
	}
	if !cfg.DisplayHidden || cfg.Autocomplete || cfg.Recent {
		t.Errorf("flags: got hidden=%v autocomplete=%v recent=%v", cfg.DisplayHidden, cfg.Autocomplete, cfg.Recent)
	}
	if cfg.Editor.Program != "code" || !cfg.Editor.Fork || !slices.Equal(cfg.Editor.Args, []string{"--new-window"}) {
		t.Errorf("Editor: got %+v", cfg.Editor)
	}
	if cfg.Shell.Program != "zsh" {
		t.Errorf("Shell: got %+v", cfg.Shell)
	}
	if cfg.TemplateShell.Program != "bash" || !slices.Equal(cfg.TemplateShell.Args, []string{"-lc"}) {
		t.Errorf("TemplateShell: got %+v", cfg.TemplateShell)
	}
	if cfg.Theme != "latte" {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, "latte")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Root != def.Root || cfg.Theme != "mocha" || !cfg.Autocomplete || !cfg.Recent {
		t.Errorf("LoadFrom(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("display_hidden: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DisplayHidden {
		t.Error("DisplayHidden not read")
	}
	if !cfg.Autocomplete || cfg.Theme != "mocha" || cfg.Root != DefaultConfig().Root {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("root: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(configPath)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Theme != "mocha" {
		t.Errorf("expected defaults on parse error, got %+v", cfg)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	data, err := yaml.Marshal(map[string]any{"root": "/srv/projects"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "/srv/projects" {
		t.Errorf("Root: got %q", cfg.Root)
	}
}

func TestDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Dir(); got != filepath.Join("/xdg", "projman") {
		t.Errorf("Dir() = %q", got)
	}
	if got := ResolveDir("/explicit"); got != "/explicit" {
		t.Errorf("ResolveDir(explicit) = %q", got)
	}
	if got := ResolveDir(""); got != filepath.Join("/xdg", "projman") {
		t.Errorf("ResolveDir(\"\") = %q", got)
	}
}

func TestDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DataDir(); got != filepath.Join("/data", "projman") {
		t.Errorf("DataDir() = %q", got)
	}
	if got := ResolveDataDir("/cfg"); got != "/cfg" {
		t.Errorf("ResolveDataDir(explicit) = %q", got)
	}
	if got := ResolveDataDir(""); got != filepath.Join("/data", "projman") {
		t.Errorf("ResolveDataDir(\"\") = %q", got)
	}
}

func notFound(string) (string, error) { return "", os.ErrNotExist }

func TestResolve_UnixDefaults(t *testing.T) {
	env := Env{Home: "/home/u", Shell: "/bin/zsh"}

	cfg, err := Resolve("linux", env, DefaultConfig(), notFound)
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if cfg.Root != filepath.Join("/home/u", "projects") {
		t.Errorf("Root: got %q", cfg.Root)
	}
	if cfg.Shell.Program != "/bin/zsh" {
		t.Errorf("Shell: got %q", cfg.Shell.Program)
	}
	if cfg.Editor.Program != "vi" {
		t.Errorf("Editor fallback: got %q, want vi", cfg.Editor.Program)
	}
	if cfg.TemplateShell.Program != "sh" || !slices.Equal(cfg.TemplateShell.Args, []string{"-c"}) {
		t.Errorf("TemplateShell: got %+v", cfg.TemplateShell)
	}
}

func TestResolve_EditorPrecedence(t *testing.T) {
	base := DefaultConfig()

	cfg, _ := Resolve("darwin", Env{Visual: "emacs", Editor: "nano"}, base, nil)
	if cfg.Editor.Program != "emacs" {
		t.Errorf("VISUAL should win, got %q", cfg.Editor.Program)
	}

	cfg, _ = Resolve("darwin", Env{Editor: "nano"}, base, nil)
	if cfg.Editor.Program != "nano" {
		t.Errorf("EDITOR should be used, got %q", cfg.Editor.Program)
	}

	cfg, _ = Resolve("linux", Env{}, base, func(name string) (string, error) {
		if name == "vim" {
			return "/usr/bin/vim", nil
		}
		return "", os.ErrNotExist
	})
	if cfg.Editor.Program != "vim" {
		t.Errorf("detected editor: got %q, want vim", cfg.Editor.Program)
	}

	base.Editor.Program = "hx"
	cfg, _ = Resolve("linux", Env{Visual: "emacs"}, base, nil)
	if cfg.Editor.Program != "hx" {
		t.Errorf("configured editor should win, got %q", cfg.Editor.Program)
	}
}

func TestResolve_Windows(t *testing.T) {
	cfg, err := Resolve("windows", Env{Home: `C:\Users\u`, ComSpec: `C:\Windows\system32\cmd.exe`}, DefaultConfig(), notFound)
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if cfg.Shell.Program != `C:\Windows\system32\cmd.exe` {
		t.Errorf("Shell: got %q", cfg.Shell.Program)
	}
	if cfg.Editor.Program != "notepad" {
		t.Errorf("Editor: got %q, want notepad", cfg.Editor.Program)
	}
	if cfg.TemplateShell.Program != "cmd" || !slices.Equal(cfg.TemplateShell.Args, []string{"/C"}) {
		t.Errorf("TemplateShell: got %+v", cfg.TemplateShell)
	}
}

func TestResolve_UnsupportedPlatformFallsBack(t *testing.T) {
	cfg, err := Resolve("plan9", Env{Home: "/usr/glenda"}, DefaultConfig(), nil)
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("Resolve error = %v, want ErrUnsupportedPlatform", err)
	}
	var upe *UnsupportedPlatformError
	if !errors.As(err, &upe) || upe.Platform != "plan9" {
		t.Errorf("error = %#v", err)
	}
	if cfg.Shell.Program != "sh" || cfg.Editor.Program != "vi" {
		t.Errorf("fallback config incomplete: %+v", cfg)
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path, home, want string
	}{
		{"~", "/h", "/h"},
		{"~/projects", "/h", filepath.Join("/h", "projects")},
		{"/abs", "/h", "/abs"},
		{"~other", "/h", "~other"},
		{"~/x", "", "~/x"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.path, tt.home); got != tt.want {
			t.Errorf("expandHome(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}
