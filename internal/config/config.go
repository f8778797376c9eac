package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appName = "projman"

// Config is the user configuration, as read from config.yaml and then
// completed by Resolve.
type Config struct {
	Root          string        `yaml:"root"`
	DisplayHidden bool          `yaml:"display_hidden"`
	Autocomplete  bool          `yaml:"autocomplete"`
	Recent        bool          `yaml:"recent"`
	Editor        ProgramConfig `yaml:"editor"`
	Shell         ProgramConfig `yaml:"shell"`
	TemplateShell ProgramConfig `yaml:"template_shell"`
	Theme         string        `yaml:"theme"`
	LogLevel      string        `yaml:"log_level"`
}

// ProgramConfig names an external program and its leading arguments.
// Fork only applies to the editor: launch it without waiting.
type ProgramConfig struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
	Fork    bool     `yaml:"fork"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

func DefaultConfig() Config {
	return Config{
		Root:         filepath.Join("~", "projects"),
		Autocomplete: true,
		Recent:       true,
		Theme:        "mocha",
		LogLevel:     "info",
	}
}

// LoadFromDir reads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads the given file. A missing file yields DefaultConfig.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.Root == "" {
		cfg.Root = DefaultConfig().Root
	}

	return cfg, nil
}

// Dir returns the config directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}

	return filepath.Join(home, ".config", appName)
}

// DataDir returns the directory for state and logs, honouring XDG_DATA_HOME.
func DataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", appName)
	}

	return filepath.Join(home, ".local", "share", appName)
}

// ResolveDataDir returns configDir when one was given explicitly, so a
// self-contained config directory also holds state and logs. Otherwise it
// returns DataDir.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return DataDir()
}

// ResolveDir returns dir if set, otherwise the default config directory.
func ResolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	return Dir()
}
