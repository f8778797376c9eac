// pattern: Imperative Shell
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"projman/internal/cli"
	"projman/internal/config"
	"projman/internal/library"
	"projman/internal/logging"
	"projman/internal/process"
	"projman/internal/tui"
)

var version = "dev"

const logFileName = "projman.log"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDirFlag := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/projman)")
	verbose := flag.BoolP("verbose", "v", false, "mirror log output to stderr")

	flag.Usage = func() {
		app := cli.BuildApp(version, &cli.Deps{})
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	configDir := config.ResolveDir(*configDirFlag)
	dataDir := config.ResolveDataDir(*configDirFlag)

	cfg, warnings := loadConfig(configDir)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}

	var console io.Writer
	if *verbose {
		console = os.Stderr
	}
	logManager, err := newLogManager(dataDir, cfg.LogLevel, console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	defer func() {
		if logManager != nil {
			_ = logManager.Close()
		}
	}()

	logs := logging.NopProvider()
	if logManager != nil {
		logs = logManager
	}
	logs.For("app").Debug("starting", "version", version, "root", cfg.Root, "config_dir", configDir)

	styles := tui.NewStyles(cfg.Theme)
	deps := &cli.Deps{
		Config:    cfg,
		ConfigDir: configDir,
		DataDir:   dataDir,
		Runner:    process.NewExecRunner(logs.For("process")),
		Logs:      logs,
		Confirm:   tui.NewPrompter(styles),
		Styles:    styles,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Pick: func(projects []library.Project) (library.Project, bool, error) {
			return tui.Pick(projects, styles, os.Stdin, os.Stderr)
		},
	}

	app := cli.BuildApp(version, deps)
	app.ExitFunc = func(code int) {
		if logManager != nil {
			_ = logManager.Close()
		}
		os.Exit(code)
	}

	if app.Execute(flag.Args()) {
		app.RunDefault()
	}
}

// loadConfig reads config.yaml from configDir and resolves it for the
// running platform. Problems are returned as warnings alongside a usable
// Config.
func loadConfig(configDir string) (config.Config, []error) {
	var warnings []error

	cfg, err := config.LoadFromDir(configDir)
	if err != nil {
		warnings = append(warnings, fmt.Errorf("failed to load config: %w", err))
	}

	cfg, err = config.Resolve(config.CurrentPlatform(), config.EnvFromOS(), cfg, exec.LookPath)
	if err != nil {
		warnings = append(warnings, err)
	}
	return cfg, warnings
}

func newLogManager(dataDir, level string, console io.Writer) (*logging.Manager, error) {
	return logging.NewManager(logging.Config{
		FilePath:   filepath.Join(dataDir, logFileName),
		MaxSizeMB:  5,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Level:      level,
		Console:    console,
	})
}
